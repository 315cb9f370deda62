package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/repositories"
	"golang.org/x/sync/errgroup"
)

type ResultService interface {
	Create(ctx context.Context, eventID int, winners []models.Winner) (*models.Result, error)
	GetByID(ctx context.Context, id int) (*models.Result, error)
	GetByEventID(ctx context.Context, eventID int) (*models.Result, error)
	// GetDetail собирает результат вместе с событием и пулом наград.
	GetDetail(ctx context.Context, id int) (*ResultDetail, error)
	// UpdateWinners переписывает итоговую таблицу. Запрещено после finalize;
	// блокировка аллокации таблицу победителей не трогает.
	UpdateWinners(ctx context.Context, id int, winners []models.Winner) (*models.Result, error)
}

// ResultDetail — агрегат для страницы результата.
type ResultDetail struct {
	Result *models.Result  `json:"result"`
	Event  *models.Event   `json:"event"`
	Awards []*models.Award `json:"awards"`
}

type resultService struct {
	db         *sql.DB
	resultRepo repositories.ResultRepository
	eventRepo  repositories.EventRepository
	awardRepo  repositories.AwardRepository
}

func NewResultService(
	db *sql.DB,
	resultRepo repositories.ResultRepository,
	eventRepo repositories.EventRepository,
	awardRepo repositories.AwardRepository,
) ResultService {
	return &resultService{
		db:         db,
		resultRepo: resultRepo,
		eventRepo:  eventRepo,
		awardRepo:  awardRepo,
	}
}

func (s *resultService) Create(ctx context.Context, eventID int, winners []models.Winner) (*models.Result, error) {
	if err := validateWinners(winners); err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByID(ctx, nil, eventID); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	result := &models.Result{
		EventID: eventID,
		Winners: winners,
	}
	if err := s.resultRepo.Create(ctx, nil, result); err != nil {
		switch {
		case errors.Is(err, repositories.ErrResultEventConflict):
			return nil, ErrResultExists
		case errors.Is(err, repositories.ErrEventNotFound):
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to create result: %w", err)
	}
	return result, nil
}

func (s *resultService) GetByID(ctx context.Context, id int) (*models.Result, error) {
	result, err := s.resultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapResultRepoError(err)
	}
	return result, nil
}

func (s *resultService) GetByEventID(ctx context.Context, eventID int) (*models.Result, error) {
	result, err := s.resultRepo.GetByEventID(ctx, nil, eventID)
	if err != nil {
		return nil, mapResultRepoError(err)
	}
	return result, nil
}

func (s *resultService) GetDetail(ctx context.Context, id int) (*ResultDetail, error) {
	result, err := s.resultRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, mapResultRepoError(err)
	}

	detail := &ResultDetail{Result: result}

	// Событие и пул наград не зависят друг от друга, грузим параллельно.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		event, err := s.eventRepo.GetByID(gctx, nil, result.EventID)
		if err != nil {
			return fmt.Errorf("failed to load event %d: %w", result.EventID, err)
		}
		detail.Event = event
		return nil
	})
	g.Go(func() error {
		awards, err := s.awardRepo.ListByEvent(gctx, nil, result.EventID)
		if err != nil {
			return fmt.Errorf("failed to load awards for event %d: %w", result.EventID, err)
		}
		detail.Awards = awards
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *resultService) UpdateWinners(ctx context.Context, id int, winners []models.Winner) (*models.Result, error) {
	if err := validateWinners(winners); err != nil {
		return nil, err
	}

	var updated *models.Result
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.resultRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return mapResultRepoError(err)
		}
		if res.AllocationFinalizedAt != nil {
			return ErrResultFinalized
		}
		if err := s.resultRepo.UpdateWinners(ctx, tx, id, winners); err != nil {
			return mapResultRepoError(err)
		}
		res.Winners = winners
		updated = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validateWinners(winners []models.Winner) error {
	seen := make(map[string]bool, len(winners))
	for _, w := range winners {
		if w.Place < 1 {
			return ErrWinnersInvalid
		}
		agaID := strings.TrimSpace(w.AgaID)
		if agaID == "" {
			return ErrWinnersInvalid
		}
		// Один игрок не может занять два места в одном дивизионе.
		key := w.Division + "\x00" + agaID
		if seen[key] {
			return ErrWinnersInvalid
		}
		seen[key] = true
	}
	return nil
}

func mapResultRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrResultNotFound):
		return ErrResultNotFound
	case errors.Is(err, repositories.ErrResultEventConflict):
		return ErrResultExists
	default:
		return err
	}
}
