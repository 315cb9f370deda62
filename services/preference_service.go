package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gocongress/prizes-sub001/allocation"
	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/realtime"
	"github.com/gocongress/prizes-sub001/repositories"
)

// PreferenceService — хранилище ранжированных предпочтений игрока.
type PreferenceService interface {
	// SetPreferenceOrder вставляет или обновляет позицию награды в списке
	// игрока. Пропуски в нумерации допустимы; плотность никто не обещает.
	SetPreferenceOrder(ctx context.Context, playerID, awardID, order int) (*models.AwardPreference, error)
	RemovePreference(ctx context.Context, playerID, awardID int) error
	// GetOrderedPreferences возвращает список по возрастанию
	// preference_order, равные порядки — по времени создания записи.
	GetOrderedPreferences(ctx context.Context, playerID int) ([]*models.AwardPreference, error)
}

type preferenceService struct {
	db         *sql.DB
	prefRepo   repositories.PreferenceRepository
	awardRepo  repositories.AwardRepository
	playerRepo repositories.PlayerRepository
	resultRepo repositories.ResultRepository
	hub        *realtime.Hub
	logger     *slog.Logger
}

func NewPreferenceService(
	db *sql.DB,
	prefRepo repositories.PreferenceRepository,
	awardRepo repositories.AwardRepository,
	playerRepo repositories.PlayerRepository,
	resultRepo repositories.ResultRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) PreferenceService {
	return &preferenceService{
		db:         db,
		prefRepo:   prefRepo,
		awardRepo:  awardRepo,
		playerRepo: playerRepo,
		resultRepo: resultRepo,
		hub:        hub,
		logger:     logger,
	}
}

func (s *preferenceService) SetPreferenceOrder(ctx context.Context, playerID, awardID, order int) (*models.AwardPreference, error) {
	if order < 1 {
		return nil, ErrInvalidPreferenceOrder
	}

	pref := &models.AwardPreference{
		PlayerID:        playerID,
		AwardID:         awardID,
		PreferenceOrder: order,
	}

	var recomputedResultID int
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		award, err := s.awardRepo.GetByID(ctx, tx, awardID)
		if err != nil {
			return mapAwardRepoError(err)
		}
		if _, err := s.playerRepo.GetByID(ctx, tx, playerID); err != nil {
			return mapPlayerRepoError(err)
		}

		// Блокировка строки результата до записи: параллельный lock/finalize
		// либо дождётся нас, либо заставит нас увидеть уже новое состояние.
		res, err := s.lockResultByEvent(ctx, tx, award.EventID)
		if err != nil {
			return err
		}
		if err := guardPreferenceWrite(res); err != nil {
			return err
		}

		if err := s.prefRepo.Upsert(ctx, tx, pref); err != nil {
			return mapPreferenceRepoError(err)
		}

		// В open пересчёт запускается на каждой значимой записи.
		if res != nil {
			if _, err := computeAndApply(ctx, tx, s.awardRepo, s.prefRepo, award.EventID); err != nil {
				return err
			}
			recomputedResultID = res.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if recomputedResultID != 0 {
		s.logger.Debug("allocation recomputed after preference write",
			slog.Int("player_id", playerID),
			slog.Int("award_id", awardID),
			slog.Int("result_id", recomputedResultID),
		)
		s.hub.BroadcastToRoom(strconv.Itoa(recomputedResultID), realtime.Message{
			Type:    realtime.EventAllocationUpdated,
			Payload: map[string]int{"result_id": recomputedResultID},
		})
	}
	return pref, nil
}

func (s *preferenceService) RemovePreference(ctx context.Context, playerID, awardID int) error {
	var recomputedResultID int
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		award, err := s.awardRepo.GetByID(ctx, tx, awardID)
		if err != nil {
			return mapAwardRepoError(err)
		}

		res, err := s.lockResultByEvent(ctx, tx, award.EventID)
		if err != nil {
			return err
		}
		if err := guardPreferenceWrite(res); err != nil {
			return err
		}

		if err := s.prefRepo.Delete(ctx, tx, playerID, awardID); err != nil {
			return mapPreferenceRepoError(err)
		}

		if res != nil {
			if _, err := computeAndApply(ctx, tx, s.awardRepo, s.prefRepo, award.EventID); err != nil {
				return err
			}
			recomputedResultID = res.ID
		}
		return nil
	})
	if err != nil {
		return err
	}

	if recomputedResultID != 0 {
		s.hub.BroadcastToRoom(strconv.Itoa(recomputedResultID), realtime.Message{
			Type:    realtime.EventAllocationUpdated,
			Payload: map[string]int{"result_id": recomputedResultID},
		})
	}
	return nil
}

func (s *preferenceService) GetOrderedPreferences(ctx context.Context, playerID int) ([]*models.AwardPreference, error) {
	if _, err := s.playerRepo.GetByID(ctx, nil, playerID); err != nil {
		return nil, mapPlayerRepoError(err)
	}
	return s.prefRepo.ListByPlayer(ctx, nil, playerID)
}

// lockResultByEvent возвращает результат события под row-level блокировкой,
// либо nil, если результата ещё нет (автомат в open).
func (s *preferenceService) lockResultByEvent(ctx context.Context, tx *sql.Tx, eventID int) (*models.Result, error) {
	res, err := s.resultRepo.GetByEventID(ctx, tx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, nil
		}
		return nil, err
	}
	locked, err := s.resultRepo.GetByIDForUpdate(ctx, tx, res.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock result %d: %w", res.ID, err)
	}
	return locked, nil
}

// computeAndApply — общий шаг пересчёта: собирает пул и предпочтения
// события, прогоняет движок и записывает исходы. Вызывается только внутри
// транзакции, уже держащей блокировку строки результата.
func computeAndApply(
	ctx context.Context,
	exec repositories.SQLExecutor,
	awardRepo repositories.AwardRepository,
	prefRepo repositories.PreferenceRepository,
	eventID int,
) ([]allocation.Outcome, error) {
	awards, err := awardRepo.ListByEvent(ctx, exec, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load award pool for event %d: %w", eventID, err)
	}
	prefs, err := prefRepo.ListByEvent(ctx, exec, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences for event %d: %w", eventID, err)
	}

	pool := make([]allocation.PoolAward, 0, len(awards))
	for _, a := range awards {
		pa := allocation.PoolAward{ID: a.ID, PrizeID: a.PrizeID}
		// Вручную закреплённым считается владелец с методом OVERRIDE;
		// владельцы, назначенные прошлым пересчётом, не закрепляются,
		// иначе пересчёт не был бы идемпотентным по исходным данным.
		if a.Assignment != nil && a.Assignment.Method() == allocation.MethodOverride && a.PlayerID != nil {
			owner := *a.PlayerID
			pa.OwnerID = &owner
		}
		pool = append(pool, pa)
	}

	engineInput := make([]allocation.Preference, 0, len(prefs))
	for _, p := range prefs {
		engineInput = append(engineInput, allocation.Preference{
			ID:       p.ID,
			PlayerID: p.PlayerID,
			AwardID:  p.AwardID,
			PrizeID:  p.PrizeID,
			Order:    p.PreferenceOrder,
		})
	}

	outcomes := allocation.Compute(pool, engineInput)
	if err := awardRepo.ApplyOutcomes(ctx, exec, outcomes); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func mapPreferenceRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrPreferenceNotFound):
		return ErrPreferenceNotFound
	case errors.Is(err, repositories.ErrAwardNotFound), errors.Is(err, repositories.ErrPreferenceAwardInvalid):
		return ErrAwardNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound):
		return ErrPlayerNotFound
	default:
		return err
	}
}
