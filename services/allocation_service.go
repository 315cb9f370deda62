package services

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/gocongress/prizes-sub001/allocation"
	"github.com/gocongress/prizes-sub001/models"
	"github.com/gocongress/prizes-sub001/realtime"
	"github.com/gocongress/prizes-sub001/repositories"
)

// AllocationService управляет пересчётом аллокаций и конечным автоматом
// результата. actorID — id действующего администратора, попадает в журнал.
type AllocationService interface {
	Recompute(ctx context.Context, resultID int) ([]allocation.Outcome, error)
	// Override вручную назначает владельца награды; playerID == nil снимает
	// назначение. Разрешён в open и locked, запрещён в finalized.
	Override(ctx context.Context, actorID, resultID, awardID int, playerID *int) error
	Lock(ctx context.Context, actorID, resultID int, confirmEmpty bool) (*models.Result, error)
	Unlock(ctx context.Context, actorID, resultID int) (*models.Result, error)
	Finalize(ctx context.Context, actorID, resultID int) (*models.Result, error)
}

type allocationService struct {
	db         *sql.DB
	resultRepo repositories.ResultRepository
	awardRepo  repositories.AwardRepository
	prefRepo   repositories.PreferenceRepository
	playerRepo repositories.PlayerRepository
	hub        *realtime.Hub
	logger     *slog.Logger
}

func NewAllocationService(
	db *sql.DB,
	resultRepo repositories.ResultRepository,
	awardRepo repositories.AwardRepository,
	prefRepo repositories.PreferenceRepository,
	playerRepo repositories.PlayerRepository,
	hub *realtime.Hub,
	logger *slog.Logger,
) AllocationService {
	return &allocationService{
		db:         db,
		resultRepo: resultRepo,
		awardRepo:  awardRepo,
		prefRepo:   prefRepo,
		playerRepo: playerRepo,
		hub:        hub,
		logger:     logger,
	}
}

func (s *allocationService) Recompute(ctx context.Context, resultID int) ([]allocation.Outcome, error) {
	var outcomes []allocation.Outcome
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.lockResult(ctx, tx, resultID)
		if err != nil {
			return err
		}
		if err := guardRecompute(res); err != nil {
			return err
		}
		outcomes, err = computeAndApply(ctx, tx, s.awardRepo, s.prefRepo, res.EventID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(resultID, realtime.EventAllocationUpdated)
	return outcomes, nil
}

func (s *allocationService) Override(ctx context.Context, actorID, resultID, awardID int, playerID *int) error {
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.lockResult(ctx, tx, resultID)
		if err != nil {
			return err
		}
		if err := guardOverride(res); err != nil {
			return err
		}

		award, err := s.awardRepo.GetByID(ctx, tx, awardID)
		if err != nil {
			return mapAwardRepoError(err)
		}
		if award.EventID != res.EventID {
			return ErrAwardNotFound
		}

		if playerID == nil {
			// Снятие назначения: владелец и метод очищаются вместе.
			return mapAwardRepoError(s.awardRepo.SetOwner(ctx, tx, awardID, nil, nil))
		}

		if _, err := s.playerRepo.GetByID(ctx, tx, *playerID); err != nil {
			return mapPlayerRepoError(err)
		}
		override := allocation.ByOverride()
		return mapAwardRepoError(s.awardRepo.SetOwner(ctx, tx, awardID, playerID, &override))
	})
	if err != nil {
		return err
	}

	s.logger.Info("award override applied",
		slog.Int("actor_id", actorID),
		slog.Int("result_id", resultID),
		slog.Int("award_id", awardID),
	)
	s.broadcast(resultID, realtime.EventAllocationUpdated)
	return nil
}

func (s *allocationService) Lock(ctx context.Context, actorID, resultID int, confirmEmpty bool) (*models.Result, error) {
	var locked *models.Result
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.lockResult(ctx, tx, resultID)
		if err != nil {
			return err
		}
		if err := checkTransition(res, allocation.StateLocked); err != nil {
			return err
		}

		// Блокировка требует хотя бы одной вычисленной награды либо явного
		// подтверждения пустой аллокации.
		awards, err := s.awardRepo.ListByEvent(ctx, tx, res.EventID)
		if err != nil {
			return err
		}
		computed := false
		for _, a := range awards {
			if a.Assignment != nil {
				computed = true
				break
			}
		}
		if !computed && !confirmEmpty {
			return ErrAllocationEmpty
		}

		now := time.Now().UTC()
		if err := s.resultRepo.SetLockedAt(ctx, tx, resultID, &now); err != nil {
			return err
		}
		res.AllocationLockedAt = &now
		locked = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("result allocation locked",
		slog.Int("actor_id", actorID),
		slog.Int("result_id", resultID),
	)
	s.broadcast(resultID, realtime.EventResultLocked)
	return locked, nil
}

func (s *allocationService) Unlock(ctx context.Context, actorID, resultID int) (*models.Result, error) {
	var unlocked *models.Result
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.lockResult(ctx, tx, resultID)
		if err != nil {
			return err
		}
		if err := checkTransition(res, allocation.StateOpen); err != nil {
			return err
		}
		if err := s.resultRepo.SetLockedAt(ctx, tx, resultID, nil); err != nil {
			return err
		}
		res.AllocationLockedAt = nil
		unlocked = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Откат блокировки — административное действие, журналируется всегда.
	s.logger.Warn("result allocation unlocked",
		slog.Int("actor_id", actorID),
		slog.Int("result_id", resultID),
	)
	s.broadcast(resultID, realtime.EventResultUnlocked)
	return unlocked, nil
}

func (s *allocationService) Finalize(ctx context.Context, actorID, resultID int) (*models.Result, error) {
	var finalized *models.Result
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		res, err := s.lockResult(ctx, tx, resultID)
		if err != nil {
			return err
		}
		if err := checkTransition(res, allocation.StateFinalized); err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := s.resultRepo.SetFinalizedAt(ctx, tx, resultID, now); err != nil {
			return err
		}
		res.AllocationFinalizedAt = &now
		finalized = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("result allocation finalized",
		slog.Int("actor_id", actorID),
		slog.Int("result_id", resultID),
	)
	s.broadcast(resultID, realtime.EventResultFinalized)
	return finalized, nil
}

func (s *allocationService) lockResult(ctx context.Context, tx *sql.Tx, resultID int) (*models.Result, error) {
	res, err := s.resultRepo.GetByIDForUpdate(ctx, tx, resultID)
	if err != nil {
		if err == repositories.ErrResultNotFound {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return res, nil
}

func (s *allocationService) broadcast(resultID int, eventType string) {
	s.hub.BroadcastToRoom(strconv.Itoa(resultID), realtime.Message{
		Type:    eventType,
		Payload: map[string]int{"result_id": resultID},
	})
}

// checkTransition переводит недопустимый переход в именованную ошибку
// состояния, чтобы презентационный слой мог объясниться точно.
func checkTransition(res *models.Result, next allocation.State) error {
	current := res.AllocationState()
	if current.CanTransition(next) {
		return nil
	}
	switch {
	case current == allocation.StateFinalized:
		return ErrResultFinalized
	case next == allocation.StateFinalized && current == allocation.StateOpen:
		return ErrResultNotLocked
	case current == allocation.StateLocked && next == allocation.StateLocked:
		return ErrResultLocked
	default:
		return ErrInvalidTransition
	}
}
