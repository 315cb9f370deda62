package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gocongress/prizes-sub001/models"
)

var (
	ErrResultNotFound      = errors.New("result not found")
	ErrResultEventConflict = errors.New("result already exists for this event")
)

type ResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.Result) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error)
	GetByEventID(ctx context.Context, exec SQLExecutor, eventID int) (*models.Result, error)
	// GetByIDForUpdate читает результат под row-level блокировкой (FOR UPDATE).
	// Любая транзакция, меняющая предпочтения, аллокации или состояние
	// результата, обязана начинать с этого чтения: так запись предпочтения,
	// начатая в open, не применится молча, если параллельная транзакция
	// успела перевести результат в locked.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error)
	UpdateWinners(ctx context.Context, exec SQLExecutor, id int, winners []models.Winner) error
	SetLockedAt(ctx context.Context, exec SQLExecutor, id int, lockedAt *time.Time) error
	SetFinalizedAt(ctx context.Context, exec SQLExecutor, id int, finalizedAt time.Time) error
}

type postgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const resultColumns = `id, event_id, winners, allocation_locked_at, allocation_finalized_at, created_at`

func (r *postgresResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.Result) error {
	executor := r.getExecutor(exec)

	winners, err := marshalWinners(result.Winners)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO results (event_id, winners)
		VALUES ($1, $2)
		RETURNING id, created_at`
	err = executor.QueryRowContext(ctx, query, result.EventID, winners).
		Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "results_event_id_key") {
			return ErrResultEventConflict
		}
		if isForeignKeyViolation(err, "results_event_id_fkey") {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *postgresResultRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + resultColumns + ` FROM results WHERE id = $1`
	return r.scanResult(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresResultRepository) GetByEventID(ctx context.Context, exec SQLExecutor, eventID int) (*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + resultColumns + ` FROM results WHERE event_id = $1`
	return r.scanResult(executor.QueryRowContext(ctx, query, eventID))
}

func (r *postgresResultRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Result, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + resultColumns + ` FROM results WHERE id = $1 FOR UPDATE`
	return r.scanResult(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresResultRepository) UpdateWinners(ctx context.Context, exec SQLExecutor, id int, winners []models.Winner) error {
	executor := r.getExecutor(exec)

	payload, err := marshalWinners(winners)
	if err != nil {
		return err
	}

	result, err := executor.ExecContext(ctx, `UPDATE results SET winners = $1 WHERE id = $2`, payload, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) SetLockedAt(ctx context.Context, exec SQLExecutor, id int, lockedAt *time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE results SET allocation_locked_at = $1 WHERE id = $2`, lockedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) SetFinalizedAt(ctx context.Context, exec SQLExecutor, id int, finalizedAt time.Time) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE results SET allocation_finalized_at = $1 WHERE id = $2`, finalizedAt, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrResultNotFound)
}

func (r *postgresResultRepository) scanResult(rowScanner interface{ Scan(...interface{}) error }) (*models.Result, error) {
	var res models.Result
	var winnersRaw []byte

	err := rowScanner.Scan(
		&res.ID, &res.EventID, &winnersRaw,
		&res.AllocationLockedAt, &res.AllocationFinalizedAt, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	res.Winners = []models.Winner{}
	if len(winnersRaw) > 0 {
		if err := json.Unmarshal(winnersRaw, &res.Winners); err != nil {
			return nil, fmt.Errorf("result %d: failed to decode winners: %w", res.ID, err)
		}
	}
	return &res, nil
}

func marshalWinners(winners []models.Winner) ([]byte, error) {
	if winners == nil {
		winners = []models.Winner{}
	}
	payload, err := json.Marshal(winners)
	if err != nil {
		return nil, fmt.Errorf("failed to encode winners: %w", err)
	}
	return payload, nil
}
