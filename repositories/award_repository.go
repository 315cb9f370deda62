package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gocongress/prizes-sub001/allocation"
	"github.com/gocongress/prizes-sub001/models"
)

var (
	ErrAwardNotFound      = errors.New("award not found")
	ErrAwardPrizeInvalid  = errors.New("award prize conflict or invalid")
	ErrAwardPlayerInvalid = errors.New("award player conflict or invalid")
)

type AwardRepository interface {
	Create(ctx context.Context, exec SQLExecutor, award *models.Award) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Award, error)
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Award, error)
	ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Award, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	// SetOwner переназначает владельца и метод одним атомарным UPDATE.
	SetOwner(ctx context.Context, exec SQLExecutor, awardID int, playerID *int, assignment *allocation.Assignment) error
	// ApplyOutcomes записывает вычисленные исходы аллокации. Вызывается
	// только внутри транзакции пересчёта.
	ApplyOutcomes(ctx context.Context, exec SQLExecutor, outcomes []allocation.Outcome) error
}

type postgresAwardRepository struct {
	db *sql.DB
}

func NewPostgresAwardRepository(db *sql.DB) AwardRepository {
	return &postgresAwardRepository{db: db}
}

func (r *postgresAwardRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const awardColumns = `
	a.id, a.prize_id, a.event_id, a.player_id, a.value, a.redeem_code,
	a.allocation_method, a.preference_rank, a.created_at,
	p.id, p.name, p.description, p.quantity, p.value, p.created_at`

const awardFromClause = ` FROM awards a JOIN prizes p ON a.prize_id = p.id `

func (r *postgresAwardRepository) Create(ctx context.Context, exec SQLExecutor, award *models.Award) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO awards (prize_id, event_id, player_id, value, redeem_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		award.PrizeID, award.EventID, award.PlayerID, award.Value, award.RedeemCode,
	).Scan(&award.ID, &award.CreatedAt)
	if err != nil {
		switch {
		case isForeignKeyViolation(err, "awards_prize_id_fkey"):
			return ErrAwardPrizeInvalid
		case isForeignKeyViolation(err, "awards_player_id_fkey"):
			return ErrAwardPlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresAwardRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Award, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + awardColumns + awardFromClause + ` WHERE a.id = $1`
	return r.scanAward(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresAwardRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.Award, error) {
	executor := r.getExecutor(exec)
	// Порядок по a.id — порядок создания, на нём держится детерминизм движка.
	query := `SELECT ` + awardColumns + awardFromClause + ` WHERE a.event_id = $1 ORDER BY a.id ASC`
	return r.queryAwards(ctx, executor, query, eventID)
}

func (r *postgresAwardRepository) ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.Award, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + awardColumns + awardFromClause + ` WHERE a.player_id = $1 ORDER BY a.id ASC`
	return r.queryAwards(ctx, executor, query, playerID)
}

func (r *postgresAwardRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM awards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAwardNotFound)
}

func (r *postgresAwardRepository) SetOwner(ctx context.Context, exec SQLExecutor, awardID int, playerID *int, assignment *allocation.Assignment) error {
	executor := r.getExecutor(exec)

	var method *string
	var rank *int
	if assignment != nil {
		m, pr := assignment.Columns()
		method = &m
		rank = pr
	}

	result, err := executor.ExecContext(ctx, `
		UPDATE awards
		SET player_id = $1, allocation_method = $2, preference_rank = $3
		WHERE id = $4`,
		playerID, method, rank, awardID)
	if err != nil {
		if isForeignKeyViolation(err, "awards_player_id_fkey") {
			return ErrAwardPlayerInvalid
		}
		return err
	}
	return checkAffectedRows(result, ErrAwardNotFound)
}

func (r *postgresAwardRepository) ApplyOutcomes(ctx context.Context, exec SQLExecutor, outcomes []allocation.Outcome) error {
	executor := r.getExecutor(exec)
	if len(outcomes) == 0 {
		return nil
	}

	for _, outcome := range outcomes {
		method, rank := outcome.Assignment.Columns()
		result, err := executor.ExecContext(ctx, `
			UPDATE awards
			SET player_id = $1, allocation_method = $2, preference_rank = $3
			WHERE id = $4`,
			outcome.PlayerID, method, rank, outcome.AwardID)
		if err != nil {
			return fmt.Errorf("apply outcome for award %d: %w", outcome.AwardID, err)
		}
		if err := checkAffectedRows(result, ErrAwardNotFound); err != nil {
			return fmt.Errorf("apply outcome for award %d: %w", outcome.AwardID, err)
		}
	}
	return nil
}

func (r *postgresAwardRepository) queryAwards(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.Award, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	awards := make([]*models.Award, 0)
	for rows.Next() {
		award, errScan := r.scanAward(rows)
		if errScan != nil {
			return nil, errScan
		}
		awards = append(awards, award)
	}
	return awards, rows.Err()
}

func (r *postgresAwardRepository) scanAward(rowScanner interface{ Scan(...interface{}) error }) (*models.Award, error) {
	var a models.Award
	var prize models.Prize
	var method *string
	var rank *int

	err := rowScanner.Scan(
		&a.ID, &a.PrizeID, &a.EventID, &a.PlayerID, &a.Value, &a.RedeemCode,
		&method, &rank, &a.CreatedAt,
		&prize.ID, &prize.Name, &prize.Description, &prize.Quantity, &prize.Value, &prize.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAwardNotFound
		}
		return nil, err
	}

	assignment, err := allocation.FromColumns(method, rank)
	if err != nil {
		return nil, fmt.Errorf("award %d: %w", a.ID, err)
	}
	a.Assignment = assignment
	a.Prize = &prize
	return &a, nil
}
