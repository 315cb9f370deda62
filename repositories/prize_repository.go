package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocongress/prizes-sub001/models"
)

var (
	ErrPrizeNotFound     = errors.New("prize not found")
	ErrPrizeNameConflict = errors.New("prize name conflict")
	ErrPrizeInUse        = errors.New("prize has awards and cannot be deleted")
)

type PrizeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, prize *models.Prize) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Prize, error)
	Update(ctx context.Context, exec SQLExecutor, prize *models.Prize) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresPrizeRepository struct {
	db *sql.DB
}

func NewPostgresPrizeRepository(db *sql.DB) PrizeRepository {
	return &postgresPrizeRepository{db: db}
}

func (r *postgresPrizeRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPrizeRepository) Create(ctx context.Context, exec SQLExecutor, prize *models.Prize) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO prizes (name, description, quantity, value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		prize.Name, prize.Description, prize.Quantity, prize.Value,
	).Scan(&prize.ID, &prize.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "prizes_name_key") {
			return ErrPrizeNameConflict
		}
		return err
	}
	return nil
}

func (r *postgresPrizeRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Prize, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, description, quantity, value, created_at FROM prizes WHERE id = $1`
	return r.scanPrize(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPrizeRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Prize, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, description, quantity, value, created_at FROM prizes ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prizes := make([]*models.Prize, 0)
	for rows.Next() {
		prize, errScan := r.scanPrize(rows)
		if errScan != nil {
			return nil, errScan
		}
		prizes = append(prizes, prize)
	}
	return prizes, rows.Err()
}

func (r *postgresPrizeRepository) Update(ctx context.Context, exec SQLExecutor, prize *models.Prize) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE prizes SET name = $1, description = $2, quantity = $3, value = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query,
		prize.Name, prize.Description, prize.Quantity, prize.Value, prize.ID)
	if err != nil {
		if isUniqueViolation(err, "prizes_name_key") {
			return ErrPrizeNameConflict
		}
		return err
	}
	return checkAffectedRows(result, ErrPrizeNotFound)
}

func (r *postgresPrizeRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM prizes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err, "awards_prize_id_fkey") {
			return ErrPrizeInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrPrizeNotFound)
}

func (r *postgresPrizeRepository) scanPrize(rowScanner interface{ Scan(...interface{}) error }) (*models.Prize, error) {
	var p models.Prize
	err := rowScanner.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.Value, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPrizeNotFound
		}
		return nil, err
	}
	return &p, nil
}
