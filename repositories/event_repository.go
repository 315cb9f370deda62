package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocongress/prizes-sub001/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, exec SQLExecutor, event *models.Event) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Event, error)
	Update(ctx context.Context, exec SQLExecutor, event *models.Event) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func (r *postgresEventRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEventRepository) Create(ctx context.Context, exec SQLExecutor, event *models.Event) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO events (name, location, start_date, end_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		event.Name, event.Location, event.StartDate, event.EndDate,
	).Scan(&event.ID, &event.CreatedAt)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Event, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, location, start_date, end_date, created_at FROM events WHERE id = $1`
	return r.scanEvent(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresEventRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Event, error) {
	executor := r.getExecutor(exec)
	query := `SELECT id, name, location, start_date, end_date, created_at FROM events ORDER BY start_date DESC, id DESC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		event, errScan := r.scanEvent(rows)
		if errScan != nil {
			return nil, errScan
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Update(ctx context.Context, exec SQLExecutor, event *models.Event) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE events SET name = $1, location = $2, start_date = $3, end_date = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query,
		event.Name, event.Location, event.StartDate, event.EndDate, event.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) scanEvent(rowScanner interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var e models.Event
	err := rowScanner.Scan(&e.ID, &e.Name, &e.Location, &e.StartDate, &e.EndDate, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}
