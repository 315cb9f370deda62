package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocongress/prizes-sub001/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerAgaIDConflict = errors.New("player aga_id conflict")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	GetByAgaID(ctx context.Context, exec SQLExecutor, agaID string) (*models.Player, error)
	GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Player, error)
	List(ctx context.Context, exec SQLExecutor) ([]*models.Player, error)
	UpdateRank(ctx context.Context, exec SQLExecutor, id int, rank int) error
	LinkUser(ctx context.Context, exec SQLExecutor, id int, userID int) error
	// UpsertByAgaID создаёт игрока или обновляет имя и ранг существующего.
	// Используется вебхуком провайдера регистраций.
	UpsertByAgaID(ctx context.Context, exec SQLExecutor, player *models.Player) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const playerColumns = `id, aga_id, name, rank, user_id, created_at`

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (aga_id, name, rank, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		player.AgaID, player.Name, player.Rank, player.UserID,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "players_aga_id_key") {
			return ErrPlayerAgaIDConflict
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) GetByAgaID(ctx context.Context, exec SQLExecutor, agaID string) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE aga_id = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, agaID))
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, exec SQLExecutor, userID int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players WHERE user_id = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, userID))
}

func (r *postgresPlayerRepository) List(ctx context.Context, exec SQLExecutor) ([]*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + playerColumns + ` FROM players ORDER BY rank ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		player, errScan := r.scanPlayer(rows)
		if errScan != nil {
			return nil, errScan
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) UpdateRank(ctx context.Context, exec SQLExecutor, id int, rank int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE players SET rank = $1 WHERE id = $2`, rank, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) LinkUser(ctx context.Context, exec SQLExecutor, id int, userID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE players SET user_id = $1 WHERE id = $2 AND user_id IS NULL`, userID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}

func (r *postgresPlayerRepository) UpsertByAgaID(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (aga_id, name, rank)
		VALUES ($1, $2, $3)
		ON CONFLICT (aga_id) DO UPDATE SET name = EXCLUDED.name, rank = EXCLUDED.rank
		RETURNING id, user_id, created_at`

	return executor.QueryRowContext(ctx, query,
		player.AgaID, player.Name, player.Rank,
	).Scan(&player.ID, &player.UserID, &player.CreatedAt)
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(&p.ID, &p.AgaID, &p.Name, &p.Rank, &p.UserID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}
