package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gocongress/prizes-sub001/models"
)

var (
	ErrPreferenceNotFound     = errors.New("award preference not found")
	ErrPreferenceAwardInvalid = errors.New("preference award conflict or invalid")
)

type PreferenceRepository interface {
	// Upsert вставляет предпочтение или обновляет порядок существующей пары
	// (player_id, award_id).
	Upsert(ctx context.Context, exec SQLExecutor, pref *models.AwardPreference) error
	Delete(ctx context.Context, exec SQLExecutor, playerID, awardID int) error
	// ListByPlayer возвращает список игрока по возрастанию preference_order;
	// равные порядки стабильно упорядочены по времени создания (id).
	ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.AwardPreference, error)
	// ListByEvent отдаёт все предпочтения, указывающие на награды события, —
	// вход движка аллокации.
	ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.AwardPreference, error)
}

type postgresPreferenceRepository struct {
	db *sql.DB
}

func NewPostgresPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

func (r *postgresPreferenceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPreferenceRepository) Upsert(ctx context.Context, exec SQLExecutor, pref *models.AwardPreference) error {
	executor := r.getExecutor(exec)
	// prize_id денормализуется из награды на стороне БД, чтобы запись
	// не могла разойтись с award.prize_id.
	query := `
		INSERT INTO award_preferences (player_id, award_id, prize_id, preference_order)
		SELECT $1, a.id, a.prize_id, $3 FROM awards a WHERE a.id = $2
		ON CONFLICT (player_id, award_id)
		DO UPDATE SET preference_order = EXCLUDED.preference_order
		RETURNING id, prize_id, created_at`

	err := executor.QueryRowContext(ctx, query,
		pref.PlayerID, pref.AwardID, pref.PreferenceOrder,
	).Scan(&pref.ID, &pref.PrizeID, &pref.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// INSERT ... SELECT не нашёл награду
			return ErrAwardNotFound
		}
		if isForeignKeyViolation(err, "award_preferences_player_id_fkey") {
			return ErrPlayerNotFound
		}
		if isForeignKeyViolation(err, "award_preferences_award_id_fkey") {
			return ErrPreferenceAwardInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPreferenceRepository) Delete(ctx context.Context, exec SQLExecutor, playerID, awardID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`DELETE FROM award_preferences WHERE player_id = $1 AND award_id = $2`, playerID, awardID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPreferenceNotFound)
}

const preferenceColumns = `
	ap.id, ap.player_id, ap.award_id, ap.prize_id, ap.preference_order, ap.created_at,
	p.id, p.name, p.description, p.quantity, p.value, p.created_at`

func (r *postgresPreferenceRepository) ListByPlayer(ctx context.Context, exec SQLExecutor, playerID int) ([]*models.AwardPreference, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + preferenceColumns + `
		FROM award_preferences ap
		JOIN prizes p ON ap.prize_id = p.id
		WHERE ap.player_id = $1
		ORDER BY ap.preference_order ASC, ap.id ASC`
	return r.queryPreferences(ctx, executor, query, playerID)
}

func (r *postgresPreferenceRepository) ListByEvent(ctx context.Context, exec SQLExecutor, eventID int) ([]*models.AwardPreference, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT ` + preferenceColumns + `
		FROM award_preferences ap
		JOIN awards a ON ap.award_id = a.id
		JOIN prizes p ON ap.prize_id = p.id
		WHERE a.event_id = $1
		ORDER BY ap.preference_order ASC, ap.id ASC`
	return r.queryPreferences(ctx, executor, query, eventID)
}

func (r *postgresPreferenceRepository) queryPreferences(ctx context.Context, executor SQLExecutor, query string, args ...interface{}) ([]*models.AwardPreference, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make([]*models.AwardPreference, 0)
	for rows.Next() {
		var pref models.AwardPreference
		var prize models.Prize
		errScan := rows.Scan(
			&pref.ID, &pref.PlayerID, &pref.AwardID, &pref.PrizeID, &pref.PreferenceOrder, &pref.CreatedAt,
			&prize.ID, &prize.Name, &prize.Description, &prize.Quantity, &prize.Value, &prize.CreatedAt,
		)
		if errScan != nil {
			return nil, errScan
		}
		pref.Prize = &prize
		prefs = append(prefs, &pref)
	}
	return prefs, rows.Err()
}
