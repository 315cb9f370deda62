package models

import "time"

// AwardPreference — позиция награды в ранжированном списке игрока.
// PreferenceOrder — положительное целое; после миграции, убравшей глобальную
// уникальность, дубликаты внутри списка структурно возможны и разрешаются
// движком аллокации, а не схемой. Пропуски в нумерации допустимы.
type AwardPreference struct {
	ID              int       `json:"id" db:"id"`
	PlayerID        int       `json:"player_id" db:"player_id"`
	AwardID         int       `json:"award_id" db:"award_id"`
	PrizeID         int       `json:"prize_id" db:"prize_id"` // денормализовано для отображения
	PreferenceOrder int       `json:"preference_order" db:"preference_order"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	Prize *Prize `json:"prize,omitempty" db:"-"`
	Award *Award `json:"award,omitempty" db:"-"`
}
