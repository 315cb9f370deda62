package models

import "time"

// Player представляет участника турнира, созданного через внешнюю регистрацию.
// AgaID — стабильный внешний идентификатор; запись неизменяема после создания,
// ранг может быть скорректирован администратором.
type Player struct {
	ID        int       `json:"id" db:"id"`
	AgaID     string    `json:"aga_id" db:"aga_id"`
	Name      string    `json:"name" db:"name"`
	Rank      int       `json:"rank" db:"rank"`
	UserID    *int      `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
