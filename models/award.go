package models

import (
	"time"

	"github.com/gocongress/prizes-sub001/allocation"
)

// Award — одна единица призовой ценности, привязанная к призу и событию.
// Инвариант: не более одного игрока-владельца; переназначение выполняется
// одним атомарным UPDATE.
type Award struct {
	ID         int     `json:"id" db:"id"`
	PrizeID    int     `json:"prize_id" db:"prize_id"`
	EventID    int     `json:"event_id" db:"event_id"`
	PlayerID   *int    `json:"player_id,omitempty" db:"player_id"`
	Value      int     `json:"value" db:"value"`
	RedeemCode *string `json:"redeem_code,omitempty" db:"redeem_code"`

	// Assignment равен nil, пока аллокация награду не затронула.
	Assignment *allocation.Assignment `json:"assignment,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Опциональные связанные сущности (не мапятся напрямую)
	Prize  *Prize  `json:"prize,omitempty" db:"-"`
	Player *Player `json:"player,omitempty" db:"-"`
}
