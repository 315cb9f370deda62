package models

import "time"

// Prize представляет определение приза. Единицы призового фонда — Award.
type Prize struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Value       int       `json:"value" db:"value"` // в центах
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
