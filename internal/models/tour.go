package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Tour struct {
	bun.BaseModel `bun:"table:tours"`

	TourID         string    `bun:"tour_id,pk" json:"tour_id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Description    string    `bun:"description" json:"description"`
	DurationDays   int       `bun:"duration_days" json:"duration_days"`
	PricePerPerson float64   `bun:"price_per_person" json:"price_per_person"`
	MaxGroupSize   int       `bun:"max_group_size" json:"max_group_size"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
}
