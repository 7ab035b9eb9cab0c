package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SeatConfig is an explicit left/right column split declared by a vehicle.
// Aisle is a pointer so "not declared" can be told apart from "explicitly off".
type SeatConfig struct {
	Left  int   `json:"left"`
	Right int   `json:"right"`
	Aisle *bool `json:"aisle,omitempty"`
}

// Vehicle is the canonical descriptor every server payload is normalized into.
// SeatLabels holds the known seat labels ("1A", "12C"); BookedSeats the subset
// already sold. SeaterType is the free-text "L*R" column encoding.
type Vehicle struct {
	bun.BaseModel `bun:"table:vehicles"`

	VehicleID    string      `bun:"vehicle_id,pk" json:"vehicle_id"`
	Name         string      `bun:"name,notnull" json:"name"`
	VehicleType  string      `bun:"vehicle_type" json:"vehicle_type"`
	SeaterType   string      `bun:"seater_type" json:"seater_type,omitempty"`
	SeatConfig   *SeatConfig `bun:"seat_config,type:jsonb" json:"seat_config,omitempty"`
	SeatLabels   []string    `bun:"seat_labels,array" json:"seat_labels,omitempty"`
	BookedSeats  []string    `bun:"booked_seats,array" json:"booked_seats,omitempty"`
	TotalSeats   int         `bun:"total_seats" json:"total_seats"`
	PricePerSeat float64     `bun:"price_per_seat" json:"price_per_seat"`
	RouteFrom    string      `bun:"route_from" json:"route_from"`
	RouteTo      string      `bun:"route_to" json:"route_to"`
	DepartsAt    time.Time   `bun:"departs_at" json:"departs_at"`
	CreatedAt    time.Time   `bun:"created_at,notnull" json:"created_at"`
}
