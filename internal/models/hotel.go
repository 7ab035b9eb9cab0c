package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GSTConfig is the per-property tax configuration. When Enabled is false the
// configured rate is ignored by the fare resolver.
type GSTConfig struct {
	Enabled bool    `bun:"enabled" json:"enabled"`
	Rate    float64 `bun:"rate" json:"rate"`
}

type Hotel struct {
	bun.BaseModel `bun:"table:hotels"`

	HotelID     string    `bun:"hotel_id,pk" json:"hotel_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	City        string    `bun:"city" json:"city"`
	Address     string    `bun:"address" json:"address"`
	Rating      float64   `bun:"rating" json:"rating"`
	GST         GSTConfig `bun:"embed:gst_" json:"gst_config"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
}

// RoomPricing carries every price/tax field a room can declare. TaxAmount is a
// flat per-night amount; TaxPercent is a rate. Either (or both) can be zero.
type RoomPricing struct {
	BasePrice  float64 `bun:"base" json:"base_price"`
	FinalPrice float64 `bun:"final" json:"final_price"`
	TaxAmount  float64 `bun:"tax_amount" json:"tax_amount"`
	TaxPercent float64 `bun:"tax_percent" json:"tax_percent"`
}

type Room struct {
	bun.BaseModel `bun:"table:rooms"`

	RoomID    string      `bun:"room_id,pk" json:"room_id"`
	HotelID   string      `bun:"hotel_id,notnull" json:"hotel_id"`
	Name      string      `bun:"name,notnull" json:"name"`
	RoomType  string      `bun:"room_type" json:"room_type"`
	Capacity  int         `bun:"capacity" json:"capacity"`
	Pricing   RoomPricing `bun:"embed:price_" json:"pricing"`
	CreatedAt time.Time   `bun:"created_at,notnull" json:"created_at"`
}

// PriceOverride is a date-windowed flat nightly price for a room. A nil window
// boundary means the override is open on that side; an override with no window
// at all always applies for its room.
type PriceOverride struct {
	bun.BaseModel `bun:"table:price_overrides"`

	OverrideID string     `bun:"override_id,pk" json:"override_id"`
	RoomID     string     `bun:"room_id,notnull" json:"room_id"`
	StartDate  *time.Time `bun:"start_date" json:"start_date,omitempty"`
	EndDate    *time.Time `bun:"end_date" json:"end_date,omitempty"`
	MonthPrice float64    `bun:"month_price,notnull" json:"month_price"`
}
