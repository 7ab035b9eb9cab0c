package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Coupon struct {
	bun.BaseModel `bun:"table:coupons"`

	Code           string    `bun:"code,pk" json:"code"`
	Description    string    `bun:"description" json:"description,omitempty"`
	DiscountAmount float64   `bun:"discount_amount,notnull" json:"discount_amount"`
	Active         bool      `bun:"active" json:"active"`
	ValidFrom      time.Time `bun:"valid_from" json:"valid_from"`
	ValidUntil     time.Time `bun:"valid_until" json:"valid_until"`
	MaxUsage       int       `bun:"max_usage" json:"max_usage"`
	CurrentUsage   int       `bun:"current_usage" json:"current_usage"`
}

// Usable reports whether the coupon can be applied at the given time.
func (c *Coupon) Usable(now time.Time) bool {
	if c == nil || !c.Active {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	if c.MaxUsage > 0 && c.CurrentUsage >= c.MaxUsage {
		return false
	}
	return true
}
