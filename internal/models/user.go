package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the traveller profile behind a booking. A row is created from the
// JWT subject the first time someone books; the contact fields stay empty
// until the profile endpoint fills them in.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID        string    `bun:"id,pk" json:"id"`
	Email     string    `bun:"email,nullzero" json:"email,omitempty"`
	FullName  string    `bun:"full_name,nullzero" json:"full_name,omitempty"`
	Phone     string    `bun:"phone,nullzero" json:"phone,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}
