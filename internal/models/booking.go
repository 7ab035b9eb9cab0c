package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking kinds. A booking row references exactly one of room, vehicle or tour.
const (
	BookingKindHotel   = "hotel"
	BookingKindVehicle = "vehicle"
	BookingKindTour    = "tour"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	BookingID  string    `bun:"booking_id,pk" json:"booking_id"`
	UserID     string    `bun:"user_id,notnull" json:"user_id"`
	Kind       string    `bun:"kind,notnull" json:"kind"`
	HotelID    string    `bun:"hotel_id" json:"hotel_id,omitempty"`
	RoomID     string    `bun:"room_id" json:"room_id,omitempty"`
	VehicleID  string    `bun:"vehicle_id" json:"vehicle_id,omitempty"`
	TourID     string    `bun:"tour_id" json:"tour_id,omitempty"`
	SeatLabels []string  `bun:"seat_labels,array" json:"seat_labels,omitempty"`
	CheckIn    time.Time `bun:"check_in" json:"check_in"`
	CheckOut   time.Time `bun:"check_out" json:"check_out"`
	Guests     int       `bun:"guests" json:"guests"`
	CouponCode string    `bun:"coupon_code" json:"coupon_code,omitempty"`

	// Fare snapshot at booking time. The fare itself is always recomputed by
	// the quote path; these columns only record what the user agreed to pay.
	Base       float64 `bun:"base" json:"base"`
	Tax        float64 `bun:"tax" json:"tax"`
	Discount   float64 `bun:"discount" json:"discount"`
	FinalTotal float64 `bun:"final_total" json:"final_total"`
	TaxPercent float64 `bun:"tax_percent" json:"tax_percent"`
	TaxLabel   string  `bun:"tax_label" json:"tax_label"`

	Status    string    `bun:"status,notnull" json:"status"`
	VoucherQR []byte    `bun:"voucher_qr" json:"voucher_qr,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// BookingRequest is the JSON body accepted by the create-booking endpoint.
type BookingRequest struct {
	Kind       string   `json:"kind"`
	HotelID    string   `json:"hotel_id,omitempty"`
	RoomID     string   `json:"room_id,omitempty"`
	VehicleID  string   `json:"vehicle_id,omitempty"`
	TourID     string   `json:"tour_id,omitempty"`
	SeatLabels []string `json:"seat_labels,omitempty"`
	CheckIn    string   `json:"check_in,omitempty"`
	CheckOut   string   `json:"check_out,omitempty"`
	Guests     int      `json:"guests,omitempty"`
	CouponCode string   `json:"coupon_code,omitempty"`
}

type BookingResponse struct {
	BookingID string        `json:"booking_id"`
	Status    string        `json:"status"`
	Fare      FareBreakdown `json:"fare"`
}
