package models

import (
	"github.com/google/uuid"
)

// BookingStatusChangeEventDto is the payload published to Kafka when a booking
// changes status. Seat labels are carried so downstream consumers can release
// or re-list inventory without a read back into our DB.
type BookingStatusChangeEventDto struct {
	BookingID  uuid.UUID `json:"booking_id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	VehicleID  string    `json:"vehicle_id,omitempty"`
	SeatLabels []string  `json:"seat_labels,omitempty"`
	FinalTotal float64   `json:"final_total"`
}

// NewBookingStatusChangeEventDto builds the DTO, validating that the booking
// ID is a proper UUID so every consumer sees the same canonical form.
func NewBookingStatusChangeEventDto(b Booking) (BookingStatusChangeEventDto, error) {
	id, err := uuid.Parse(b.BookingID)
	if err != nil {
		return BookingStatusChangeEventDto{}, err
	}
	return BookingStatusChangeEventDto{
		BookingID:  id,
		UserID:     b.UserID,
		Kind:       b.Kind,
		Status:     b.Status,
		VehicleID:  b.VehicleID,
		SeatLabels: b.SeatLabels,
		FinalTotal: b.FinalTotal,
	}, nil
}
