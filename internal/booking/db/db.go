package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- BOOKINGS ----------------

// CreateBooking → insert new booking
func (d *DB) CreateBooking(booking models.Booking) error {
	_, err := d.Bun.NewInsert().Model(&booking).Exec(context.Background())
	return err
}

// GetBookingByID → fetch one booking by its ID
func (d *DB) GetBookingByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("booking_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking → update the mutable fields of a booking
func (d *DB) UpdateBooking(booking models.Booking) error {
	_, err := d.Bun.NewUpdate().
		Model(&booking).
		Column("status", "voucher_qr", "base", "tax", "discount", "final_total", "tax_percent", "tax_label").
		Where("booking_id = ?", booking.BookingID).
		Exec(context.Background())
	return err
}

// GetBookingsByUser → all bookings for a user, newest first
func (d *DB) GetBookingsByUser(userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ---------------- USERS ----------------

// EnsureUser → record the user on first contact; an existing row is left alone
func (d *DB) EnsureUser(user models.User) error {
	_, err := d.Bun.NewInsert().
		Model(&user).
		On("CONFLICT (id) DO NOTHING").
		Exec(context.Background())
	return err
}

// SaveUserProfile → insert or overwrite the editable profile fields
func (d *DB) SaveUserProfile(user models.User) error {
	_, err := d.Bun.NewInsert().
		Model(&user).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("full_name = EXCLUDED.full_name").
		Set("phone = EXCLUDED.phone").
		Exec(context.Background())
	return err
}

// GetUserByID → fetch one user profile
func (d *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := d.Bun.NewSelect().
		Model(&user).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ---------------- AVAILABILITY QUERIES ----------------

// GetActiveVehicleBookings → pending/confirmed bookings holding seats on a vehicle
func (d *DB) GetActiveVehicleBookings(vehicleID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("vehicle_id = ?", vehicleID).
		Where("status IN (?)", bun.In([]string{models.BookingStatusPending, models.BookingStatusConfirmed})).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetRoomBookingsInRange → active bookings for a room whose stay overlaps
// [checkIn, checkOut) — checkout day itself does not block a new check-in.
func (d *DB) GetRoomBookingsInRange(roomID string, checkIn, checkOut time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("room_id = ?", roomID).
		Where("status IN (?)", bun.In([]string{models.BookingStatusPending, models.BookingStatusConfirmed})).
		Where("check_in < ?", checkOut).
		Where("check_out > ?", checkIn).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
