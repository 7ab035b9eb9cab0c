package db_test

import (
	"context"
	"database/sql"
	"ms-booking/internal/booking/db"
	"ms-booking/internal/models"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"
)

func setupTestDB(t *testing.T) (*db.DB, *bun.DB) {
	// Connect to an in-memory SQLite DB for testing
	sqldb, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to connect to in-memory database: %v", err)
	}

	// Create a Bun DB instance
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	// Create required tables
	_, err = bunDB.NewCreateTable().Model((*models.Booking)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create bookings table: %v", err)
	}

	_, err = bunDB.NewCreateTable().Model((*models.User)(nil)).Exec(context.Background())
	if err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}

	return &db.DB{Bun: bunDB}, bunDB
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateAndGetBooking(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	bookingID := uuid.New().String()
	booking := models.Booking{
		BookingID:  bookingID,
		UserID:     "user123",
		Kind:       models.BookingKindHotel,
		HotelID:    "hotel001",
		RoomID:     "room001",
		CheckIn:    day(2026, 1, 10),
		CheckOut:   day(2026, 1, 12),
		Base:       4000,
		Tax:        480,
		FinalTotal: 4480,
		TaxLabel:   "price slab",
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}

	err := bookingDB.CreateBooking(booking)
	assert.NoError(t, err)

	got, err := bookingDB.GetBookingByID(bookingID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "user123", got.UserID)
	assert.Equal(t, models.BookingKindHotel, got.Kind)
	assert.Equal(t, 4480.0, got.FinalTotal)
	assert.Equal(t, models.BookingStatusPending, got.Status)

	// Test case: Get non-existent booking
	got, err = bookingDB.GetBookingByID("non-existent")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestUpdateBooking(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	bookingID := uuid.New().String()
	booking := models.Booking{
		BookingID:  bookingID,
		UserID:     "user123",
		Kind:       models.BookingKindVehicle,
		VehicleID:  "veh001",
		SeatLabels: []string{"1A", "1B"},
		Base:       1700,
		FinalTotal: 1700,
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}
	assert.NoError(t, bookingDB.CreateBooking(booking))

	booking.Status = models.BookingStatusConfirmed
	booking.VoucherQR = []byte{0x89, 0x50, 0x4E, 0x47}
	err := bookingDB.UpdateBooking(booking)
	assert.NoError(t, err)

	got, err := bookingDB.GetBookingByID(bookingID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, got.VoucherQR)
	// Identity fields stay untouched by updates.
	assert.Equal(t, "veh001", got.VehicleID)
	assert.Equal(t, "user123", got.UserID)
}

func TestGetBookingsByUser(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	older := models.Booking{
		BookingID: uuid.New().String(),
		UserID:    "user123",
		Kind:      models.BookingKindTour,
		TourID:    "tour001",
		Status:    models.BookingStatusConfirmed,
		CreatedAt: time.Now().Add(-2 * time.Hour),
	}
	newer := models.Booking{
		BookingID: uuid.New().String(),
		UserID:    "user123",
		Kind:      models.BookingKindHotel,
		RoomID:    "room001",
		Status:    models.BookingStatusPending,
		CreatedAt: time.Now(),
	}
	other := models.Booking{
		BookingID: uuid.New().String(),
		UserID:    "someone-else",
		Kind:      models.BookingKindHotel,
		RoomID:    "room001",
		Status:    models.BookingStatusPending,
		CreatedAt: time.Now(),
	}
	for _, b := range []models.Booking{older, newer, other} {
		assert.NoError(t, bookingDB.CreateBooking(b))
	}

	bookings, err := bookingDB.GetBookingsByUser("user123")
	assert.NoError(t, err)
	assert.Len(t, bookings, 2)
	// Newest first
	assert.Equal(t, newer.BookingID, bookings[0].BookingID)
	assert.Equal(t, older.BookingID, bookings[1].BookingID)
}

func TestGetActiveVehicleBookings(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	pending := models.Booking{
		BookingID:  uuid.New().String(),
		UserID:     "user1",
		Kind:       models.BookingKindVehicle,
		VehicleID:  "veh001",
		SeatLabels: []string{"1A"},
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}
	confirmed := models.Booking{
		BookingID:  uuid.New().String(),
		UserID:     "user2",
		Kind:       models.BookingKindVehicle,
		VehicleID:  "veh001",
		SeatLabels: []string{"2C"},
		Status:     models.BookingStatusConfirmed,
		CreatedAt:  time.Now(),
	}
	cancelled := models.Booking{
		BookingID:  uuid.New().String(),
		UserID:     "user3",
		Kind:       models.BookingKindVehicle,
		VehicleID:  "veh001",
		SeatLabels: []string{"2D"},
		Status:     models.BookingStatusCancelled,
		CreatedAt:  time.Now(),
	}
	otherVehicle := models.Booking{
		BookingID:  uuid.New().String(),
		UserID:     "user4",
		Kind:       models.BookingKindVehicle,
		VehicleID:  "veh002",
		SeatLabels: []string{"1A"},
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}
	for _, b := range []models.Booking{pending, confirmed, cancelled, otherVehicle} {
		assert.NoError(t, bookingDB.CreateBooking(b))
	}

	active, err := bookingDB.GetActiveVehicleBookings("veh001")
	assert.NoError(t, err)
	assert.Len(t, active, 2)
	for _, b := range active {
		assert.NotEqual(t, models.BookingStatusCancelled, b.Status)
		assert.Equal(t, "veh001", b.VehicleID)
	}
}

func TestUserProfileLifecycle(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	// First contact creates the row.
	assert.NoError(t, bookingDB.EnsureUser(models.User{ID: "user123", CreatedAt: time.Now()}))

	// A later EnsureUser must not disturb an existing profile.
	assert.NoError(t, bookingDB.SaveUserProfile(models.User{
		ID:       "user123",
		Email:    "traveller@example.com",
		FullName: "Test Traveller",
		Phone:    "9999999999",
	}))
	assert.NoError(t, bookingDB.EnsureUser(models.User{ID: "user123", CreatedAt: time.Now()}))

	got, err := bookingDB.GetUserByID("user123")
	assert.NoError(t, err)
	assert.Equal(t, "traveller@example.com", got.Email)
	assert.Equal(t, "Test Traveller", got.FullName)

	// Profile saves overwrite the editable fields.
	assert.NoError(t, bookingDB.SaveUserProfile(models.User{
		ID:       "user123",
		Email:    "traveller@example.com",
		FullName: "Renamed Traveller",
	}))
	got, err = bookingDB.GetUserByID("user123")
	assert.NoError(t, err)
	assert.Equal(t, "Renamed Traveller", got.FullName)
	assert.Equal(t, "", got.Phone)

	// Unknown users are an error.
	_, err = bookingDB.GetUserByID("ghost")
	assert.Error(t, err)
}

func TestGetRoomBookingsInRange(t *testing.T) {
	bookingDB, bunDB := setupTestDB(t)
	defer bunDB.Close()

	// Existing stay: Jan 10 → Jan 14
	existing := models.Booking{
		BookingID: uuid.New().String(),
		UserID:    "user1",
		Kind:      models.BookingKindHotel,
		RoomID:    "room001",
		CheckIn:   day(2026, 1, 10),
		CheckOut:  day(2026, 1, 14),
		Status:    models.BookingStatusConfirmed,
		CreatedAt: time.Now(),
	}
	cancelled := models.Booking{
		BookingID: uuid.New().String(),
		UserID:    "user2",
		Kind:      models.BookingKindHotel,
		RoomID:    "room001",
		CheckIn:   day(2026, 1, 10),
		CheckOut:  day(2026, 1, 14),
		Status:    models.BookingStatusCancelled,
		CreatedAt: time.Now(),
	}
	for _, b := range []models.Booking{existing, cancelled} {
		assert.NoError(t, bookingDB.CreateBooking(b))
	}

	// Overlapping range picks up only the active booking.
	overlapping, err := bookingDB.GetRoomBookingsInRange("room001", day(2026, 1, 12), day(2026, 1, 16))
	assert.NoError(t, err)
	assert.Len(t, overlapping, 1)
	assert.Equal(t, existing.BookingID, overlapping[0].BookingID)

	// New stay starting on the checkout day does not collide.
	backToBack, err := bookingDB.GetRoomBookingsInRange("room001", day(2026, 1, 14), day(2026, 1, 16))
	assert.NoError(t, err)
	assert.Len(t, backToBack, 0)

	// Neither does a stay ending on the existing check-in day.
	before, err := bookingDB.GetRoomBookingsInRange("room001", day(2026, 1, 8), day(2026, 1, 10))
	assert.NoError(t, err)
	assert.Len(t, before, 0)

	// Fully contained range still collides.
	inside, err := bookingDB.GetRoomBookingsInRange("room001", day(2026, 1, 11), day(2026, 1, 12))
	assert.NoError(t, err)
	assert.Len(t, inside, 1)
}
