package db

import (
	"context"

	"github.com/uptrace/bun"

	"ms-booking/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- HOTELS ----------------

// GetHotelByID → fetch one hotel
func (d *DB) GetHotelByID(id string) (*models.Hotel, error) {
	var hotel models.Hotel
	err := d.Bun.NewSelect().
		Model(&hotel).
		Where("hotel_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// ListHotels → all hotels, optionally filtered by city
func (d *DB) ListHotels(city string) ([]models.Hotel, error) {
	var hotels []models.Hotel
	q := d.Bun.NewSelect().Model(&hotels).Order("name ASC")
	if city != "" {
		q = q.Where("lower(city) = lower(?)", city)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	return hotels, nil
}

// GetRoomByID → fetch one room
func (d *DB) GetRoomByID(id string) (*models.Room, error) {
	var room models.Room
	err := d.Bun.NewSelect().
		Model(&room).
		Where("room_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomsByHotel → all rooms of one hotel
func (d *DB) GetRoomsByHotel(hotelID string) ([]models.Room, error) {
	var rooms []models.Room
	err := d.Bun.NewSelect().
		Model(&rooms).
		Where("hotel_id = ?", hotelID).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetOverridesForRoom → every price override declared for a room
func (d *DB) GetOverridesForRoom(roomID string) ([]models.PriceOverride, error) {
	var overrides []models.PriceOverride
	err := d.Bun.NewSelect().
		Model(&overrides).
		Where("room_id = ?", roomID).
		Order("override_id ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

// ---------------- VEHICLES ----------------

// GetVehicleByID → fetch one vehicle
func (d *DB) GetVehicleByID(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := d.Bun.NewSelect().
		Model(&vehicle).
		Where("vehicle_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// ListVehicles → vehicles filtered by route endpoints when given
func (d *DB) ListVehicles(routeFrom, routeTo string) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	q := d.Bun.NewSelect().Model(&vehicles).Order("departs_at ASC")
	if routeFrom != "" {
		q = q.Where("lower(route_from) = lower(?)", routeFrom)
	}
	if routeTo != "" {
		q = q.Where("lower(route_to) = lower(?)", routeTo)
	}
	if err := q.Scan(context.Background()); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// UpsertVehicle → insert or replace a normalized vehicle record
func (d *DB) UpsertVehicle(vehicle models.Vehicle) error {
	_, err := d.Bun.NewInsert().
		Model(&vehicle).
		On("CONFLICT (vehicle_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("vehicle_type = EXCLUDED.vehicle_type").
		Set("seater_type = EXCLUDED.seater_type").
		Set("seat_config = EXCLUDED.seat_config").
		Set("seat_labels = EXCLUDED.seat_labels").
		Set("booked_seats = EXCLUDED.booked_seats").
		Set("total_seats = EXCLUDED.total_seats").
		Set("price_per_seat = EXCLUDED.price_per_seat").
		Exec(context.Background())
	return err
}

// ---------------- TOURS ----------------

// GetTourByID → fetch one tour
func (d *DB) GetTourByID(id string) (*models.Tour, error) {
	var tour models.Tour
	err := d.Bun.NewSelect().
		Model(&tour).
		Where("tour_id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// ListTours → all tours
func (d *DB) ListTours() ([]models.Tour, error) {
	var tours []models.Tour
	err := d.Bun.NewSelect().
		Model(&tours).
		Order("name ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return tours, nil
}

// ---------------- COUPONS / SETTINGS ----------------

// GetCouponByCode → fetch one coupon
func (d *DB) GetCouponByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := d.Bun.NewSelect().
		Model(&coupon).
		Where("code = ?", code).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetSetting → fetch one app setting value by key
func (d *DB) GetSetting(key string) (string, error) {
	var setting models.AppSetting
	err := d.Bun.NewSelect().
		Model(&setting).
		Where("key = ?", key).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}
