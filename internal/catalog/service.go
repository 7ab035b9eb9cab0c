package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/normalize"
	"ms-booking/internal/pricing"
	"ms-booking/internal/seatmap"
)

type DBLayer interface {
	GetHotelByID(id string) (*models.Hotel, error)
	ListHotels(city string) ([]models.Hotel, error)
	GetRoomByID(id string) (*models.Room, error)
	GetRoomsByHotel(hotelID string) ([]models.Room, error)
	GetOverridesForRoom(roomID string) ([]models.PriceOverride, error)
	GetVehicleByID(id string) (*models.Vehicle, error)
	ListVehicles(routeFrom, routeTo string) ([]models.Vehicle, error)
	UpsertVehicle(vehicle models.Vehicle) error
	GetTourByID(id string) (*models.Tour, error)
	ListTours() ([]models.Tour, error)
	GetCouponByCode(code string) (*models.Coupon, error)
	GetSetting(key string) (string, error)
}

// CatalogService is the read side of the booking flow plus the vehicle
// import path that normalizes raw provider payloads.
type CatalogService struct {
	DB     DBLayer
	logger *logger.Logger
}

func NewCatalogService(db DBLayer) *CatalogService {
	return &CatalogService{DB: db, logger: logger.NewLogger()}
}

// ---------------- LOOKUPS ----------------

func (s *CatalogService) GetHotel(id string) (*models.Hotel, error) {
	return s.DB.GetHotelByID(id)
}

func (s *CatalogService) ListHotels(city string) ([]models.Hotel, error) {
	return s.DB.ListHotels(city)
}

func (s *CatalogService) GetRoom(id string) (*models.Room, error) {
	return s.DB.GetRoomByID(id)
}

func (s *CatalogService) GetRoomsByHotel(hotelID string) ([]models.Room, error) {
	return s.DB.GetRoomsByHotel(hotelID)
}

func (s *CatalogService) GetOverridesForRoom(roomID string) ([]models.PriceOverride, error) {
	return s.DB.GetOverridesForRoom(roomID)
}

func (s *CatalogService) GetVehicle(id string) (*models.Vehicle, error) {
	return s.DB.GetVehicleByID(id)
}

func (s *CatalogService) ListVehicles(routeFrom, routeTo string) ([]models.Vehicle, error) {
	return s.DB.ListVehicles(routeFrom, routeTo)
}

func (s *CatalogService) GetTour(id string) (*models.Tour, error) {
	return s.DB.GetTourByID(id)
}

func (s *CatalogService) ListTours() ([]models.Tour, error) {
	return s.DB.ListTours()
}

func (s *CatalogService) GetCouponByCode(code string) (*models.Coupon, error) {
	coupon, err := s.DB.GetCouponByCode(code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return coupon, err
}

// GetServerGSTRate reads the service-wide tax percentage from settings. A
// missing or zero setting means "not configured" and returns nil.
func (s *CatalogService) GetServerGSTRate() (*float64, error) {
	raw, err := s.DB.GetSetting(models.SettingGSTRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rate := pricing.Amount(raw)
	if rate <= 0 {
		return nil, nil
	}
	return &rate, nil
}

// ---------------- SEAT DECK ----------------

// GetVehicleDeck resolves a vehicle into its renderable deck grid, with
// booked seats already marked.
func (s *CatalogService) GetVehicleDeck(vehicleID string) (seatmap.Deck, error) {
	vehicle, err := s.DB.GetVehicleByID(vehicleID)
	if err != nil {
		return seatmap.Deck{}, fmt.Errorf("vehicle %s not found: %w", vehicleID, err)
	}
	return seatmap.BuildDeck(vehicle.SeatLabels, vehicle), nil
}

// ---------------- SEAT SYNC ----------------

// ApplyBookingEvent keeps a vehicle's booked-seat list in step with booking
// lifecycle events: confirmed seats are recorded on the vehicle row, cancelled
// seats released. Non-vehicle events are ignored.
func (s *CatalogService) ApplyBookingEvent(event models.BookingStatusChangeEventDto) error {
	if event.Kind != models.BookingKindVehicle || event.VehicleID == "" || len(event.SeatLabels) == 0 {
		return nil
	}
	switch event.Status {
	case models.BookingStatusConfirmed:
		return s.MarkSeatsBooked(event.VehicleID, event.SeatLabels)
	case models.BookingStatusCancelled:
		return s.ReleaseSeats(event.VehicleID, event.SeatLabels)
	}
	return nil
}

// MarkSeatsBooked records the given seat labels on the vehicle's booked list.
func (s *CatalogService) MarkSeatsBooked(vehicleID string, seatLabels []string) error {
	vehicle, err := s.DB.GetVehicleByID(vehicleID)
	if err != nil {
		return fmt.Errorf("vehicle %s not found: %w", vehicleID, err)
	}
	for _, label := range seatLabels {
		if !containsSeat(vehicle.BookedSeats, label) {
			vehicle.BookedSeats = append(vehicle.BookedSeats, label)
		}
	}
	if err := s.DB.UpsertVehicle(*vehicle); err != nil {
		return fmt.Errorf("failed to update booked seats for %s: %w", vehicleID, err)
	}
	s.logger.Info("CATALOG", fmt.Sprintf("Marked %d seats booked on vehicle %s", len(seatLabels), vehicleID))
	return nil
}

// ReleaseSeats removes the given seat labels from the vehicle's booked list.
func (s *CatalogService) ReleaseSeats(vehicleID string, seatLabels []string) error {
	vehicle, err := s.DB.GetVehicleByID(vehicleID)
	if err != nil {
		return fmt.Errorf("vehicle %s not found: %w", vehicleID, err)
	}
	kept := vehicle.BookedSeats[:0]
	for _, booked := range vehicle.BookedSeats {
		if !containsSeat(seatLabels, booked) {
			kept = append(kept, booked)
		}
	}
	vehicle.BookedSeats = kept
	if err := s.DB.UpsertVehicle(*vehicle); err != nil {
		return fmt.Errorf("failed to release seats for %s: %w", vehicleID, err)
	}
	s.logger.Info("CATALOG", fmt.Sprintf("Released %d seats on vehicle %s", len(seatLabels), vehicleID))
	return nil
}

func containsSeat(labels []string, label string) bool {
	for _, l := range labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// ---------------- IMPORT ----------------

// ImportVehicle normalizes a raw provider payload and stores the canonical
// vehicle record.
func (s *CatalogService) ImportVehicle(data []byte) (*models.Vehicle, error) {
	vehicle, err := normalize.Vehicle(data)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize vehicle payload: %w", err)
	}
	if err := s.DB.UpsertVehicle(vehicle); err != nil {
		return nil, fmt.Errorf("failed to store vehicle %s: %w", vehicle.VehicleID, err)
	}
	s.logger.Info("CATALOG", fmt.Sprintf("Imported vehicle %s (%d seats)", vehicle.VehicleID, vehicle.TotalSeats))
	return &vehicle, nil
}
