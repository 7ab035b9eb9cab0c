package booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
	"ms-booking/internal/pricing"
	"ms-booking/internal/seatmap"
)

var (
	ErrSeatsUnavailable = errors.New("one or more seats are not available")
	ErrSeatsLocked      = errors.New("one or more seats are locked by another booking")
	ErrRoomUnavailable  = errors.New("room is not available for the requested dates")
	ErrInvalidStay      = errors.New("check-out must be after check-in")
	ErrNotPending       = errors.New("booking is not pending")
	ErrNotActive        = errors.New("booking is neither pending nor confirmed")
)

type DBLayer interface {
	CreateBooking(booking models.Booking) error
	GetBookingByID(id string) (*models.Booking, error)
	UpdateBooking(booking models.Booking) error
	GetBookingsByUser(userID string) ([]models.Booking, error)
	GetActiveVehicleBookings(vehicleID string) ([]models.Booking, error)
	GetRoomBookingsInRange(roomID string, checkIn, checkOut time.Time) ([]models.Booking, error)
	EnsureUser(user models.User) error
	SaveUserProfile(user models.User) error
	GetUserByID(id string) (*models.User, error)
}

type RedisLock interface {
	LockSeats(vehicleID string, seatLabels []string, bookingID string) (bool, error)
	UnlockSeats(vehicleID string, seatLabels []string, bookingID string) error
}

type KafkaPublisher interface {
	PublishBookingCreated(booking models.Booking) error
	PublishBookingConfirmed(booking models.Booking) error
	PublishBookingCancelled(booking models.Booking) error
}

// Catalog is the read side the booking flow needs: canonical inventory and
// pricing inputs, already normalized.
type Catalog interface {
	GetHotel(id string) (*models.Hotel, error)
	GetRoom(id string) (*models.Room, error)
	GetVehicle(id string) (*models.Vehicle, error)
	GetTour(id string) (*models.Tour, error)
	GetOverridesForRoom(roomID string) ([]models.PriceOverride, error)
	GetCouponByCode(code string) (*models.Coupon, error)
	GetServerGSTRate() (*float64, error)
}

// VoucherIssuer renders the encrypted QR voucher for a confirmed booking.
type VoucherIssuer interface {
	IssueVoucher(booking models.Booking) ([]byte, error)
}

// EventEmitter pushes booking status changes to live subscribers (SSE).
type EventEmitter interface {
	EmitBookingEvent(booking models.Booking)
}

type BookingService struct {
	DB      DBLayer
	Redis   RedisLock
	Kafka   KafkaPublisher
	Catalog Catalog
	Voucher VoucherIssuer
	Emitter EventEmitter
	logger  *logger.Logger
}

func NewBookingService(db DBLayer, redis RedisLock, kafka KafkaPublisher, catalog Catalog, voucher VoucherIssuer, emitter EventEmitter) *BookingService {
	return &BookingService{
		DB:      db,
		Redis:   redis,
		Kafka:   kafka,
		Catalog: catalog,
		Voucher: voucher,
		Emitter: emitter,
		logger:  logger.NewLogger(),
	}
}

// QuoteRequest carries the inputs a fare computation needs. Exactly one of
// the room/vehicle/tour identifiers is set, per Kind.
type QuoteRequest struct {
	Kind       string
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	Rooms      int
	VehicleID  string
	SeatLabels []string
	TourID     string
	Guests     int
	CouponCode string
}

// Quote computes the payable fare for a prospective booking. It is pure with
// respect to booking state: nothing is written, and the same inputs always
// produce the same breakdown.
func (s *BookingService) Quote(req QuoteRequest) (models.FareBreakdown, error) {
	switch req.Kind {
	case models.BookingKindHotel:
		return s.quoteHotel(req)
	case models.BookingKindVehicle:
		return s.quoteVehicle(req)
	case models.BookingKindTour:
		return s.quoteTour(req)
	default:
		return models.FareBreakdown{}, fmt.Errorf("unknown booking kind %q", req.Kind)
	}
}

func (s *BookingService) quoteHotel(req QuoteRequest) (models.FareBreakdown, error) {
	nights := nightsBetween(req.CheckIn, req.CheckOut)
	if nights <= 0 {
		return models.FareBreakdown{}, ErrInvalidStay
	}
	roomCount := req.Rooms
	if roomCount <= 0 {
		roomCount = 1
	}

	room, err := s.Catalog.GetRoom(req.RoomID)
	if err != nil {
		return models.FareBreakdown{}, fmt.Errorf("room %s not found: %w", req.RoomID, err)
	}
	hotel, err := s.Catalog.GetHotel(room.HotelID)
	if err != nil {
		return models.FareBreakdown{}, fmt.Errorf("hotel %s not found: %w", room.HotelID, err)
	}

	overrides, err := s.Catalog.GetOverridesForRoom(req.RoomID)
	if err != nil {
		return models.FareBreakdown{}, fmt.Errorf("failed to load price overrides: %w", err)
	}
	override := pricing.MatchOverride(overrides, req.RoomID, req.CheckIn, req.CheckOut)

	unitPrice := room.Pricing.FinalPrice
	if unitPrice <= 0 {
		unitPrice = room.Pricing.BasePrice
	}
	if override != nil {
		unitPrice = override.MonthPrice
	}

	serverRate, err := s.Catalog.GetServerGSTRate()
	if err != nil {
		// The server rate is one rung of the tax chain, not a hard
		// dependency; resolution continues down the chain without it.
		serverRate = nil
	}

	ctx := pricing.TaxContext{
		OverrideApplied: override != nil,
		ServerTaxRate:   serverRate,
		HotelGST:        &hotel.GST,
		RoomTaxAmount:   room.Pricing.TaxAmount,
		RoomTaxPercent:  room.Pricing.TaxPercent,
	}

	discount := s.couponDiscount(req.CouponCode)
	return pricing.Aggregate(unitPrice, float64(roomCount*nights), ctx, discount), nil
}

func (s *BookingService) quoteVehicle(req QuoteRequest) (models.FareBreakdown, error) {
	if len(req.SeatLabels) == 0 {
		return models.FareBreakdown{}, errors.New("no seats selected")
	}
	vehicle, err := s.Catalog.GetVehicle(req.VehicleID)
	if err != nil {
		return models.FareBreakdown{}, fmt.Errorf("vehicle %s not found: %w", req.VehicleID, err)
	}

	discount := s.couponDiscount(req.CouponCode)
	return pricing.Aggregate(vehicle.PricePerSeat, float64(len(req.SeatLabels)), pricing.TaxContext{}, discount), nil
}

func (s *BookingService) quoteTour(req QuoteRequest) (models.FareBreakdown, error) {
	guests := req.Guests
	if guests <= 0 {
		guests = 1
	}
	tour, err := s.Catalog.GetTour(req.TourID)
	if err != nil {
		return models.FareBreakdown{}, fmt.Errorf("tour %s not found: %w", req.TourID, err)
	}

	discount := s.couponDiscount(req.CouponCode)
	return pricing.Aggregate(tour.PricePerPerson, float64(guests), pricing.TaxContext{}, discount), nil
}

// couponDiscount resolves a coupon code into a discount amount. Invalid or
// expired codes contribute nothing rather than failing the quote.
func (s *BookingService) couponDiscount(code string) float64 {
	if code == "" {
		return 0
	}
	coupon, err := s.Catalog.GetCouponByCode(code)
	if err != nil || coupon == nil {
		s.logger.Warn("COUPON", fmt.Sprintf("Coupon %q not found, ignoring", code))
		return 0
	}
	if !coupon.Usable(time.Now()) {
		s.logger.Warn("COUPON", fmt.Sprintf("Coupon %q not usable, ignoring", code))
		return 0
	}
	return coupon.DiscountAmount
}

// ---------------- BOOKING LIFECYCLE ----------------

// PlaceBooking validates availability, locks vehicle seats, stores a pending
// booking with its fare snapshot and publishes the created event.
func (s *BookingService) PlaceBooking(userID string, req QuoteRequest) (*models.Booking, error) {
	fare, err := s.Quote(req)
	if err != nil {
		return nil, err
	}

	booking := models.Booking{
		BookingID:  uuid.NewString(),
		UserID:     userID,
		Kind:       req.Kind,
		RoomID:     req.RoomID,
		VehicleID:  req.VehicleID,
		TourID:     req.TourID,
		SeatLabels: req.SeatLabels,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Guests:     req.Guests,
		CouponCode: req.CouponCode,
		Base:       fare.Base,
		Tax:        fare.Tax,
		Discount:   fare.Discount,
		FinalTotal: fare.FinalTotal,
		TaxPercent: fare.TaxPercent,
		TaxLabel:   fare.TaxLabel,
		Status:     models.BookingStatusPending,
		CreatedAt:  time.Now(),
	}

	switch req.Kind {
	case models.BookingKindHotel:
		room, err := s.Catalog.GetRoom(req.RoomID)
		if err == nil {
			booking.HotelID = room.HotelID
		}
		if err := s.checkRoomAvailability(req); err != nil {
			return nil, err
		}
	case models.BookingKindVehicle:
		if err := s.checkSeatAvailability(req); err != nil {
			return nil, err
		}
		// Step 2: hold the seats in Redis before writing anything.
		ok, err := s.Redis.LockSeats(req.VehicleID, req.SeatLabels, booking.BookingID)
		if err != nil {
			return nil, fmt.Errorf("redis lock error: %w", err)
		}
		if !ok {
			return nil, ErrSeatsLocked
		}
	}

	// Record the user on their first booking. The profile row is
	// best-effort; a failure here must not lose the booking.
	if err := s.DB.EnsureUser(models.User{ID: userID, CreatedAt: time.Now()}); err != nil {
		s.logger.Warn("DB", fmt.Sprintf("Failed to record user %s: %v", userID, err))
	}

	if err := s.DB.CreateBooking(booking); err != nil {
		if req.Kind == models.BookingKindVehicle {
			_ = s.Redis.UnlockSeats(req.VehicleID, req.SeatLabels, booking.BookingID)
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.LogBooking("create", booking.BookingID, "pending booking stored")
	if err := s.Kafka.PublishBookingCreated(booking); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish error (booking created): %v", err))
	}
	s.emit(booking)

	return &booking, nil
}

// checkSeatAvailability builds the deck from the vehicle's known seats plus
// seats held by active bookings, then verifies every requested label.
func (s *BookingService) checkSeatAvailability(req QuoteRequest) error {
	vehicle, err := s.Catalog.GetVehicle(req.VehicleID)
	if err != nil {
		return fmt.Errorf("vehicle %s not found: %w", req.VehicleID, err)
	}

	active, err := s.DB.GetActiveVehicleBookings(req.VehicleID)
	if err != nil {
		return fmt.Errorf("failed to check active bookings: %w", err)
	}
	merged := *vehicle
	for _, b := range active {
		merged.BookedSeats = append(merged.BookedSeats, b.SeatLabels...)
	}

	deck := seatmap.BuildDeck(merged.SeatLabels, &merged)
	for _, label := range req.SeatLabels {
		if !deck.SeatAvailable(label) {
			return fmt.Errorf("%w: %s", ErrSeatsUnavailable, label)
		}
	}
	return nil
}

func (s *BookingService) checkRoomAvailability(req QuoteRequest) error {
	existing, err := s.DB.GetRoomBookingsInRange(req.RoomID, req.CheckIn, req.CheckOut)
	if err != nil {
		return fmt.Errorf("failed to check room availability: %w", err)
	}
	if len(existing) > 0 {
		return ErrRoomUnavailable
	}
	return nil
}

// ConfirmBooking moves a pending booking to confirmed and attaches its
// voucher QR.
func (s *BookingService) ConfirmBooking(id string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		return nil, fmt.Errorf("booking %s not found: %w", id, err)
	}
	if booking.Status != models.BookingStatusPending {
		return nil, ErrNotPending
	}

	booking.Status = models.BookingStatusConfirmed
	if s.Voucher != nil {
		qr, err := s.Voucher.IssueVoucher(*booking)
		if err != nil {
			s.logger.Error("VOUCHER", fmt.Sprintf("Failed to issue voucher for %s: %v", id, err))
		} else {
			booking.VoucherQR = qr
		}
	}

	if err := s.DB.UpdateBooking(*booking); err != nil {
		return nil, fmt.Errorf("failed to confirm booking %s: %w", id, err)
	}

	s.logger.LogBooking("confirm", booking.BookingID, "booking confirmed")
	if err := s.Kafka.PublishBookingConfirmed(*booking); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish error (booking confirmed): %v", err))
	}
	s.emit(*booking)

	return booking, nil
}

// CancelBooking cancels a pending or confirmed booking and releases any seat
// locks it still holds.
func (s *BookingService) CancelBooking(id string) error {
	booking, err := s.DB.GetBookingByID(id)
	if err != nil {
		return fmt.Errorf("booking %s not found: %w", id, err)
	}
	if booking.Status != models.BookingStatusPending && booking.Status != models.BookingStatusConfirmed {
		return ErrNotActive
	}

	booking.Status = models.BookingStatusCancelled
	if err := s.DB.UpdateBooking(*booking); err != nil {
		return fmt.Errorf("failed to cancel booking %s: %w", id, err)
	}

	if booking.Kind == models.BookingKindVehicle && len(booking.SeatLabels) > 0 {
		if err := s.Redis.UnlockSeats(booking.VehicleID, booking.SeatLabels, booking.BookingID); err != nil {
			s.logger.Error("REDIS", fmt.Sprintf("Failed to unlock seats for %s: %v", id, err))
		}
	}

	s.logger.LogBooking("cancel", booking.BookingID, "booking cancelled")
	if err := s.Kafka.PublishBookingCancelled(*booking); err != nil {
		s.logger.Error("KAFKA", fmt.Sprintf("Publish error (booking cancelled): %v", err))
	}
	s.emit(*booking)

	return nil
}

func (s *BookingService) GetBooking(id string) (*models.Booking, error) {
	return s.DB.GetBookingByID(id)
}

func (s *BookingService) GetBookingsByUser(userID string) ([]models.Booking, error) {
	return s.DB.GetBookingsByUser(userID)
}

func (s *BookingService) GetUserProfile(userID string) (*models.User, error) {
	return s.DB.GetUserByID(userID)
}

// UpdateUserProfile saves the editable contact fields for a user. The ID is
// taken from the authenticated caller, never from the payload.
func (s *BookingService) UpdateUserProfile(userID string, profile models.User) (*models.User, error) {
	profile.ID = userID
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if err := s.DB.SaveUserProfile(profile); err != nil {
		return nil, fmt.Errorf("failed to save profile for %s: %w", userID, err)
	}
	s.logger.Info("DB", fmt.Sprintf("Profile saved for user %s", userID))
	return s.DB.GetUserByID(userID)
}

func (s *BookingService) emit(booking models.Booking) {
	if s.Emitter != nil {
		s.Emitter.EmitBookingEvent(booking)
	}
}

// nightsBetween counts whole nights at day granularity; partial days round
// down to the calendar date.
func nightsBetween(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}
