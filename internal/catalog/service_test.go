package catalog_test

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ms-booking/internal/catalog"
	"ms-booking/internal/models"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetHotelByID(id string) (*models.Hotel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Hotel), args.Error(1)
}

func (m *MockDBLayer) ListHotels(city string) ([]models.Hotel, error) {
	args := m.Called(city)
	return args.Get(0).([]models.Hotel), args.Error(1)
}

func (m *MockDBLayer) GetRoomByID(id string) (*models.Room, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *MockDBLayer) GetRoomsByHotel(hotelID string) ([]models.Room, error) {
	args := m.Called(hotelID)
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockDBLayer) GetOverridesForRoom(roomID string) ([]models.PriceOverride, error) {
	args := m.Called(roomID)
	return args.Get(0).([]models.PriceOverride), args.Error(1)
}

func (m *MockDBLayer) GetVehicleByID(id string) (*models.Vehicle, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vehicle), args.Error(1)
}

func (m *MockDBLayer) ListVehicles(routeFrom, routeTo string) ([]models.Vehicle, error) {
	args := m.Called(routeFrom, routeTo)
	return args.Get(0).([]models.Vehicle), args.Error(1)
}

func (m *MockDBLayer) UpsertVehicle(vehicle models.Vehicle) error {
	args := m.Called(vehicle)
	return args.Error(0)
}

func (m *MockDBLayer) GetTourByID(id string) (*models.Tour, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tour), args.Error(1)
}

func (m *MockDBLayer) ListTours() ([]models.Tour, error) {
	args := m.Called()
	return args.Get(0).([]models.Tour), args.Error(1)
}

func (m *MockDBLayer) GetCouponByCode(code string) (*models.Coupon, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coupon), args.Error(1)
}

func (m *MockDBLayer) GetSetting(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func TestGetCouponByCode_UnknownCodeIsNotAnError(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := catalog.NewCatalogService(mockDB)

	mockDB.On("GetCouponByCode", "NOPE").Return(nil, sql.ErrNoRows)

	coupon, err := service.GetCouponByCode("NOPE")
	assert.NoError(t, err)
	assert.Nil(t, coupon)
}

func TestGetServerGSTRate(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := catalog.NewCatalogService(mockDB)

	mockDB.On("GetSetting", models.SettingGSTRate).Return("18", nil).Once()
	rate, err := service.GetServerGSTRate()
	assert.NoError(t, err)
	assert.NotNil(t, rate)
	assert.Equal(t, 18.0, *rate)

	// Missing setting means "not configured", not an error.
	mockDB.On("GetSetting", models.SettingGSTRate).Return("", sql.ErrNoRows).Once()
	rate, err = service.GetServerGSTRate()
	assert.NoError(t, err)
	assert.Nil(t, rate)

	// Zero rate is treated the same as unset.
	mockDB.On("GetSetting", models.SettingGSTRate).Return("0", nil).Once()
	rate, err = service.GetServerGSTRate()
	assert.NoError(t, err)
	assert.Nil(t, rate)
}

func TestApplyBookingEvent_MarksSeatsBooked(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := catalog.NewCatalogService(mockDB)

	vehicle := &models.Vehicle{
		VehicleID:   "veh001",
		SeatLabels:  []string{"1A", "1B", "2C", "2D"},
		BookedSeats: []string{"1A"},
	}
	mockDB.On("GetVehicleByID", "veh001").Return(vehicle, nil)
	mockDB.On("UpsertVehicle", mock.MatchedBy(func(v models.Vehicle) bool {
		return assert.ObjectsAreEqual([]string{"1A", "1B", "2C"}, v.BookedSeats)
	})).Return(nil)

	err := service.ApplyBookingEvent(models.BookingStatusChangeEventDto{
		BookingID:  uuid.New(),
		Kind:       models.BookingKindVehicle,
		Status:     models.BookingStatusConfirmed,
		VehicleID:  "veh001",
		SeatLabels: []string{"1B", "2C", "1A"}, // 1A already booked, not doubled
	})
	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestApplyBookingEvent_ReleasesSeats(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := catalog.NewCatalogService(mockDB)

	vehicle := &models.Vehicle{
		VehicleID:   "veh001",
		SeatLabels:  []string{"1A", "1B", "2C", "2D"},
		BookedSeats: []string{"1A", "1B", "2C"},
	}
	mockDB.On("GetVehicleByID", "veh001").Return(vehicle, nil)
	mockDB.On("UpsertVehicle", mock.MatchedBy(func(v models.Vehicle) bool {
		return assert.ObjectsAreEqual([]string{"2C"}, v.BookedSeats)
	})).Return(nil)

	err := service.ApplyBookingEvent(models.BookingStatusChangeEventDto{
		BookingID:  uuid.New(),
		Kind:       models.BookingKindVehicle,
		Status:     models.BookingStatusCancelled,
		VehicleID:  "veh001",
		SeatLabels: []string{"1a", "1B"}, // labels compare case-insensitively
	})
	assert.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestApplyBookingEvent_IgnoresNonVehicleEvents(t *testing.T) {
	mockDB := new(MockDBLayer)
	service := catalog.NewCatalogService(mockDB)

	err := service.ApplyBookingEvent(models.BookingStatusChangeEventDto{
		BookingID: uuid.New(),
		Kind:      models.BookingKindHotel,
		Status:    models.BookingStatusConfirmed,
	})
	assert.NoError(t, err)
	mockDB.AssertNotCalled(t, "GetVehicleByID", mock.Anything)
}
