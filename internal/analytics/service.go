package analytics

import (
	"context"

	"github.com/uptrace/bun"
)

// Service aggregates booking metrics for reporting endpoints.
type Service struct {
	db *DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: NewDB(db)}
}

// RevenueSummary is the aggregated revenue view across booking kinds.
type RevenueSummary struct {
	TotalRevenue  float64           `json:"total_revenue"`
	TotalTax      float64           `json:"total_tax"`
	TotalBookings int               `json:"total_bookings"`
	ByKind        []KindRevenueData `json:"by_kind"`
}

// DailySalesMetrics contains metrics for a single day
type DailySalesMetrics struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	Bookings int     `json:"bookings"`
}

// VehicleOccupancy reports how full a vehicle currently is.
type VehicleOccupancy struct {
	VehicleID        string  `json:"vehicle_id"`
	TotalSeats       int     `json:"total_seats"`
	BookedSeats      int     `json:"booked_seats"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}

// CouponUsage tracks coupon code usage by day
type CouponUsage struct {
	Date        string  `json:"date"`
	Code        string  `json:"code"`
	UsageCount  int     `json:"usage_count"`
	DiscountSum float64 `json:"discount_sum"`
}

func (s *Service) GetRevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	byKind, err := s.db.GetRevenueByKind(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{ByKind: byKind}
	for _, k := range byKind {
		summary.TotalRevenue += k.TotalRevenue
		summary.TotalTax += k.TotalTax
		summary.TotalBookings += k.BookingCount
	}
	return summary, nil
}

func (s *Service) GetDailySales(ctx context.Context) ([]DailySalesMetrics, error) {
	raw, err := s.db.GetDailySales(ctx)
	if err != nil {
		return nil, err
	}

	metrics := make([]DailySalesMetrics, 0, len(raw))
	for _, d := range raw {
		metrics = append(metrics, DailySalesMetrics{
			Date:     d.SalesDate.Format("2006-01-02"),
			Revenue:  d.DailyRevenue,
			Bookings: d.DailyBookings,
		})
	}
	return metrics, nil
}

func (s *Service) GetVehicleOccupancy(ctx context.Context, vehicleID string) (*VehicleOccupancy, error) {
	total, err := s.db.GetVehicleTotalSeats(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	booked, err := s.db.GetBookedSeatCount(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	occupancy := &VehicleOccupancy{
		VehicleID:   vehicleID,
		TotalSeats:  total,
		BookedSeats: booked,
	}
	if total > 0 {
		occupancy.OccupancyPercent = float64(booked) / float64(total) * 100
	}
	return occupancy, nil
}

func (s *Service) GetCouponUsage(ctx context.Context) ([]CouponUsage, error) {
	raw, err := s.db.GetCouponUsage(ctx)
	if err != nil {
		return nil, err
	}

	usage := make([]CouponUsage, 0, len(raw))
	for _, u := range raw {
		usage = append(usage, CouponUsage{
			Date:        u.UsageDate.Format("2006-01-02"),
			Code:        u.CouponCode,
			UsageCount:  u.CodeUsageCount,
			DiscountSum: u.DiscountSum,
		})
	}
	return usage, nil
}
