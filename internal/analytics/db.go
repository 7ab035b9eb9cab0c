package analytics

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// DB handles analytics database operations
type DB struct {
	bun *bun.DB
}

func NewDB(db *bun.DB) *DB {
	return &DB{bun: db}
}

// DailySalesData represents raw daily sales metrics from the database
type DailySalesData struct {
	SalesDate     time.Time `bun:"sales_date"`
	DailyRevenue  float64   `bun:"daily_revenue"`
	DailyBookings int       `bun:"daily_bookings"`
}

// GetDailySales retrieves confirmed-booking revenue per day.
func (db *DB) GetDailySales(ctx context.Context) ([]DailySalesData, error) {
	var dailySales []DailySalesData
	err := db.bun.NewRaw(`
		SELECT
			DATE(created_at) AS sales_date,
			SUM(final_total) AS daily_revenue,
			COUNT(*) AS daily_bookings
		FROM bookings
		WHERE status = 'confirmed'
		GROUP BY DATE(created_at)
		ORDER BY DATE(created_at)
	`).Scan(ctx, &dailySales)

	return dailySales, err
}

// KindRevenueData represents revenue aggregated per booking kind
type KindRevenueData struct {
	Kind         string  `bun:"kind"`
	TotalRevenue float64 `bun:"total_revenue"`
	TotalTax     float64 `bun:"total_tax"`
	BookingCount int     `bun:"booking_count"`
}

// GetRevenueByKind retrieves totals per booking kind (hotel / vehicle / tour).
func (db *DB) GetRevenueByKind(ctx context.Context) ([]KindRevenueData, error) {
	var revenue []KindRevenueData
	err := db.bun.NewRaw(`
		SELECT
			kind,
			SUM(final_total) AS total_revenue,
			SUM(tax) AS total_tax,
			COUNT(*) AS booking_count
		FROM bookings
		WHERE status = 'confirmed'
		GROUP BY kind
		ORDER BY kind
	`).Scan(ctx, &revenue)

	return revenue, err
}

// CouponUsageData represents raw coupon usage metrics from the database
type CouponUsageData struct {
	UsageDate      time.Time `bun:"usage_date"`
	CouponCode     string    `bun:"coupon_code"`
	CodeUsageCount int       `bun:"code_usage_count"`
	DiscountSum    float64   `bun:"discount_sum"`
}

// GetCouponUsage retrieves coupon usage per day and code.
func (db *DB) GetCouponUsage(ctx context.Context) ([]CouponUsageData, error) {
	var usage []CouponUsageData
	err := db.bun.NewSelect().
		ColumnExpr("DATE(bookings.created_at) AS usage_date").
		ColumnExpr("bookings.coupon_code").
		ColumnExpr("COUNT(*) AS code_usage_count").
		ColumnExpr("SUM(bookings.discount) AS discount_sum").
		TableExpr("bookings").
		Where("bookings.coupon_code IS NOT NULL AND bookings.coupon_code != ''").
		GroupExpr("DATE(bookings.created_at), bookings.coupon_code").
		OrderExpr("DATE(bookings.created_at), bookings.coupon_code").
		Scan(ctx, &usage)

	return usage, err
}

// GetBookedSeatCount counts seats held by active bookings on a vehicle.
func (db *DB) GetBookedSeatCount(ctx context.Context, vehicleID string) (int, error) {
	var count int
	err := db.bun.NewRaw(`
		SELECT COALESCE(SUM(array_length(seat_labels, 1)), 0)
		FROM bookings
		WHERE vehicle_id = ? AND status IN ('pending', 'confirmed')
	`, vehicleID).Scan(ctx, &count)

	return count, err
}

// GetVehicleTotalSeats returns the declared seat capacity of a vehicle.
func (db *DB) GetVehicleTotalSeats(ctx context.Context, vehicleID string) (int, error) {
	var total int
	err := db.bun.NewRaw(`SELECT total_seats FROM vehicles WHERE vehicle_id = ?`, vehicleID).
		Scan(ctx, &total)

	return total, err
}
