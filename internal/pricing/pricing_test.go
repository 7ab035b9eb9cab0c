package pricing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-booking/internal/models"
	"ms-booking/internal/pricing"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func floatPtr(f float64) *float64 { return &f }

// ---------------- NUMERIC COERCION ----------------

func TestAmount_TolerantParsing(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{1200.5, 1200.5},
		{42, 42},
		{"1500", 1500},
		{"Rs. 2,000", 2000},
		{"₹1,200.50", 1200.5},
		{"-350", -350},
		{"", 0},
		{"n/a", 0},
		{nil, 0},
		{[]string{"x"}, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, pricing.Amount(c.in), "input %#v", c.in)
	}
}

// ---------------- OVERRIDE MATCHING ----------------

func TestMatchOverride_WindowlessAlwaysApplies(t *testing.T) {
	entries := []models.PriceOverride{
		{OverrideID: "o1", RoomID: "R1", MonthPrice: 2000},
	}

	got := pricing.MatchOverride(entries, "R1", day("1999-01-01"), day("1999-01-02"))
	require.NotNil(t, got)
	assert.Equal(t, "o1", got.OverrideID)

	assert.Nil(t, pricing.MatchOverride(entries, "R2", day("1999-01-01"), day("1999-01-02")))
}

func TestMatchOverride_InclusiveOverlap(t *testing.T) {
	entries := []models.PriceOverride{
		{
			OverrideID: "o1",
			RoomID:     "R1",
			StartDate:  dayPtr("2024-01-10"),
			EndDate:    dayPtr("2024-01-20"),
			MonthPrice: 2000,
		},
	}

	// Partial overlap: 15..25 vs 10..20.
	got := pricing.MatchOverride(entries, "R1", day("2024-01-15"), day("2024-01-25"))
	require.NotNil(t, got)
	assert.Equal(t, 2000.0, got.MonthPrice)

	// Touching at the boundary still counts (inclusive).
	assert.NotNil(t, pricing.MatchOverride(entries, "R1", day("2024-01-20"), day("2024-01-28")))
	assert.NotNil(t, pricing.MatchOverride(entries, "R1", day("2024-01-01"), day("2024-01-10")))

	// Fully outside.
	assert.Nil(t, pricing.MatchOverride(entries, "R1", day("2024-01-21"), day("2024-01-28")))
	assert.Nil(t, pricing.MatchOverride(entries, "R1", day("2024-01-01"), day("2024-01-09")))
}

func TestMatchOverride_TimesAreTruncatedToDays(t *testing.T) {
	start := day("2024-03-05").Add(23 * time.Hour)
	entries := []models.PriceOverride{
		{OverrideID: "o1", RoomID: "R1", StartDate: &start, EndDate: dayPtr("2024-03-07"), MonthPrice: 900},
	}

	// Query ends 2024-03-05 00:00; the entry starts 2024-03-05 23:00 but
	// comparison happens at day granularity, so it still overlaps.
	got := pricing.MatchOverride(entries, "R1", day("2024-03-01"), day("2024-03-05"))
	assert.NotNil(t, got)
}

func TestMatchOverride_FirstMatchWins(t *testing.T) {
	entries := []models.PriceOverride{
		{OverrideID: "wide", RoomID: "R1", StartDate: dayPtr("2024-01-01"), EndDate: dayPtr("2024-12-31"), MonthPrice: 1800},
		{OverrideID: "narrow", RoomID: "R1", StartDate: dayPtr("2024-06-01"), EndDate: dayPtr("2024-06-10"), MonthPrice: 1500},
	}

	got := pricing.MatchOverride(entries, "R1", day("2024-06-05"), day("2024-06-06"))
	require.NotNil(t, got)
	assert.Equal(t, "wide", got.OverrideID, "input order decides, not specificity")
}

func TestMatchOverride_OpenEndedWindow(t *testing.T) {
	entries := []models.PriceOverride{
		{OverrideID: "from", RoomID: "R1", StartDate: dayPtr("2024-05-01"), MonthPrice: 1200},
	}

	assert.NotNil(t, pricing.MatchOverride(entries, "R1", day("2024-07-01"), day("2024-07-05")))
	assert.Nil(t, pricing.MatchOverride(entries, "R1", day("2024-04-01"), day("2024-04-05")))
}

// ---------------- FARE AGGREGATION ----------------

func TestAggregate_SlabTax(t *testing.T) {
	// Worked example: 8000 x 1, no other tax source -> 18% slab.
	fare := pricing.Aggregate(8000, 1, pricing.TaxContext{}, 0)

	assert.Equal(t, 8000.0, fare.Base)
	assert.Equal(t, 1440.0, fare.Tax)
	assert.Equal(t, 9440.0, fare.Total)
	assert.Equal(t, 9440.0, fare.FinalTotal)
	assert.Equal(t, 18.0, fare.TaxPercent)
	assert.Equal(t, "price slab", fare.TaxLabel)

	mid := pricing.Aggregate(1500, 2, pricing.TaxContext{}, 0)
	assert.Equal(t, 12.0, mid.TaxPercent)
	assert.Equal(t, 360.0, mid.Tax)

	low := pricing.Aggregate(800, 1, pricing.TaxContext{}, 0)
	assert.Equal(t, 0.0, low.TaxPercent)
	assert.Equal(t, 0.0, low.Tax)
}

func TestAggregate_OverrideForcesFlatRate(t *testing.T) {
	ctx := pricing.TaxContext{
		OverrideApplied: true,
		ServerTaxRate:   floatPtr(5),
		HotelGST:        &models.GSTConfig{Enabled: true, Rate: 10},
	}
	fare := pricing.Aggregate(2000, 3, ctx, 0)

	assert.Equal(t, 12.0, fare.TaxPercent, "override beats every other source")
	assert.Equal(t, 720.0, fare.Tax)
	assert.Equal(t, "override flat rate", fare.TaxLabel)
}

func TestAggregate_TaxPriorityChain(t *testing.T) {
	// Server rate beats hotel config and room fields.
	fare := pricing.Aggregate(1000, 1, pricing.TaxContext{
		ServerTaxRate:  floatPtr(7),
		HotelGST:       &models.GSTConfig{Enabled: true, Rate: 10},
		RoomTaxPercent: 5,
	}, 0)
	assert.Equal(t, 7.0, fare.TaxPercent)
	assert.Equal(t, "server rate", fare.TaxLabel)

	// Hotel config beats room fields, but only when enabled.
	fare = pricing.Aggregate(1000, 1, pricing.TaxContext{
		HotelGST:       &models.GSTConfig{Enabled: true, Rate: 10},
		RoomTaxPercent: 5,
	}, 0)
	assert.Equal(t, 10.0, fare.TaxPercent)

	fare = pricing.Aggregate(2000, 1, pricing.TaxContext{
		HotelGST:       &models.GSTConfig{Enabled: false, Rate: 10},
		RoomTaxPercent: 5,
	}, 0)
	assert.Equal(t, 5.0, fare.TaxPercent)
	assert.Equal(t, "room percent", fare.TaxLabel)
}

func TestAggregate_RoomFlatAmountScalesWithQuantity(t *testing.T) {
	fare := pricing.Aggregate(2000, 4, pricing.TaxContext{RoomTaxAmount: 150}, 0)

	assert.Equal(t, 600.0, fare.Tax, "flat amount x quantity, no percent")
	assert.Equal(t, 0.0, fare.TaxPercent)
	assert.Equal(t, "room flat amount", fare.TaxLabel)
}

func TestAggregate_DiscountClamp(t *testing.T) {
	// Discount larger than base+tax clamps to base+tax, final hits zero.
	fare := pricing.Aggregate(800, 1, pricing.TaxContext{}, 5000)
	assert.Equal(t, 800.0, fare.Discount)
	assert.Equal(t, 0.0, fare.FinalTotal)

	// Negative discount clamps to zero.
	fare = pricing.Aggregate(800, 1, pricing.TaxContext{}, -50)
	assert.Equal(t, 0.0, fare.Discount)
	assert.Equal(t, 800.0, fare.FinalTotal)
}

func TestAggregate_InvariantsHold(t *testing.T) {
	contexts := []pricing.TaxContext{
		{},
		{OverrideApplied: true},
		{ServerTaxRate: floatPtr(9)},
		{HotelGST: &models.GSTConfig{Enabled: true, Rate: 12}},
		{RoomTaxAmount: 99},
		{RoomTaxPercent: 3},
	}
	discounts := []float64{-100, 0, 50, 100000}

	for _, ctx := range contexts {
		for _, d := range discounts {
			fare := pricing.Aggregate(2350, 3, ctx, d)
			assert.LessOrEqual(t, fare.Discount, fare.Base+fare.Tax)
			assert.GreaterOrEqual(t, fare.Discount, 0.0)
			assert.Equal(t, fare.FinalTotal, fare.Base+fare.Tax-fare.Discount)
			assert.GreaterOrEqual(t, fare.FinalTotal, 0.0)
		}
	}
}

func TestAggregate_NegativeInputsCoerceToZero(t *testing.T) {
	fare := pricing.Aggregate(-500, 2, pricing.TaxContext{}, 0)
	assert.Equal(t, 0.0, fare.Base)
	assert.Equal(t, 0.0, fare.FinalTotal)

	fare = pricing.Aggregate(500, -2, pricing.TaxContext{}, 0)
	assert.Equal(t, 0.0, fare.Base)
}
