package pricing

import (
	"ms-booking/internal/models"
)

// Tax percent applied whenever a date-windowed override price was used.
const overrideTaxPercent = 12.0

// Slab thresholds used when no other tax source applies.
const (
	slabHighThreshold = 7500.0
	slabHighPercent   = 18.0
	slabMidThreshold  = 1000.0
	slabMidPercent    = 12.0
)

// TaxContext carries every tax source a unit can have. The resolver walks
// them in priority order; fields left at their zero value simply never match.
type TaxContext struct {
	// OverrideApplied is set when a date-windowed override price was used
	// for this unit.
	OverrideApplied bool
	// ServerTaxRate is the rate the pricing backend sent down (gst_price),
	// nil when the response had none.
	ServerTaxRate *float64
	// HotelGST is the per-property tax config, nil when unknown.
	HotelGST *models.GSTConfig
	// RoomTaxAmount is an explicit flat tax amount per unit.
	RoomTaxAmount float64
	// RoomTaxPercent is an explicit tax rate on the room itself.
	RoomTaxPercent float64
}

// taxResult is what one resolver produces: either a percent of the base or a
// flat amount already multiplied out.
type taxResult struct {
	amount  float64
	percent float64
	label   string
}

// taxResolver tries one tax source. It reports ok=false to pass resolution to
// the next entry in the chain.
type taxResolver struct {
	label   string
	resolve func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool)
}

// taxChain is the full priority order. Keeping it as data makes the
// precedence auditable and lets tests exercise each rung in isolation.
var taxChain = []taxResolver{
	{
		label: "override flat rate",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			if !ctx.OverrideApplied {
				return taxResult{}, false
			}
			return percentOf(unitPrice*quantity, overrideTaxPercent, "override flat rate"), true
		},
	},
	{
		label: "server rate",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			if ctx.ServerTaxRate == nil {
				return taxResult{}, false
			}
			return percentOf(unitPrice*quantity, *ctx.ServerTaxRate, "server rate"), true
		},
	},
	{
		label: "hotel gst config",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			if ctx.HotelGST == nil || !ctx.HotelGST.Enabled {
				return taxResult{}, false
			}
			return percentOf(unitPrice*quantity, ctx.HotelGST.Rate, "hotel gst config"), true
		},
	},
	{
		label: "room flat amount",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			if ctx.RoomTaxAmount <= 0 {
				return taxResult{}, false
			}
			// Flat amount scales with quantity directly, no percent involved.
			return taxResult{amount: ctx.RoomTaxAmount * quantity, label: "room flat amount"}, true
		},
	},
	{
		label: "room percent",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			if ctx.RoomTaxPercent <= 0 {
				return taxResult{}, false
			}
			return percentOf(unitPrice*quantity, ctx.RoomTaxPercent, "room percent"), true
		},
	},
	{
		label: "price slab",
		resolve: func(ctx TaxContext, unitPrice, quantity float64) (taxResult, bool) {
			pct := 0.0
			switch {
			case unitPrice > slabHighThreshold:
				pct = slabHighPercent
			case unitPrice > slabMidThreshold:
				pct = slabMidPercent
			}
			return percentOf(unitPrice*quantity, pct, "price slab"), true
		},
	},
}

func percentOf(base, pct float64, label string) taxResult {
	if pct < 0 {
		pct = 0
	}
	return taxResult{amount: base * pct / 100, percent: pct, label: label}
}

// resolveTax walks the chain and returns the first applicable result. The
// slab rung always matches, so resolution never fails.
func resolveTax(ctx TaxContext, unitPrice, quantity float64) taxResult {
	for _, r := range taxChain {
		if res, ok := r.resolve(ctx, unitPrice, quantity); ok {
			return res
		}
	}
	return taxResult{label: "none"}
}
