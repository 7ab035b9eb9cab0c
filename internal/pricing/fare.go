package pricing

import (
	"ms-booking/internal/models"
)

// Aggregate combines the per-unit price, quantity multiplier (rooms × nights,
// or seat count) and tax context into the final payable breakdown. The
// discount is clamped so it never exceeds base+tax and never goes negative,
// which keeps FinalTotal = max(base+tax-discount, 0) by construction.
func Aggregate(unitPrice, quantity float64, ctx TaxContext, couponDiscount float64) models.FareBreakdown {
	if unitPrice < 0 {
		unitPrice = 0
	}
	if quantity < 0 {
		quantity = 0
	}

	base := unitPrice * quantity
	tax := resolveTax(ctx, unitPrice, quantity)
	total := base + tax.amount

	discount := couponDiscount
	if discount < 0 {
		discount = 0
	}
	if discount > total {
		discount = total
	}

	final := total - discount
	if final < 0 {
		final = 0
	}

	return models.FareBreakdown{
		Base:       base,
		Tax:        tax.amount,
		Total:      total,
		Discount:   discount,
		FinalTotal: final,
		TaxPercent: tax.percent,
		TaxLabel:   tax.label,
	}
}
