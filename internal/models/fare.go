package models

// FareBreakdown is the result of fare aggregation. Total is base+tax before
// discount; FinalTotal is clamped at zero.
type FareBreakdown struct {
	Base       float64 `json:"base"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
	Discount   float64 `json:"discount"`
	FinalTotal float64 `json:"final_total"`
	TaxPercent float64 `json:"applied_tax_percent"`
	TaxLabel   string  `json:"tax_label"`
}
