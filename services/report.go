package services

import "github.com/shopspring/decimal"

// LineResult is the priced outcome of one line item.
type LineResult struct {
	Key             CatalogKey      `json:"key"`
	Name            string          `json:"name"`
	DerivedQuantity decimal.Decimal `json:"quantity"`
	UnitLabel       string          `json:"unit"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	BaseCost        decimal.Decimal `json:"base_cost"`
	FinalCost       decimal.Decimal `json:"final_cost"`
}

// FormattedQuantity renders the quantity with two decimals followed by the
// unit label, e.g. "3.00 pcs".
func (r LineResult) FormattedQuantity() string {
	return r.DerivedQuantity.StringFixed(2) + " " + r.UnitLabel
}

// EstimateReport holds the successful lines of one computation and its totals.
// TotalFinalCost is always TotalBaseCost * (1 + MarkupRate).
type EstimateReport struct {
	Items          []LineResult    `json:"items"`
	MarkupRate     decimal.Decimal `json:"markup_rate"`
	TotalBaseCost  decimal.Decimal `json:"total_base_cost"`
	TotalFinalCost decimal.Decimal `json:"total_final_cost"`
}

// FromResults sums base costs and applies the markup once to the total.
// An empty result set gives zero totals.
func FromResults(results []LineResult, markupRate decimal.Decimal) EstimateReport {
	items := make([]LineResult, len(results))
	copy(items, results)

	total := decimal.Zero
	for _, r := range items {
		total = total.Add(r.BaseCost)
	}

	return EstimateReport{
		Items:          items,
		MarkupRate:     markupRate,
		TotalBaseCost:  total,
		TotalFinalCost: applyMarkup(total, markupRate),
	}
}

// MarkupPercent returns the markup rate as a percentage (0.11 -> 11).
func (r EstimateReport) MarkupPercent() decimal.Decimal {
	return r.MarkupRate.Shift(2)
}

// IsEmpty reports whether no line was priced.
func (r EstimateReport) IsEmpty() bool {
	return len(r.Items) == 0
}
