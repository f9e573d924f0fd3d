package services

import "github.com/shopspring/decimal"

// ResolveQuantity derives the billable quantity of a line item: width times
// height for area items, the given quantity otherwise.
func ResolveQuantity(spec LineItemSpec) decimal.Decimal {
	if spec.UnitType == UnitAreaMeter {
		return spec.Width.Mul(spec.Height)
	}
	return spec.Quantity
}

// Evaluate prices a single line item against the catalog. The returned error
// is one of *NotFoundError, *ZeroQuantityError or *NegativeInputError.
func Evaluate(catalog *CatalogIndex, spec LineItemSpec, markupRate decimal.Decimal) (LineResult, error) {
	entry, ok := catalog.Lookup(spec.Key)
	if !ok {
		return LineResult{}, &NotFoundError{Key: spec.Key}
	}
	if err := spec.validate(); err != nil {
		return LineResult{}, err
	}

	qty := ResolveQuantity(spec)
	if qty.IsZero() {
		return LineResult{}, &ZeroQuantityError{Key: spec.Key}
	}

	base := entry.Price.Mul(qty)
	return LineResult{
		Key:             entry.Key,
		Name:            entry.Key.String(),
		DerivedQuantity: qty,
		UnitLabel:       entry.Unit,
		UnitPrice:       entry.Price,
		BaseCost:        base,
		FinalCost:       applyMarkup(base, markupRate),
	}, nil
}

// EvaluateBatch prices every spec independently, in input order. Failures are
// collected with their position and never stop the remaining lines.
func EvaluateBatch(catalog *CatalogIndex, specs []LineItemSpec, markupRate decimal.Decimal) (EstimateReport, []LineError) {
	results := make([]LineResult, 0, len(specs))
	var failures []LineError

	for i, spec := range specs {
		res, err := Evaluate(catalog, spec, markupRate)
		if err != nil {
			failures = append(failures, LineError{Position: i + 1, Key: spec.Key, Err: err})
			continue
		}
		results = append(results, res)
	}

	return FromResults(results, markupRate), failures
}

func applyMarkup(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(1).Add(rate))
}
