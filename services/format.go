package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is appended to whole-unit amounts by FormatTenge.
const CurrencySymbol = "₸"

// plainNumber is what ParseDecimal accepts once separators are normalized.
var plainNumber = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

// ParseDecimal reads a price-list number. Spaces (including non-breaking
// ones) are thousands separators. Commas are thousands separators when the
// value has a dot; otherwise a single comma is the decimal separator. A lone
// comma followed by exactly three digits ("1,500") could be either, so it is
// rejected unless spaces already carry the grouping ("12 000,750").
func ParseDecimal(s string) (decimal.Decimal, error) {
	spaced := false
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			spaced = true
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, errors.New("is empty")
	}
	switch {
	case strings.Contains(clean, "."):
		clean = strings.ReplaceAll(clean, ",", "")
	case strings.Count(clean, ",") == 1:
		comma := strings.IndexByte(clean, ',')
		if len(clean)-comma-1 == 3 && !spaced {
			return decimal.Zero, fmt.Errorf("%q is ambiguous: use a dot for decimals or spaces for thousands", s)
		}
		clean = clean[:comma] + "." + clean[comma+1:]
	}
	if !plainNumber.MatchString(clean) {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

// FormatAmount renders an amount with two decimals and comma thousands
// grouping, e.g. 1234567.8 -> "1,234,567.80".
func FormatAmount(amount decimal.Decimal) string {
	return groupAmount(amount.StringFixed(2))
}

// FormatTenge renders an amount rounded to whole units with the currency
// symbol, e.g. 12345.6 -> "12,346 ₸".
func FormatTenge(amount decimal.Decimal) string {
	return groupAmount(amount.StringFixed(0)) + " " + CurrencySymbol
}

// formatPercent renders a percentage without trailing zeros (11, 12.5).
func formatPercent(p decimal.Decimal) string {
	return p.String()
}

func groupAmount(raw string) string {
	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	intPart, decPart, hasDec := strings.Cut(raw, ".")
	result := applyThousandsGrouping(intPart)
	if hasDec {
		result += "." + decPart
	}
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts a comma before every group of three digits
// counted from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	b.Grow(n + n/3)
	lead := n % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
