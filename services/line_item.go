package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// UnitType selects how a line item's quantity is derived.
type UnitType int

const (
	// UnitPiece counts items; quantity is used as given.
	UnitPiece UnitType = iota
	// UnitLinearMeter measures running length; quantity is used as given.
	UnitLinearMeter
	// UnitAreaMeter measures area; quantity is width times height.
	UnitAreaMeter
)

var unitTypeNames = map[UnitType]string{
	UnitPiece:       "piece",
	UnitLinearMeter: "linear_meter",
	UnitAreaMeter:   "area_meter",
}

var unitTypeAliases = map[string]UnitType{
	"piece":        UnitPiece,
	"pc":           UnitPiece,
	"pcs":          UnitPiece,
	"шт":           UnitPiece,
	"linear_meter": UnitLinearMeter,
	"linear-meter": UnitLinearMeter,
	"lm":           UnitLinearMeter,
	"м/п":          UnitLinearMeter,
	"area_meter":   UnitAreaMeter,
	"area-meter":   UnitAreaMeter,
	"m2":           UnitAreaMeter,
	"sqm":          UnitAreaMeter,
	"кв/м":         UnitAreaMeter,
}

// ParseUnitType accepts the canonical names and the short labels used on
// price lists.
func ParseUnitType(s string) (UnitType, error) {
	if t, ok := unitTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return UnitPiece, fmt.Errorf("unknown unit type %q", s)
}

func (t UnitType) String() string {
	if name, ok := unitTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UnitType(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t UnitType) MarshalText() ([]byte, error) {
	name, ok := unitTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown unit type %d", int(t))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *UnitType) UnmarshalText(b []byte) error {
	parsed, err := ParseUnitType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LineItemSpec is one requested purchase line. Width and Height are read only
// for UnitAreaMeter, Quantity only for the other unit types.
type LineItemSpec struct {
	Key      CatalogKey      `json:"key" yaml:"key"`
	UnitType UnitType        `json:"unit_type" yaml:"unit_type"`
	Width    decimal.Decimal `json:"width" yaml:"width"`
	Height   decimal.Decimal `json:"height" yaml:"height"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
}

// validate rejects negative values in the fields the unit type reads.
func (s LineItemSpec) validate() error {
	if s.UnitType == UnitAreaMeter {
		if s.Width.IsNegative() {
			return &NegativeInputError{Key: s.Key, Field: "width"}
		}
		if s.Height.IsNegative() {
			return &NegativeInputError{Key: s.Key, Field: "height"}
		}
		return nil
	}
	if s.Quantity.IsNegative() {
		return &NegativeInputError{Key: s.Key, Field: "quantity"}
	}
	return nil
}

// MarkupRateFromPercent converts an operator percentage (11) into a rate (0.11).
func MarkupRateFromPercent(percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.IsNegative() {
		return decimal.Zero, ErrNegativeMarkup
	}
	return percent.Shift(-2), nil
}
