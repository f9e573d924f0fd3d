package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Order is a batch of line items kept in a YAML file for offline quoting.
//
//	title: Kitchen
//	markup_percent: 11
//	items:
//	  - key: {name: Panel A}
//	    unit_type: piece
//	    quantity: 3
type Order struct {
	Title         string           `yaml:"title"`
	MarkupPercent *decimal.Decimal `yaml:"markup_percent"`
	Items         []LineItemSpec   `yaml:"items"`
}

// ErrEmptyOrder is returned for an order file without line items.
var ErrEmptyOrder = errors.New("order has no line items")

// ParseOrderYAML decodes an order file. Unknown fields are rejected so that a
// misspelled dimension does not silently price as zero.
func ParseOrderYAML(r io.Reader) (Order, error) {
	var order Order
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&order); err != nil {
		if errors.Is(err, io.EOF) {
			return Order{}, ErrEmptyOrder
		}
		return Order{}, fmt.Errorf("decode order: %w", err)
	}
	if len(order.Items) == 0 {
		return Order{}, ErrEmptyOrder
	}
	return order, nil
}

// MarkupRate resolves the order's markup, falling back to defaultPercent.
func (o Order) MarkupRate(defaultPercent decimal.Decimal) (decimal.Decimal, error) {
	if o.MarkupPercent != nil {
		return MarkupRateFromPercent(*o.MarkupPercent)
	}
	return MarkupRateFromPercent(defaultPercent)
}
