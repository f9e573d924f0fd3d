package services

import (
	"errors"
	"strings"
	"testing"
)

const sampleOrder = `
title: Kitchen
markup_percent: 12.5
items:
  - key: {name: Panel A}
    unit_type: piece
    quantity: 3
  - key: {name: Gypsum board, note: 12.5 mm}
    unit_type: кв/м
    width: 1.25
    height: "2.5"
`

func TestParseOrderYAML(t *testing.T) {
	order, err := ParseOrderYAML(strings.NewReader(sampleOrder))
	if err != nil {
		t.Fatalf("ParseOrderYAML() error = %v", err)
	}
	if order.Title != "Kitchen" {
		t.Errorf("Title = %q, want Kitchen", order.Title)
	}
	if len(order.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(order.Items))
	}

	second := order.Items[1]
	if second.Key != (CatalogKey{Name: "Gypsum board", Note: "12.5 mm"}) {
		t.Errorf("Key = %+v", second.Key)
	}
	if second.UnitType != UnitAreaMeter {
		t.Errorf("UnitType = %v, want area_meter", second.UnitType)
	}
	if !ResolveQuantity(second).Equal(dec("3.125")) {
		t.Errorf("quantity = %s, want 3.125", ResolveQuantity(second))
	}

	rate, err := order.MarkupRate(dec("11"))
	if err != nil {
		t.Fatalf("MarkupRate() error = %v", err)
	}
	if !rate.Equal(dec("0.125")) {
		t.Errorf("rate = %s, want 0.125", rate)
	}
}

func TestParseOrderYAML_DefaultMarkup(t *testing.T) {
	order, err := ParseOrderYAML(strings.NewReader("items:\n  - key: {name: Panel A}\n    quantity: 1\n"))
	if err != nil {
		t.Fatalf("ParseOrderYAML() error = %v", err)
	}
	rate, err := order.MarkupRate(dec("11"))
	if err != nil {
		t.Fatalf("MarkupRate() error = %v", err)
	}
	if !rate.Equal(dec("0.11")) {
		t.Errorf("rate = %s, want 0.11", rate)
	}
	if order.Items[0].UnitType != UnitPiece {
		t.Errorf("UnitType = %v, want piece by default", order.Items[0].UnitType)
	}
}

func TestParseOrderYAML_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		is    error
	}{
		{"empty document", "", ErrEmptyOrder},
		{"no items", "title: x\n", ErrEmptyOrder},
		{"unknown field", "items:\n  - key: {name: A}\n    widht: 2\n", nil},
		{"unknown unit", "items:\n  - key: {name: A}\n    unit_type: crate\n", nil},
		{"bad number", "items:\n  - key: {name: A}\n    quantity: lots\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOrderYAML(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}
