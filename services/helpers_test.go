package services

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// dec parses a decimal literal and panics on malformed test input.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// testCatalog builds a small catalog covering plain keys, noted keys and
// every unit label.
func testCatalog(t *testing.T) *CatalogIndex {
	t.Helper()
	idx, err := BuildCatalog([]CatalogRow{
		{Line: 2, Name: "Panel A", Price: "100", Unit: "pcs"},
		{Line: 3, Name: "Gypsum board", Note: "12.5 mm", Price: "2450.50", Unit: "m2"},
		{Line: 4, Name: "Gypsum board", Note: "9.5 mm", Price: "1980", Unit: "m2"},
		{Line: 5, Name: "Skirting", Price: "850", Unit: "lm"},
		{Line: 6, Name: "Glass", Price: "12000", Unit: "m2"},
	})
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}
	return idx
}
