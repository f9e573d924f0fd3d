// Package services implements the price catalog, the estimation engine and
// the estimate exporters.
package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// KeySeparator joins name and note when a catalog key is displayed.
const KeySeparator = " | "

// DefaultUnitLabel is used for catalog rows that leave the unit blank.
const DefaultUnitLabel = "pcs"

// CatalogKey identifies a catalog entry by item name and an optional
// distinguishing note. Keys compare by value.
type CatalogKey struct {
	Name string `json:"name" yaml:"name"`
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// NewCatalogKey builds a key with surrounding whitespace removed.
func NewCatalogKey(name, note string) CatalogKey {
	return CatalogKey{Name: strings.TrimSpace(name), Note: strings.TrimSpace(note)}
}

// String renders the key for display: the bare name, or name and note
// joined by KeySeparator.
func (k CatalogKey) String() string {
	if k.Note == "" {
		return k.Name
	}
	return k.Name + KeySeparator + k.Note
}

// CatalogRow is one raw price list row as read from a file or the database.
type CatalogRow struct {
	Line  int
	Name  string
	Note  string
	Price string
	Unit  string
}

// PriceEntry is a normalized, priced catalog item.
type PriceEntry struct {
	Key   CatalogKey      `json:"key"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

// DuplicateKey records a catalog key that appeared more than once. The entry
// from Row replaced the one from FirstRow.
type DuplicateKey struct {
	Key      CatalogKey `json:"key"`
	FirstRow int        `json:"first_row"`
	Row      int        `json:"row"`
}

// CatalogIndex maps composite keys to price entries. It is immutable after
// BuildCatalog returns and safe for concurrent readers.
type CatalogIndex struct {
	entries    map[CatalogKey]PriceEntry
	order      []CatalogKey
	rows       map[CatalogKey]int
	duplicates []DuplicateKey
}

// BuildCatalog normalizes rows into an index. Rows sharing a key overwrite
// earlier ones and are reported by Duplicates. If any row lacks a name or a
// non-negative numeric price the whole build fails and every bad row is listed in the
// joined error.
func BuildCatalog(rows []CatalogRow) (*CatalogIndex, error) {
	idx := &CatalogIndex{
		entries: make(map[CatalogKey]PriceEntry, len(rows)),
		order:   make([]CatalogKey, 0, len(rows)),
		rows:    make(map[CatalogKey]int, len(rows)),
	}

	var errs []error
	for i, row := range rows {
		line := row.Line
		if line == 0 {
			line = i + 1
		}

		key := NewCatalogKey(row.Name, row.Note)
		if key.Name == "" {
			errs = append(errs, &MalformedRowError{Row: line, Field: "name", Reason: "is empty"})
			continue
		}
		price, err := ParseDecimal(row.Price)
		if err != nil {
			errs = append(errs, &MalformedRowError{Row: line, Field: "price", Reason: err.Error()})
			continue
		}
		if price.IsNegative() {
			errs = append(errs, &MalformedRowError{Row: line, Field: "price", Reason: "is negative"})
			continue
		}

		unit := strings.TrimSpace(row.Unit)
		if unit == "" {
			unit = DefaultUnitLabel
		}

		if first, seen := idx.rows[key]; seen {
			idx.duplicates = append(idx.duplicates, DuplicateKey{Key: key, FirstRow: first, Row: line})
		} else {
			idx.order = append(idx.order, key)
		}
		idx.rows[key] = line
		idx.entries[key] = PriceEntry{Key: key, Price: price, Unit: unit}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return idx, nil
}

// Lookup returns the entry stored under key. Matching is exact.
func (c *CatalogIndex) Lookup(key CatalogKey) (PriceEntry, bool) {
	if c == nil {
		return PriceEntry{}, false
	}
	e, ok := c.entries[key]
	return e, ok
}

// Keys returns every distinct key in the order it first appeared in the catalog.
func (c *CatalogIndex) Keys() []CatalogKey {
	if c == nil {
		return nil
	}
	keys := make([]CatalogKey, len(c.order))
	copy(keys, c.order)
	return keys
}

// Entries returns the current entry for every key, in Keys order.
func (c *CatalogIndex) Entries() []PriceEntry {
	if c == nil {
		return nil
	}
	out := make([]PriceEntry, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.entries[k])
	}
	return out
}

// Duplicates lists keys that were overwritten during the build.
func (c *CatalogIndex) Duplicates() []DuplicateKey {
	if c == nil {
		return nil
	}
	out := make([]DuplicateKey, len(c.duplicates))
	copy(out, c.duplicates)
	return out
}

// Len returns the number of distinct keys.
func (c *CatalogIndex) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
