package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedCatalogRow is returned when a catalog row has no usable name or price.
	ErrMalformedCatalogRow = errors.New("malformed catalog row")
	// ErrNotFound is returned when a line item key has no catalog entry.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrZeroQuantity is returned when a line item derives a zero quantity.
	ErrZeroQuantity = errors.New("quantity is zero")
	// ErrNegativeInput is returned when a line item carries a negative dimension or quantity.
	ErrNegativeInput = errors.New("negative dimension or quantity")
	// ErrNegativeMarkup is returned for a markup percentage below zero.
	ErrNegativeMarkup = errors.New("markup must not be negative")
	// ErrCatalogNotFound is returned when a stored catalog id does not exist.
	ErrCatalogNotFound = errors.New("catalog not found")
)

// MalformedRowError describes one unusable catalog row.
type MalformedRowError struct {
	Row    int
	Field  string
	Reason string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

func (e *MalformedRowError) Unwrap() error { return ErrMalformedCatalogRow }

// NotFoundError reports a line item whose key is absent from the catalog.
type NotFoundError struct {
	Key CatalogKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no catalog entry for %q", e.Key.String())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ZeroQuantityError reports a line item whose derived quantity is zero.
type ZeroQuantityError struct {
	Key CatalogKey
}

func (e *ZeroQuantityError) Error() string {
	return fmt.Sprintf("no quantity given for %q", e.Key.String())
}

func (e *ZeroQuantityError) Unwrap() error { return ErrZeroQuantity }

// NegativeInputError reports a negative width, height or quantity.
type NegativeInputError struct {
	Key   CatalogKey
	Field string
}

func (e *NegativeInputError) Error() string {
	return fmt.Sprintf("%s is negative for %q", e.Field, e.Key.String())
}

func (e *NegativeInputError) Unwrap() error { return ErrNegativeInput }

// LineError ties an evaluation failure to the 1-based position of the
// line item in the submitted batch.
type LineError struct {
	Position int
	Key      CatalogKey
	Err      error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Position, e.Err)
}

func (e LineError) Unwrap() error { return e.Err }
