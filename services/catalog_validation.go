package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CatalogValidation is the outcome of checking a price list without storing it.
type CatalogValidation struct {
	TotalRows  int               `json:"total_rows"`
	ValidRows  int               `json:"valid_rows"`
	ErrorRows  int               `json:"error_rows"`
	Keys       int               `json:"keys"`
	Errors     []ValidationError `json:"errors"`
	Duplicates []DuplicateKey    `json:"duplicates"`
}

// OK reports whether the price list can be imported.
func (v CatalogValidation) OK() bool { return len(v.Errors) == 0 }

// ValidateCatalogRows runs the catalog build on rows and reports every
// malformed row and every overwritten key.
func ValidateCatalogRows(rows []CatalogRow) CatalogValidation {
	v := CatalogValidation{TotalRows: len(rows), Errors: []ValidationError{}, Duplicates: []DuplicateKey{}}

	idx, err := BuildCatalog(rows)
	if err == nil {
		v.ValidRows = len(rows)
		v.Keys = idx.Len()
		v.Duplicates = append(v.Duplicates, idx.Duplicates()...)
		return v
	}

	v.Errors = toValidationErrors(err)
	bad := make(map[int]bool, len(v.Errors))
	for _, e := range v.Errors {
		bad[e.Row] = true
	}
	v.ErrorRows = len(bad)
	v.ValidRows = v.TotalRows - v.ErrorRows
	return v
}

func toValidationErrors(err error) []ValidationError {
	var leaves []error
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		leaves = multi.Unwrap()
	} else {
		leaves = []error{err}
	}

	out := make([]ValidationError, 0, len(leaves))
	for _, leaf := range leaves {
		var mre *MalformedRowError
		if errors.As(leaf, &mre) {
			out = append(out, ValidationError{Row: mre.Row, Field: mre.Field, Message: mre.Reason})
			continue
		}
		out = append(out, ValidationError{Message: leaf.Error()})
	}
	return out
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errs []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errs {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
