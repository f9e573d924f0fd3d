package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// catalog column identifiers
const (
	colName  = "name"
	colNote  = "note"
	colPrice = "price"
	colUnit  = "unit"
)

// headerAliases maps normalized header labels to catalog columns. Russian
// labels match the price lists the tool was built around.
var headerAliases = map[string]string{
	"name":         colName,
	"item":         colName,
	"наименование": colName,
	"note":         colNote,
	"notes":        colNote,
	"примечание":   colNote,
	"price":        colPrice,
	"unit price":   colPrice,
	"цена":         colPrice,
	"unit":         colUnit,
	"uom":          colUnit,
	"ед изм":       colUnit,
	"ед. изм.":     colUnit,
}

// ErrUnsupportedFormat is returned for catalog files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format: must be .csv or .xlsx")

// ParseCatalogFile dispatches on the file extension.
func ParseCatalogFile(r io.Reader, fileName string) ([]CatalogRow, error) {
	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		return ParseCatalogCSV(r)
	case strings.HasSuffix(lower, ".xlsx"):
		return ParseCatalogExcel(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCatalogCSV reads a price list with a header row.
func ParseCatalogCSV(r io.Reader) ([]CatalogRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rowsFromTable(allRows)
}

// ParseCatalogExcel reads a price list from the first sheet of a workbook.
// Numeric cells are read unformatted so a "#,##0" display never reaches
// ParseDecimal.
func ParseCatalogExcel(r io.Reader) ([]CatalogRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rowsFromTable(rows)
}

// rowsFromTable maps a header row plus data rows to CatalogRows. Fully blank
// lines are skipped; everything else is passed on for BuildCatalog to judge.
func rowsFromTable(table [][]string) ([]CatalogRow, error) {
	if len(table) < 2 {
		return nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	columns, err := mapCatalogHeaders(table[0])
	if err != nil {
		return nil, err
	}

	out := make([]CatalogRow, 0, len(table)-1)
	for i, rec := range table[1:] {
		if isBlankRecord(rec) {
			continue
		}
		row := CatalogRow{Line: i + 2} // 1-indexed, +1 for header row
		for field, colIdx := range columns {
			if colIdx >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[colIdx])
			switch field {
			case colName:
				row.Name = v
			case colNote:
				row.Note = v
			case colPrice:
				row.Price = v
			case colUnit:
				row.Unit = v
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// mapCatalogHeaders returns the column index of each recognized field.
// Name and price columns are required.
func mapCatalogHeaders(headers []string) (map[string]int, error) {
	columns := make(map[string]int, 4)
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := headerAliases[norm]; ok {
			if _, dup := columns[field]; !dup {
				columns[field] = i
			}
		}
	}

	var missing []string
	for _, required := range []string{colName, colPrice} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", "))
	}
	return columns, nil
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
