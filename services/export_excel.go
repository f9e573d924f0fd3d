package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	// ItemsSheet holds one row per priced line.
	ItemsSheet = "Estimate"
	// SummarySheet holds the base and final totals.
	SummarySheet = "Summary"

	// summaryOffsetRows is the number of blank rows above the summary header.
	summaryOffsetRows = 2

	baseTotalLabel   = "Base total"
	finalTotalPrefix = "Final total"

	// numFmtAmount is the built-in "#,##0.00" number format.
	numFmtAmount = 4
)

var itemHeaders = []string{"Name", "Quantity", "Unit Price", "Base Cost", "Final Cost"}

// FinalTotalLabel returns the summary label for the marked-up total.
func FinalTotalLabel(markupPercent decimal.Decimal) string {
	return fmt.Sprintf("%s (markup %s%%)", finalTotalPrefix, formatPercent(markupPercent))
}

// GenerateExcel writes the estimate as a two-sheet workbook and returns the
// file contents. Amount cells are numeric so the workbook can be re-read
// without loss; display formatting is applied through the cell style.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ItemsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	// Column header style: bold, white text, charcoal background, centered.
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	textStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create text style: %w", err)
	}

	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
		NumFmt: numFmtAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: numFmtAmount,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	if err := writeItemsSheet(f, data.Report, headerStyle, textStyle, amountStyle); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, data.Report, headerStyle, summaryLabelStyle, summaryValueStyle); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       data.Title,
		Identifier:  data.Reference,
		Description: "Created " + data.CreatedDate,
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItemsSheet(f *excelize.File, report EstimateReport, headerStyle, textStyle, amountStyle int) error {
	sheet := ItemsSheet
	widths := []float64{44, 16, 14, 16, 18}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	for i, h := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)

	for i, item := range report.Items {
		row := fmt.Sprintf("%d", i+2)

		f.SetCellValue(sheet, "A"+row, sanitizeExcelCell(item.Name))
		f.SetCellValue(sheet, "B"+row, sanitizeExcelCell(item.FormattedQuantity()))
		f.SetCellValue(sheet, "C"+row, item.UnitPrice.InexactFloat64())
		f.SetCellValue(sheet, "D"+row, item.BaseCost.InexactFloat64())
		f.SetCellValue(sheet, "E"+row, item.FinalCost.InexactFloat64())

		f.SetCellStyle(sheet, "A"+row, "B"+row, textStyle)
		f.SetCellStyle(sheet, "C"+row, "E"+row, amountStyle)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report EstimateReport, headerStyle, labelStyle, valueStyle int) error {
	sheet := SummarySheet
	if err := f.SetColWidth(sheet, "A", "A", 34); err != nil {
		return fmt.Errorf("set col width A: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 18); err != nil {
		return fmt.Errorf("set col width B: %w", err)
	}

	header := summaryOffsetRows + 1
	hdr := fmt.Sprintf("%d", header)
	f.SetCellValue(sheet, "A"+hdr, "Metric")
	f.SetCellValue(sheet, "B"+hdr, "Amount")
	f.SetCellStyle(sheet, "A"+hdr, "B"+hdr, headerStyle)

	rows := []struct {
		label string
		value decimal.Decimal
	}{
		{baseTotalLabel, report.TotalBaseCost},
		{FinalTotalLabel(report.MarkupPercent()), report.TotalFinalCost},
	}
	for i, r := range rows {
		row := fmt.Sprintf("%d", header+1+i)
		f.SetCellValue(sheet, "A"+row, r.label)
		f.SetCellStyle(sheet, "A"+row, "A"+row, labelStyle)
		f.SetCellValue(sheet, "B"+row, r.value.InexactFloat64())
		f.SetCellStyle(sheet, "B"+row, "B"+row, valueStyle)
	}
	return nil
}

// ExportedLine is one Items row read back from a workbook.
type ExportedLine struct {
	Name      string
	Quantity  string
	UnitPrice decimal.Decimal
	BaseCost  decimal.Decimal
	FinalCost decimal.Decimal
}

// ExportedEstimate is the content of a workbook produced by GenerateExcel.
type ExportedEstimate struct {
	Lines      []ExportedLine
	BaseTotal  decimal.Decimal
	FinalTotal decimal.Decimal
	FinalLabel string
}

// SumBaseCost adds up the Base Cost column.
func (e ExportedEstimate) SumBaseCost() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range e.Lines {
		sum = sum.Add(l.BaseCost)
	}
	return sum
}

// ReadEstimateExcel parses a workbook written by GenerateExcel.
func ReadEstimateExcel(r io.Reader) (ExportedEstimate, error) {
	var out ExportedEstimate

	f, err := excelize.OpenReader(r)
	if err != nil {
		return out, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	raw := excelize.Options{RawCellValue: true}

	items, err := f.GetRows(ItemsSheet, raw)
	if err != nil {
		return out, fmt.Errorf("read %s sheet: %w", ItemsSheet, err)
	}
	for i, rec := range items {
		if i == 0 || isBlankRecord(rec) {
			continue
		}
		if len(rec) < len(itemHeaders) {
			return out, fmt.Errorf("%s row %d: expected %d columns, got %d", ItemsSheet, i+1, len(itemHeaders), len(rec))
		}
		line := ExportedLine{Name: unsanitizeExcelCell(rec[0]), Quantity: unsanitizeExcelCell(rec[1])}
		for j, dst := range []*decimal.Decimal{&line.UnitPrice, &line.BaseCost, &line.FinalCost} {
			v, err := decimal.NewFromString(strings.TrimSpace(rec[2+j]))
			if err != nil {
				return out, fmt.Errorf("%s row %d, column %s: %w", ItemsSheet, i+1, itemHeaders[2+j], err)
			}
			*dst = v
		}
		out.Lines = append(out.Lines, line)
	}

	summary, err := f.GetRows(SummarySheet, raw)
	if err != nil {
		return out, fmt.Errorf("read %s sheet: %w", SummarySheet, err)
	}
	var haveBase, haveFinal bool
	for i, rec := range summary {
		if len(rec) < 2 {
			continue
		}
		label := strings.TrimSpace(rec[0])
		var dst *decimal.Decimal
		switch {
		case label == baseTotalLabel:
			dst, haveBase = &out.BaseTotal, true
		case strings.HasPrefix(label, finalTotalPrefix):
			dst, haveFinal = &out.FinalTotal, true
			out.FinalLabel = label
		default:
			continue
		}
		v, err := decimal.NewFromString(strings.TrimSpace(rec[1]))
		if err != nil {
			return out, fmt.Errorf("%s row %d: %w", SummarySheet, i+1, err)
		}
		*dst = v
	}
	if !haveBase || !haveFinal {
		return out, fmt.Errorf("%s sheet is missing totals", SummarySheet)
	}
	return out, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
// A value that already starts with a quote is quoted too, so
// unsanitizeExcelCell can undo the prefix exactly.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	if guardedLead(s[0]) {
		return "'" + s
	}
	return s
}

// unsanitizeExcelCell reverses sanitizeExcelCell on a value read back.
func unsanitizeExcelCell(s string) string {
	if len(s) > 1 && s[0] == '\'' && guardedLead(s[1]) {
		return s[1:]
	}
	return s
}

func guardedLead(c byte) bool {
	switch c {
	case '=', '+', '-', '@', '\t', '\r', '|', '\'':
		return true
	}
	return false
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
