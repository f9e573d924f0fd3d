package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateSheet is the sheet users fill in before importing a price list.
const TemplateSheet = "Price list"

// TemplateField describes one column of the price list template.
type TemplateField struct {
	Label        string
	Required     bool
	Description  string
	ExampleValue string
}

// CatalogTemplateFields returns the template columns in import order.
func CatalogTemplateFields() []TemplateField {
	return []TemplateField{
		{Label: "Name", Required: true, Description: "Item name as it appears on the supplier list", ExampleValue: "Gypsum board"},
		{Label: "Note", Description: "Distinguishes items sharing a name (thickness, size, finish)", ExampleValue: "12.5 mm"},
		{Label: "Price", Required: true, Description: "Unit price; spaces and a decimal comma are accepted", ExampleValue: "2 450,50"},
		{Label: "Unit", Description: "Unit label shown on quotes; defaults to " + DefaultUnitLabel, ExampleValue: "m2"},
	}
}

// templateUnits are offered as a drop-down in the Unit column.
var templateUnits = []string{"pcs", "m", "m2", "шт", "м/п", "кв/м"}

// GenerateCatalogTemplate creates a downloadable .xlsx price list template
// whose headers ParseCatalogExcel recognizes.
func GenerateCatalogTemplate() ([]byte, error) {
	fields := CatalogTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredHeader := templateHeaderStyle(f, "#1D4ED8")
	optionalHeader := templateHeaderStyle(f, "#6B7280")

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"
		f.SetCellValue(TemplateSheet, cell, field.Label)
		style := optionalHeader
		if field.Required {
			style = requiredHeader
		}
		f.SetCellStyle(TemplateSheet, cell, cell, style)
		f.SetCellValue(TemplateSheet, columns[i]+"2", field.ExampleValue)
	}
	f.SetColWidth(TemplateSheet, columns[0], columns[0], 40)
	f.SetColWidth(TemplateSheet, columns[1], columns[len(columns)-1], 16)

	unitCol := columns[len(columns)-1]
	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s1048576", unitCol, unitCol)
	if err := dv.SetDropList(templateUnits); err != nil {
		return nil, fmt.Errorf("unit drop-down: %w", err)
	}
	if err := f.AddDataValidation(TemplateSheet, dv); err != nil {
		return nil, fmt.Errorf("add unit drop-down: %w", err)
	}

	f.SetPanes(TemplateSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addTemplateInstructions(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// templateHeaderStyle is a bold white-on-color header cell.
func templateHeaderStyle(f *excelize.File, fill string) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	return style
}

// addTemplateInstructions writes one line per column to a hidden sheet.
func addTemplateInstructions(f *excelize.File, fields []TemplateField) {
	const sheet = "Instructions"
	f.NewSheet(sheet)

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	f.SetCellValue(sheet, "A1", "One item per row. Rows with the same Name and Note replace earlier ones.")
	f.SetSheetRow(sheet, "A3", &[]any{"Column", "Required?", "Description", "Example"})
	f.SetCellStyle(sheet, "A3", "D3", bold)

	for i, field := range fields {
		need := "Optional"
		if field.Required {
			need = "Required"
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		f.SetSheetRow(sheet, cell, &[]any{field.Label, need, field.Description, field.ExampleValue})
	}

	f.SetColWidth(sheet, "A", "B", 12)
	f.SetColWidth(sheet, "C", "C", 60)
	f.SetColWidth(sheet, "D", "D", 18)
	f.SetSheetVisible(sheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
