package services

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func testExportData(t *testing.T) ExportData {
	t.Helper()
	idx := testCatalog(t)
	report, failures := EvaluateBatch(idx, []LineItemSpec{
		{Key: CatalogKey{Name: "Panel A"}, UnitType: UnitPiece, Quantity: dec("3")},
		{Key: CatalogKey{Name: "Gypsum board", Note: "12.5 mm"}, UnitType: UnitAreaMeter, Width: dec("1.2"), Height: dec("2.75")},
		{Key: CatalogKey{Name: "Skirting"}, UnitType: UnitLinearMeter, Quantity: dec("7.3")},
	}, dec("0.11"))
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	return NewExportData("Kitchen", report, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
}

func TestGenerateExcel_Layout(t *testing.T) {
	data := testExportData(t)

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GenerateExcel() returned empty bytes")
	}

	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != ItemsSheet || sheets[1] != SummarySheet {
		t.Fatalf("sheets = %v, want [%s %s]", sheets, ItemsSheet, SummarySheet)
	}

	for i, want := range itemHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		got, _ := f.GetCellValue(ItemsSheet, cell)
		if got != want {
			t.Errorf("header %s = %q, want %q", cell, got, want)
		}
	}

	name, _ := f.GetCellValue(ItemsSheet, "A3")
	if name != "Gypsum board | 12.5 mm" {
		t.Errorf("A3 = %q, want the noted key", name)
	}
	qty, _ := f.GetCellValue(ItemsSheet, "B2")
	if qty != "3.00 pcs" {
		t.Errorf("B2 = %q, want 3.00 pcs", qty)
	}

	// amounts are numbers, not text
	typ, err := f.GetCellType(ItemsSheet, "D2")
	if err != nil {
		t.Fatalf("GetCellType error = %v", err)
	}
	if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
		t.Errorf("D2 cell type = %v, want numeric", typ)
	}

	// summary header sits below two blank rows
	for _, cell := range []string{"A1", "A2"} {
		if v, _ := f.GetCellValue(SummarySheet, cell); v != "" {
			t.Errorf("%s!%s = %q, want blank", SummarySheet, cell, v)
		}
	}
	if v, _ := f.GetCellValue(SummarySheet, "A3"); v != "Metric" {
		t.Errorf("%s!A3 = %q, want Metric", SummarySheet, v)
	}
	if v, _ := f.GetCellValue(SummarySheet, "A4"); v != "Base total" {
		t.Errorf("%s!A4 = %q, want Base total", SummarySheet, v)
	}
	if v, _ := f.GetCellValue(SummarySheet, "A5"); v != "Final total (markup 11%)" {
		t.Errorf("%s!A5 = %q, want Final total (markup 11%%)", SummarySheet, v)
	}

	props, err := f.GetDocProps()
	if err != nil {
		t.Fatalf("GetDocProps error = %v", err)
	}
	if props.Title != "Kitchen" || props.Identifier != data.Reference {
		t.Errorf("doc props = %+v", props)
	}
}

func TestGenerateExcel_RoundTripTotals(t *testing.T) {
	data := testExportData(t)

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	est, err := ReadEstimateExcel(bytesReader(result))
	if err != nil {
		t.Fatalf("ReadEstimateExcel() error = %v", err)
	}
	if len(est.Lines) != len(data.Report.Items) {
		t.Fatalf("read %d lines, want %d", len(est.Lines), len(data.Report.Items))
	}

	if !est.SumBaseCost().Round(2).Equal(est.BaseTotal.Round(2)) {
		t.Errorf("Base Cost column sums to %s, summary says %s", est.SumBaseCost(), est.BaseTotal)
	}
	if !est.BaseTotal.Round(2).Equal(data.Report.TotalBaseCost.Round(2)) {
		t.Errorf("BaseTotal = %s, want %s", est.BaseTotal, data.Report.TotalBaseCost)
	}
	if !est.FinalTotal.Round(2).Equal(data.Report.TotalFinalCost.Round(2)) {
		t.Errorf("FinalTotal = %s, want %s", est.FinalTotal, data.Report.TotalFinalCost)
	}
	if est.FinalLabel != "Final total (markup 11%)" {
		t.Errorf("FinalLabel = %q", est.FinalLabel)
	}
	if est.Lines[0].Name != "Panel A" || !est.Lines[0].BaseCost.Equal(dec("300")) {
		t.Errorf("line 0 = %+v", est.Lines[0])
	}
}

func TestGenerateExcel_EmptyReport(t *testing.T) {
	data := NewExportData("Empty", FromResults(nil, dec("0.11")), time.Now())

	result, err := GenerateExcel(data)
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}

	est, err := ReadEstimateExcel(bytesReader(result))
	if err != nil {
		t.Fatalf("ReadEstimateExcel() error = %v", err)
	}
	if len(est.Lines) != 0 || !est.BaseTotal.IsZero() || !est.FinalTotal.IsZero() {
		t.Errorf("read back %+v, want empty with zero totals", est)
	}
}

func TestGenerateExcel_FormulaInjection(t *testing.T) {
	report := FromResults([]LineResult{{Name: "=HYPERLINK(\"x\")", UnitLabel: "pcs", DerivedQuantity: dec("1")}}, dec("0"))
	result, err := GenerateExcel(NewExportData("t", report, time.Now()))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytesReader(result))
	if err != nil {
		t.Fatalf("OpenReader error = %v", err)
	}
	defer f.Close()

	v, _ := f.GetCellValue(ItemsSheet, "A2")
	if !strings.HasPrefix(v, "'") {
		t.Errorf("A2 = %q, want a quote-prefixed value", v)
	}
}

func TestReadEstimateExcel_GuardedNamesRoundTrip(t *testing.T) {
	names := []string{"-Panel", "=SUM(A1)", "+7 hinge", "'quoted", "Panel A", "It's fine"}
	results := make([]LineResult, len(names))
	for i, n := range names {
		results[i] = LineResult{Name: n, UnitLabel: "pcs", DerivedQuantity: dec("1"), UnitPrice: dec("10"), BaseCost: dec("10"), FinalCost: dec("10")}
	}
	report := FromResults(results, dec("0"))

	b, err := GenerateExcel(NewExportData("t", report, time.Now()))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	est, err := ReadEstimateExcel(bytesReader(b))
	if err != nil {
		t.Fatalf("ReadEstimateExcel() error = %v", err)
	}
	if len(est.Lines) != len(names) {
		t.Fatalf("got %d lines, want %d", len(est.Lines), len(names))
	}
	for i, want := range names {
		if got := est.Lines[i].Name; got != want {
			t.Errorf("line %d name = %q, want %q", i+1, got, want)
		}
	}
}

func TestUnsanitizeExcelCell(t *testing.T) {
	for _, s := range []string{"", "'", "=x", "-1", "'x", "''", "Panel"} {
		if got := unsanitizeExcelCell(sanitizeExcelCell(s)); got != s {
			t.Errorf("round trip of %q = %q", s, got)
		}
	}
}

func TestReadEstimateExcel_NotAnEstimate(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer error = %v", err)
	}
	if _, err := ReadEstimateExcel(buf); err == nil {
		t.Error("expected an error for a workbook without estimate sheets")
	}
}

func TestSanitizeExcelCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"'quoted", "''quoted"},
		{"Panel A", "Panel A"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeExcelCell(tt.input); got != tt.want {
				t.Errorf("sanitizeExcelCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
