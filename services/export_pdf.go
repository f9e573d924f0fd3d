package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateEstimatePDF renders the estimate as a printable quote and returns
// the raw PDF bytes.
func GenerateEstimatePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for i, item := range data.Report.Items {
		addTableRow(m, i, item)
	}
	addSummary(m, data.Report)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addHeader adds the title, reference number and date.
func addHeader(m core.Maroto, data ExportData) {
	title := data.Title
	if title == "" {
		title = "Estimate"
	}
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	grey := &props.Color{Red: 80, Green: 80, Blue: 80}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Reference: %s", data.Reference), props.Text{
					Size:  9,
					Align: align.Left,
					Color: grey,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: grey,
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// pdfColumns are the grid widths (out of 12) for #, Name, Quantity,
// Unit Price, Base Cost and Final Cost.
var pdfColumns = []int{1, 4, 2, 1, 2, 2}

func addTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}

	labels := append([]string{"#"}, itemHeaders...)
	cols := make([]core.Col, len(labels))
	for i, label := range labels {
		cols[i] = col.New(pdfColumns[i]).Add(text.New(label, headerText)).WithStyle(headerCell)
	}
	m.AddRows(row.New(8).Add(cols...))
}

// addTableRow adds one priced line; alternate rows are shaded.
func addTableRow(m core.Maroto, i int, item LineResult) {
	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	cells := []struct {
		value string
		style props.Text
	}{
		{fmt.Sprintf("%d", i+1), base},
		{item.Name, left},
		{item.FormattedQuantity(), right},
		{FormatAmount(item.UnitPrice), right},
		{FormatAmount(item.BaseCost), right},
		{FormatAmount(item.FinalCost), right},
	}

	var shade *props.Cell
	if i%2 == 1 {
		shade = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	cols := make([]core.Col, len(cells))
	for j, c := range cells {
		cl := col.New(pdfColumns[j]).Add(text.New(c.value, c.style))
		if shade != nil {
			cl = cl.WithStyle(shade)
		}
		cols[j] = cl
	}
	m.AddRows(row.New(7).Add(cols...))
}

// addSummary adds the base and marked-up totals below the table.
func addSummary(m core.Maroto, report EstimateReport) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}

	lines := []struct {
		label string
		value string
	}{
		{baseTotalLabel, FormatAmount(report.TotalBaseCost)},
		{FinalTotalLabel(report.MarkupPercent()), FormatAmount(report.TotalFinalCost)},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(text.New(l.label, bold)).WithStyle(summaryCell),
				col.New(4).Add(text.New(l.value, bold)).WithStyle(summaryCell),
			),
		)
	}
}
