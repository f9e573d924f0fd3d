package services

import "time"

// ExportData holds everything the workbook and PDF exporters render.
type ExportData struct {
	Title       string
	Reference   string
	CreatedDate string
	Report      EstimateReport
}

// NewExportData stamps a report with a fresh reference number and date.
func NewExportData(title string, report EstimateReport, now time.Time) ExportData {
	return ExportData{
		Title:       title,
		Reference:   NewEstimateReference(now),
		CreatedDate: now.Format("02 Jan 2006"),
		Report:      report,
	}
}
