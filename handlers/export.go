package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/config"
	"estimator/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// exportableRun evaluates the request and rejects batches in which no line
// could be priced, since there is nothing to put in the document.
func exportableRun(app *pocketbase.PocketBase, settings config.Settings, e *core.RequestEvent) (estimateRun, bool, error) {
	run, ok, err := runEstimate(app, settings, e)
	if !ok {
		return run, false, err
	}
	if run.report.IsEmpty() {
		return run, false, e.JSON(http.StatusUnprocessableEntity, errorBody{
			Error:    "No line item could be priced",
			Failures: toLineFailures(run.failures),
		})
	}
	return run, true, nil
}

// HandleEstimateExportExcel returns a handler that prices the submitted line
// items and downloads the result as a workbook.
// Route: POST /catalogs/{id}/estimate/excel
func HandleEstimateExportExcel(app *pocketbase.PocketBase, settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		run, ok, err := exportableRun(app, settings, e)
		if !ok {
			return err
		}

		data := services.NewExportData(run.title, run.report, time.Now())
		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		filename := fmt.Sprintf("%s_%s.xlsx", sanitizeFilename(run.title), data.Reference)

		SetFailureCount(e, len(run.failures))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleEstimateExportPDF returns a handler that prices the submitted line
// items and downloads the result as a PDF quote.
// Route: POST /catalogs/{id}/estimate/pdf
func HandleEstimateExportPDF(app *pocketbase.PocketBase, settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		run, ok, err := exportableRun(app, settings, e)
		if !ok {
			return err
		}

		data := services.NewExportData(run.title, run.report, time.Now())
		pdfBytes, err := services.GenerateEstimatePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		filename := fmt.Sprintf("%s_%s.pdf", sanitizeFilename(run.title), data.Reference)

		SetFailureCount(e, len(run.failures))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}
