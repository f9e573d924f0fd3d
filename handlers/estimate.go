package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"estimator/config"
	"estimator/services"
)

// maxEstimateBody caps the JSON request body for estimate endpoints.
const maxEstimateBody = 1 << 20

// EstimateRequest is the JSON body of the estimate endpoints.
type EstimateRequest struct {
	Title         string                  `json:"title"`
	MarkupPercent *decimal.Decimal        `json:"markup_percent"`
	Items         []services.LineItemSpec `json:"items"`
}

// EstimateResponse is returned by HandleEstimate.
type EstimateResponse struct {
	Report        services.EstimateReport `json:"report"`
	MarkupPercent decimal.Decimal         `json:"markup_percent"`
	BaseDisplay   string                  `json:"base_display"`
	FinalDisplay  string                  `json:"final_display"`
	Failures      []lineFailure           `json:"failures"`
}

// estimateRun is the outcome of evaluating one request.
type estimateRun struct {
	title    string
	report   services.EstimateReport
	failures []services.LineError
}

// runEstimate decodes the request, loads the catalog and evaluates the batch.
// On failure it has already written the error response and returns ok=false.
func runEstimate(app *pocketbase.PocketBase, settings config.Settings, e *core.RequestEvent) (estimateRun, bool, error) {
	catalogID := e.Request.PathValue("id")
	if catalogID == "" {
		return estimateRun{}, false, ErrorJSON(e, http.StatusBadRequest, "Missing catalog ID")
	}

	var req EstimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(e.Response, e.Request.Body, maxEstimateBody))
	if err := dec.Decode(&req); err != nil {
		log.Printf("estimate: could not decode request: %v", err)
		return estimateRun{}, false, ErrorJSON(e, http.StatusBadRequest, "Invalid estimate request", err.Error())
	}
	if len(req.Items) == 0 {
		return estimateRun{}, false, ErrorJSON(e, http.StatusBadRequest, "At least one line item is required")
	}
	if len(req.Items) > settings.MaxLineItems {
		return estimateRun{}, false, ErrorJSON(e, http.StatusBadRequest,
			fmt.Sprintf("At most %d line items are allowed", settings.MaxLineItems))
	}

	percent := settings.DefaultMarkupPercent
	if req.MarkupPercent != nil {
		percent = *req.MarkupPercent
	}
	rate, err := services.MarkupRateFromPercent(percent)
	if err != nil {
		return estimateRun{}, false, ErrorJSON(e, http.StatusBadRequest, err.Error())
	}

	catalog, err := services.LoadCatalogIndex(app, catalogID)
	if err != nil {
		log.Printf("estimate: could not load catalog %s: %v", catalogID, err)
		if errors.Is(err, services.ErrCatalogNotFound) {
			return estimateRun{}, false, ErrorJSON(e, http.StatusNotFound, "Catalog not found")
		}
		return estimateRun{}, false, ErrorJSON(e, http.StatusInternalServerError, "Failed to load catalog", joinedMessages(err)...)
	}

	report, failures := services.EvaluateBatch(catalog, req.Items, rate)
	for _, f := range failures {
		log.Printf("estimate: catalog %s: %v", catalogID, f)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Estimate"
	}
	return estimateRun{title: title, report: report, failures: failures}, true, nil
}

// HandleEstimate prices the submitted line items against a stored catalog and
// returns the report together with any per-line failures.
// Route: POST /catalogs/{id}/estimate
func HandleEstimate(app *pocketbase.PocketBase, settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		run, ok, err := runEstimate(app, settings, e)
		if !ok {
			return err
		}

		return e.JSON(http.StatusOK, EstimateResponse{
			Report:        run.report,
			MarkupPercent: run.report.MarkupPercent(),
			BaseDisplay:   services.FormatTenge(run.report.TotalBaseCost),
			FinalDisplay:  services.FormatTenge(run.report.TotalFinalCost),
			Failures:      toLineFailures(run.failures),
		})
	}
}
