package handlers

import (
	"errors"
	"strconv"

	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error    string        `json:"error"`
	Details  []string      `json:"details,omitempty"`
	Failures []lineFailure `json:"failures,omitempty"`
}

// lineFailure is a per-line evaluation failure as sent to clients.
type lineFailure struct {
	Position int                 `json:"position"`
	Key      services.CatalogKey `json:"key"`
	Label    string              `json:"label"`
	Code     string              `json:"code"`
	Message  string              `json:"message"`
}

// ErrorJSON writes a JSON error response with an optional list of details.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string, details ...string) error {
	return e.JSON(statusCode, errorBody{Error: message, Details: details})
}

// SetFailureCount reports the number of skipped line items on binary
// responses, where the body cannot carry them.
func SetFailureCount(e *core.RequestEvent, n int) {
	e.Response.Header().Set("X-Estimate-Failures", strconv.Itoa(n))
}

// failureCode maps an evaluation error to a stable machine-readable code.
func failureCode(err error) string {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrZeroQuantity):
		return "zero_quantity"
	case errors.Is(err, services.ErrNegativeInput):
		return "negative_input"
	default:
		return "error"
	}
}

func toLineFailures(errs []services.LineError) []lineFailure {
	out := make([]lineFailure, 0, len(errs))
	for _, le := range errs {
		out = append(out, lineFailure{
			Position: le.Position,
			Key:      le.Key,
			Label:    le.Key.String(),
			Code:     failureCode(le.Err),
			Message:  le.Err.Error(),
		})
	}
	return out
}

// joinedMessages flattens an errors.Join tree into its leaf messages.
func joinedMessages(err error) []string {
	var multi interface{ Unwrap() []error }
	if errors.As(err, &multi) {
		var out []string
		for _, e := range multi.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
