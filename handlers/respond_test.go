package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"estimator/services"
	"estimator/testhelpers"
)

func TestErrorJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := ErrorJSON(e, http.StatusBadRequest, "Bad input", "row 2: price: is empty"); err != nil {
		t.Fatalf("ErrorJSON error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body errorBody
	decodeJSON(t, rec, &body)
	if body.Error != "Bad input" || len(body.Details) != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestSetFailureCount(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(nil, req, rec)

	SetFailureCount(e, 3)
	if got := rec.Header().Get("X-Estimate-Failures"); got != "3" {
		t.Errorf("X-Estimate-Failures = %q, want 3", got)
	}
}

func TestFailureCode(t *testing.T) {
	key := services.CatalogKey{Name: "Panel A"}
	tests := []struct {
		err  error
		want string
	}{
		{&services.NotFoundError{Key: key}, "not_found"},
		{&services.ZeroQuantityError{Key: key}, "zero_quantity"},
		{&services.NegativeInputError{Key: key, Field: "width"}, "negative_input"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := failureCode(tt.err); got != tt.want {
				t.Errorf("failureCode(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestJoinedMessages(t *testing.T) {
	joined := errors.Join(errors.New("first"), errors.New("second"))
	if got := joinedMessages(joined); len(got) != 2 || got[0] != "first" {
		t.Errorf("joinedMessages(joined) = %v", got)
	}
	if got := joinedMessages(errors.New("single")); len(got) != 1 || got[0] != "single" {
		t.Errorf("joinedMessages(single) = %v", got)
	}
}
