package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/config"
	"estimator/services"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

// serveCatalogRoute runs RequireCatalog and, if it let the request through,
// the handler, mirroring a route registered with the middleware.
func serveCatalogRoute(t *testing.T, app *pocketbase.PocketBase, handler func(*core.RequestEvent) error, method, catalogID string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/catalogs/"+catalogID, body)
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", catalogID)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := RequireCatalog(app)(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if _, ok := GetCatalog(e.Request); !ok {
		return rec
	}
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// seedPanelCatalog stores a catalog holding Panel A at 100 per piece and a
// glass sheet priced per square meter.
func seedPanelCatalog(t *testing.T, app *pocketbase.PocketBase) string {
	t.Helper()
	record, _, err := services.SaveCatalog(app, "Panels", "panels.csv", []services.CatalogRow{
		{Line: 2, Name: "Panel A", Price: "100", Unit: "pcs"},
		{Line: 3, Name: "Glass", Note: "tempered", Price: "12000", Unit: "m2"},
	})
	if err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	return record.Id
}

func testSettings() config.Settings {
	return config.Default()
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
}
