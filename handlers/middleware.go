package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

type contextKey string

const CatalogContextKey contextKey = "catalog"

// GetCatalog extracts the catalog loaded by RequireCatalog from the request context.
func GetCatalog(r *http.Request) (services.CatalogInfo, bool) {
	val, ok := r.Context().Value(CatalogContextKey).(services.CatalogInfo)
	return val, ok
}

// RequireCatalog resolves the {id} path value to a stored catalog and stores
// its summary in the request context. Unknown ids get a 404 before the
// handler runs.
func RequireCatalog(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalogID := e.Request.PathValue("id")
		if catalogID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "Missing catalog ID")
		}

		info, err := services.FindCatalog(app, catalogID)
		if err != nil {
			if errors.Is(err, services.ErrCatalogNotFound) {
				log.Printf("middleware: catalog %s not found", catalogID)
				return ErrorJSON(e, http.StatusNotFound, "Catalog not found")
			}
			log.Printf("middleware: catalog %s: %v", catalogID, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		ctx := context.WithValue(e.Request.Context(), CatalogContextKey, info)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
