package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
	"estimator/config"
	"estimator/handlers"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Warning: could not read .env: %v", err)
	}
	settings, err := config.Load()
	if err != nil {
		log.Printf("Warning: invalid settings, using defaults where needed: %v", err)
	}

	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if settings.SeedSampleCatalog {
			if err := collections.Seed(app); err != nil {
				log.Printf("Warning: seed data failed: %v", err)
			}
		}
		if err := collections.MigrateCatalogEntryKeys(app); err != nil {
			log.Printf("Warning: catalog key migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/api/unit-types", handlers.HandleUnitTypes())

		// ── Catalogs ─────────────────────────────────────────────
		se.Router.GET("/catalogs", handlers.HandleCatalogList(app))
		se.Router.GET("/catalogs/template", handlers.HandleCatalogTemplate())
		se.Router.POST("/catalogs/import", handlers.HandleCatalogImport(app, settings))
		se.Router.POST("/catalogs/validate", handlers.HandleCatalogValidate(settings))
		se.Router.POST("/catalogs/validate/errors", handlers.HandleCatalogErrorReport(settings))
		se.Router.GET("/catalogs/{id}/keys", handlers.HandleCatalogKeys(app)).
			BindFunc(handlers.RequireCatalog(app))
		se.Router.DELETE("/catalogs/{id}", handlers.HandleCatalogDelete(app)).
			BindFunc(handlers.RequireCatalog(app))

		// ── Estimates ────────────────────────────────────────────
		se.Router.POST("/catalogs/{id}/estimate", handlers.HandleEstimate(app, settings)).
			BindFunc(handlers.RequireCatalog(app))
		se.Router.POST("/catalogs/{id}/estimate/excel", handlers.HandleEstimateExportExcel(app, settings)).
			BindFunc(handlers.RequireCatalog(app))
		se.Router.POST("/catalogs/{id}/estimate/pdf", handlers.HandleEstimateExportPDF(app, settings)).
			BindFunc(handlers.RequireCatalog(app))

		// Redirect home to catalog list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/catalogs")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
