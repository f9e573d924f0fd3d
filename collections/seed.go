package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"estimator/services"
)

// SampleCatalogName names the catalog inserted by Seed.
const SampleCatalogName = "Sample price list"

// sampleRows is a small price list covering all three unit types.
var sampleRows = []services.CatalogRow{
	{Line: 2, Name: "Panel A", Price: "100", Unit: "pcs"},
	{Line: 3, Name: "Gypsum board", Note: "12.5 mm", Price: "2450", Unit: "m2"},
	{Line: 4, Name: "Gypsum board", Note: "9.5 mm", Price: "2100", Unit: "m2"},
	{Line: 5, Name: "Metal profile", Note: "CD 60x27", Price: "890", Unit: "m"},
	{Line: 6, Name: "Metal profile", Note: "UD 28x27", Price: "720", Unit: "m"},
	{Line: 7, Name: "Skirting board", Price: "1150.50", Unit: "m"},
	{Line: 8, Name: "Ceramic tile", Note: "30x60", Price: "6800", Unit: "m2"},
	{Line: 9, Name: "Door installation", Price: "15000", Unit: "pcs"},
}

// Seed inserts a sample catalog. It is safe to call on every startup because
// it returns early if any catalog records already exist.
func Seed(app core.App) error {
	catalogsCol, err := app.FindCollectionByNameOrId("catalogs")
	if err != nil {
		return fmt.Errorf("seed: could not find catalogs collection: %w", err)
	}
	existing, err := app.FindAllRecords(catalogsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query catalogs: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: catalogs collection is empty – inserting sample price list …")

	record, _, err := services.SaveCatalog(app, SampleCatalogName, "seed", sampleRows)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	log.Printf("seed: created catalog %q (%s) with %d entries\n", SampleCatalogName, record.Id, len(sampleRows))
	return nil
}
