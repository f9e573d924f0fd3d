// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestCatalog creates an empty catalog record with the given name and returns it.
func CreateTestCatalog(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalogs")
	if err != nil {
		t.Fatalf("failed to find catalogs collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("source_file", "test.csv")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog: %v", err)
	}

	return record
}

// CreateTestCatalogEntry creates a catalog entry linked to a catalog and returns it.
// Entries are ordered by sortOrder when the catalog is loaded.
func CreateTestCatalogEntry(t *testing.T, app *pocketbase.PocketBase, catalogID string, sortOrder int, name, note, price, unit string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("catalog_entries")
	if err != nil {
		t.Fatalf("failed to find catalog_entries collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("catalog", catalogID)
	record.Set("sort_order", sortOrder)
	record.Set("source_line", sortOrder+1)
	record.Set("name", name)
	record.Set("note", note)
	record.Set("price", price)
	record.Set("unit", unit)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test catalog entry: %v", err)
	}

	return record
}
