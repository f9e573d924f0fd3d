package collections_test

import (
	"testing"

	"estimator/collections"
	"estimator/testhelpers"
)

func TestSetup_CreatesCollections(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	wantFields := map[string][]string{
		"catalogs":        {"name", "source_file", "row_count", "created", "updated"},
		"catalog_entries": {"catalog", "sort_order", "source_line", "name", "note", "price", "unit"},
	}
	for name, fields := range wantFields {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Fatalf("collection %q not found: %v", name, err)
		}
		for _, f := range fields {
			if col.Fields.GetByName(f) == nil {
				t.Errorf("collection %q is missing field %q", name, f)
			}
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	before, _ := app.FindCollectionByNameOrId("catalogs")
	collections.Setup(app)
	after, err := app.FindCollectionByNameOrId("catalogs")
	if err != nil {
		t.Fatalf("catalogs collection lost after second Setup: %v", err)
	}
	if before.Id != after.Id {
		t.Errorf("collection id changed from %q to %q", before.Id, after.Id)
	}
}
