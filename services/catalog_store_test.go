package services_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"estimator/services"
	"estimator/testhelpers"
)

func TestSaveCatalog_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []services.CatalogRow{
		{Line: 2, Name: " Panel A ", Price: "100", Unit: "pcs"},
		{Line: 3, Name: "Gypsum board", Note: "12.5 mm", Price: "2 450,50", Unit: "m2"},
		{Line: 4, Name: "Panel A", Price: "120"},
	}

	record, idx, err := services.SaveCatalog(app, "Supplier A", "prices.csv", rows)
	if err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}
	if record.GetInt("row_count") != 3 {
		t.Errorf("row_count = %d, want 3", record.GetInt("row_count"))
	}
	if len(idx.Duplicates()) != 1 {
		t.Errorf("Duplicates() = %v, want one entry", idx.Duplicates())
	}

	loaded, err := services.LoadCatalogIndex(app, record.Id)
	if err != nil {
		t.Fatalf("LoadCatalogIndex() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Errorf("Len() = %d, want 2", loaded.Len())
	}

	panel, ok := loaded.Lookup(services.CatalogKey{Name: "Panel A"})
	if !ok || !panel.Price.Equal(decimal.NewFromInt(120)) {
		t.Errorf("Panel A = %+v, found=%v; want last row price 120", panel, ok)
	}
	gypsum, ok := loaded.Lookup(services.CatalogKey{Name: "Gypsum board", Note: "12.5 mm"})
	if !ok || !gypsum.Price.Equal(decimal.RequireFromString("2450.5")) {
		t.Errorf("gypsum = %+v, found=%v", gypsum, ok)
	}

	dups := loaded.Duplicates()
	if len(dups) != 1 || dups[0].FirstRow != 2 || dups[0].Row != 4 {
		t.Errorf("reloaded duplicates = %+v, want source rows 2 and 4", dups)
	}
}

func TestSaveCatalog_MalformedWritesNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, _, err := services.SaveCatalog(app, "Broken", "broken.csv", []services.CatalogRow{
		{Line: 2, Name: "Panel A", Price: "100"},
		{Line: 3, Name: "Panel B", Price: "abc"},
	})
	if !errors.Is(err, services.ErrMalformedCatalogRow) {
		t.Fatalf("error = %v, want ErrMalformedCatalogRow", err)
	}

	catalogs, err := services.ListCatalogs(app)
	if err != nil {
		t.Fatalf("ListCatalogs() error = %v", err)
	}
	if len(catalogs) != 0 {
		t.Errorf("got %d catalogs, want none after a rejected import", len(catalogs))
	}
}

func TestLoadCatalogRows_Order(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cat := testhelpers.CreateTestCatalog(t, app, "Manual")
	testhelpers.CreateTestCatalogEntry(t, app, cat.Id, 2, "Second", "", "20", "pcs")
	testhelpers.CreateTestCatalogEntry(t, app, cat.Id, 1, "First", "", "10", "pcs")

	rows, err := services.LoadCatalogRows(app, cat.Id)
	if err != nil {
		t.Fatalf("LoadCatalogRows() error = %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "First" || rows[1].Name != "Second" {
		t.Errorf("rows = %+v, want sort_order order", rows)
	}
}

func TestLoadCatalogIndex_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	if _, err := services.LoadCatalogIndex(app, "nonexistent"); !errors.Is(err, services.ErrCatalogNotFound) {
		t.Errorf("error = %v, want ErrCatalogNotFound", err)
	}
}

func TestFindCatalog(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cat := testhelpers.CreateTestCatalog(t, app, "Supplier B")

	info, err := services.FindCatalog(app, cat.Id)
	if err != nil {
		t.Fatalf("FindCatalog() error = %v", err)
	}
	if info.Name != "Supplier B" || info.SourceFile != "test.csv" {
		t.Errorf("info = %+v", info)
	}

	if _, err := services.FindCatalog(app, "missing"); !errors.Is(err, services.ErrCatalogNotFound) {
		t.Errorf("error = %v, want ErrCatalogNotFound", err)
	}
}

func TestListCatalogs(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalog(t, app, "One")
	testhelpers.CreateTestCatalog(t, app, "Two")

	catalogs, err := services.ListCatalogs(app)
	if err != nil {
		t.Fatalf("ListCatalogs() error = %v", err)
	}
	if len(catalogs) != 2 {
		t.Fatalf("got %d catalogs, want 2", len(catalogs))
	}
	for _, c := range catalogs {
		if c.ID == "" || c.Created == "" {
			t.Errorf("catalog %+v missing id or created date", c)
		}
	}
}

func TestDeleteCatalog_CascadesEntries(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	record, _, err := services.SaveCatalog(app, "Temp", "t.csv", []services.CatalogRow{
		{Line: 2, Name: "Panel A", Price: "100"},
	})
	if err != nil {
		t.Fatalf("SaveCatalog() error = %v", err)
	}

	if err := app.Delete(record); err != nil {
		t.Fatalf("Delete error = %v", err)
	}

	entries, err := app.FindAllRecords("catalog_entries")
	if err != nil {
		t.Fatalf("FindAllRecords error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries after delete, want 0", len(entries))
	}
}
