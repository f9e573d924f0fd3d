package services

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase/core"
)

// CatalogInfo summarizes a stored catalog for listings.
type CatalogInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SourceFile string `json:"source_file"`
	RowCount   int    `json:"row_count"`
	Created    string `json:"created"`
}

// SaveCatalog validates rows and stores them as a new catalog in a single
// transaction. Nothing is written if any row is malformed. The returned index
// is built from the same rows, so its Duplicates reflect what was stored.
func SaveCatalog(app core.App, name, sourceFile string, rows []CatalogRow) (*core.Record, *CatalogIndex, error) {
	idx, err := BuildCatalog(rows)
	if err != nil {
		return nil, nil, err
	}

	catalogsCol, err := app.FindCollectionByNameOrId("catalogs")
	if err != nil {
		return nil, nil, fmt.Errorf("could not find catalogs collection: %w", err)
	}
	entriesCol, err := app.FindCollectionByNameOrId("catalog_entries")
	if err != nil {
		return nil, nil, fmt.Errorf("could not find catalog_entries collection: %w", err)
	}

	catalog := core.NewRecord(catalogsCol)
	err = app.RunInTransaction(func(txApp core.App) error {
		catalog.Set("name", name)
		catalog.Set("source_file", sourceFile)
		catalog.Set("row_count", len(rows))
		if err := txApp.Save(catalog); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}

		for i, row := range rows {
			key := NewCatalogKey(row.Name, row.Note)
			price, _ := ParseDecimal(row.Price) // validated by BuildCatalog

			r := core.NewRecord(entriesCol)
			r.Set("catalog", catalog.Id)
			r.Set("sort_order", i+1)
			r.Set("source_line", row.Line)
			r.Set("name", key.Name)
			r.Set("note", key.Note)
			r.Set("price", price.String())
			r.Set("unit", row.Unit)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("save entry at row %d: %w", row.Line, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return catalog, idx, nil
}

// LoadCatalogRows returns the stored rows of a catalog in their original order.
func LoadCatalogRows(app core.App, catalogID string) ([]CatalogRow, error) {
	if _, err := app.FindRecordById("catalogs", catalogID); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCatalogNotFound, catalogID, err)
	}

	records, err := app.FindRecordsByFilter(
		"catalog_entries",
		"catalog = {:catalogId}",
		"sort_order",
		0,
		0,
		map[string]any{"catalogId": catalogID},
	)
	if err != nil {
		return nil, fmt.Errorf("could not query catalog entries: %w", err)
	}

	rows := make([]CatalogRow, 0, len(records))
	for _, r := range records {
		line := r.GetInt("source_line")
		if line == 0 {
			line = r.GetInt("sort_order")
		}
		rows = append(rows, CatalogRow{
			Line:  line,
			Name:  r.GetString("name"),
			Note:  r.GetString("note"),
			Price: r.GetString("price"),
			Unit:  r.GetString("unit"),
		})
	}
	return rows, nil
}

// LoadCatalogIndex rebuilds the in-memory index of a stored catalog.
func LoadCatalogIndex(app core.App, catalogID string) (*CatalogIndex, error) {
	rows, err := LoadCatalogRows(app, catalogID)
	if err != nil {
		return nil, err
	}
	return BuildCatalog(rows)
}

// FindCatalog returns the summary of one stored catalog.
func FindCatalog(app core.App, catalogID string) (CatalogInfo, error) {
	r, err := app.FindRecordById("catalogs", catalogID)
	if err != nil {
		return CatalogInfo{}, fmt.Errorf("%w: %s: %v", ErrCatalogNotFound, catalogID, err)
	}
	return catalogInfo(r), nil
}

// ListCatalogs returns all stored catalogs, newest first.
func ListCatalogs(app core.App) ([]CatalogInfo, error) {
	records, err := app.FindAllRecords("catalogs")
	if err != nil {
		return nil, fmt.Errorf("could not query catalogs: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].GetDateTime("created").Time().After(records[j].GetDateTime("created").Time())
	})

	out := make([]CatalogInfo, 0, len(records))
	for _, r := range records {
		out = append(out, catalogInfo(r))
	}
	return out, nil
}

func catalogInfo(r *core.Record) CatalogInfo {
	created := ""
	if dt := r.GetDateTime("created"); !dt.IsZero() {
		created = dt.Time().Format("02 Jan 2006 15:04")
	}
	return CatalogInfo{
		ID:         r.Id,
		Name:       r.GetString("name"),
		SourceFile: r.GetString("source_file"),
		RowCount:   r.GetInt("row_count"),
		Created:    created,
	}
}
