package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// MigrateCatalogEntryKeys trims surrounding whitespace from stored entry names
// and notes, so entries saved before keys were normalized on import match
// lookups again. Safe to call on every startup -- returns early if nothing to
// migrate.
func MigrateCatalogEntryKeys(app core.App) error {
	entriesCol, err := app.FindCollectionByNameOrId("catalog_entries")
	if err != nil {
		return fmt.Errorf("migrate: could not find catalog_entries collection: %w", err)
	}

	records, err := app.FindAllRecords(entriesCol)
	if err != nil {
		return fmt.Errorf("migrate: could not query catalog entries: %w", err)
	}

	var stale []*core.Record
	for _, r := range records {
		name, note := r.GetString("name"), r.GetString("note")
		if name != strings.TrimSpace(name) || note != strings.TrimSpace(note) {
			stale = append(stale, r)
		}
	}
	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d catalog entr(ies) with untrimmed keys -- normalizing...\n", len(stale))

	for _, r := range stale {
		r.Set("name", strings.TrimSpace(r.GetString("name")))
		r.Set("note", strings.TrimSpace(r.GetString("note")))
		if err := app.Save(r); err != nil {
			log.Printf("migrate: failed to normalize entry %s: %v\n", r.Id, err)
			continue
		}
	}

	log.Println("migrate: catalog key migration complete.")
	return nil
}
