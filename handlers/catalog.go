package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"estimator/config"
	"estimator/services"
)

// CatalogImportResponse is returned after a price list was stored.
type CatalogImportResponse struct {
	Catalog    services.CatalogInfo    `json:"catalog"`
	Keys       int                     `json:"keys"`
	Duplicates []services.DuplicateKey `json:"duplicates"`
	Warnings   []string                `json:"warnings"`
}

// CatalogKeysResponse lists the lookup keys of one catalog.
type CatalogKeysResponse struct {
	Catalog services.CatalogInfo `json:"catalog"`
	Entries []catalogEntryView   `json:"entries"`
}

type catalogEntryView struct {
	services.PriceEntry
	Label        string `json:"label"`
	PriceDisplay string `json:"price_display"`
}

// HandleUnitTypes lists the unit types a line item may use.
// Route: GET /api/unit-types
func HandleUnitTypes() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, services.UnitTypeOptions)
	}
}

// HandleCatalogList returns all stored catalogs, newest first.
// Route: GET /catalogs
func HandleCatalogList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalogs, err := services.ListCatalogs(app)
		if err != nil {
			log.Printf("catalog_list: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return e.JSON(http.StatusOK, catalogs)
	}
}

// readCatalogUpload parses the multipart "file" field into catalog rows.
// On failure it has already written the error response and returns ok=false.
func readCatalogUpload(e *core.RequestEvent, settings config.Settings, logPrefix string) ([]services.CatalogRow, string, bool, error) {
	if err := e.Request.ParseMultipartForm(settings.MaxUploadBytes); err != nil {
		return nil, "", false, ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
	}

	file, header, err := e.Request.FormFile("file")
	if err != nil {
		return nil, "", false, ErrorJSON(e, http.StatusBadRequest, "Please select a file to upload")
	}
	defer file.Close()

	rows, err := services.ParseCatalogFile(file, header.Filename)
	if err != nil {
		log.Printf("%s: could not parse %s: %v", logPrefix, header.Filename, err)
		if errors.Is(err, services.ErrUnsupportedFormat) {
			return nil, "", false, ErrorJSON(e, http.StatusBadRequest, err.Error())
		}
		return nil, "", false, ErrorJSON(e, http.StatusUnprocessableEntity, "Could not read the price list", err.Error())
	}
	return rows, header.Filename, true, nil
}

// HandleCatalogImport receives a CSV or XLSX price list and stores it as a
// new catalog. A file with any malformed row is rejected as a whole.
// Route: POST /catalogs/import
func HandleCatalogImport(app *pocketbase.PocketBase, settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, fileName, ok, err := readCatalogUpload(e, settings, "catalog_import")
		if !ok {
			return err
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
		}

		record, idx, err := services.SaveCatalog(app, name, fileName, rows)
		if err != nil {
			if errors.Is(err, services.ErrMalformedCatalogRow) {
				log.Printf("catalog_import: %s rejected: %v", fileName, err)
				return ErrorJSON(e, http.StatusUnprocessableEntity, "The price list has malformed rows", joinedMessages(err)...)
			}
			log.Printf("catalog_import: could not save %s: %v", fileName, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		info, err := services.FindCatalog(app, record.Id)
		if err != nil {
			log.Printf("catalog_import: could not reload %s: %v", record.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		duplicates := idx.Duplicates()
		warnings := make([]string, 0, len(duplicates))
		for _, d := range duplicates {
			warnings = append(warnings, duplicateWarning(d))
		}
		log.Printf("catalog_import: stored %q with %d rows, %d keys, %d duplicates",
			name, len(rows), idx.Len(), len(duplicates))

		return e.JSON(http.StatusCreated, CatalogImportResponse{
			Catalog:    info,
			Keys:       idx.Len(),
			Duplicates: duplicates,
			Warnings:   warnings,
		})
	}
}

func duplicateWarning(d services.DuplicateKey) string {
	return fmt.Sprintf("row %d replaces row %d for %q", d.Row, d.FirstRow, d.Key.String())
}

// HandleCatalogValidate checks an uploaded price list without storing it.
// Route: POST /catalogs/validate
func HandleCatalogValidate(settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, fileName, ok, err := readCatalogUpload(e, settings, "catalog_validate")
		if !ok {
			return err
		}

		result := services.ValidateCatalogRows(rows)
		log.Printf("catalog_validate: %s: %d rows, %d with errors, %d duplicates",
			fileName, result.TotalRows, result.ErrorRows, len(result.Duplicates))
		return e.JSON(http.StatusOK, result)
	}
}

// HandleCatalogErrorReport validates an uploaded price list and downloads its
// row errors as a workbook.
// Route: POST /catalogs/validate/errors
func HandleCatalogErrorReport(settings config.Settings) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rows, fileName, ok, err := readCatalogUpload(e, settings, "catalog_errors")
		if !ok {
			return err
		}

		result := services.ValidateCatalogRows(rows)
		xlsxBytes, err := services.GenerateErrorReport(result.Errors)
		if err != nil {
			log.Printf("catalog_errors: failed to generate report for %s: %v", fileName, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate error report")
		}

		base := sanitizeFilename(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_errors.xlsx"`, base))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogTemplate downloads an empty price list workbook.
// Route: GET /catalogs/template
func HandleCatalogTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateCatalogTemplate()
		if err != nil {
			log.Printf("catalog_template: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="price_list_template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogKeys lists every lookup key of a catalog with its price.
// Route: GET /catalogs/{id}/keys
func HandleCatalogKeys(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		info, ok := GetCatalog(e.Request)
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Catalog not found")
		}

		idx, err := services.LoadCatalogIndex(app, info.ID)
		if err != nil {
			log.Printf("catalog_keys: %s: %v", info.ID, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to load catalog", joinedMessages(err)...)
		}

		entries := idx.Entries()
		views := make([]catalogEntryView, 0, len(entries))
		for _, entry := range entries {
			views = append(views, catalogEntryView{
				PriceEntry:   entry,
				Label:        entry.Key.String(),
				PriceDisplay: services.FormatTenge(entry.Price),
			})
		}

		return e.JSON(http.StatusOK, CatalogKeysResponse{Catalog: info, Entries: views})
	}
}

// HandleCatalogDelete removes a catalog. Its entries go with it via cascade.
// Route: DELETE /catalogs/{id}
func HandleCatalogDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		info, ok := GetCatalog(e.Request)
		if !ok {
			return ErrorJSON(e, http.StatusNotFound, "Catalog not found")
		}

		record, err := app.FindRecordById("catalogs", info.ID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "Catalog not found")
		}
		if err := app.Delete(record); err != nil {
			log.Printf("catalog_delete: error deleting %s: %v", info.ID, err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		log.Printf("catalog_delete: removed %q (%s)", info.Name, info.ID)
		return e.NoContent(http.StatusNoContent)
	}
}
