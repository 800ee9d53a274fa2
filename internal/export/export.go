// Package export serializes the directory's responsable listing into the
// formats the administration consumes: CSV for spreadsheets, JSON for tooling,
// XLSX for the services centraux who want a ready-made workbook. Nothing is
// persisted; every export is built on the fly and streamed into the response.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// header is the column order shared by all tabular formats.
var header = []string{"nom", "prenom", "email_institutionnel", "role", "entite", "id_annee"}

// ContentType returns the MIME type for a format, or "" when the format is
// unknown.
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return ""
}

// Write serializes rows in the given format.
func Write(w io.Writer, format string, rows []models.ExportResponsable) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("unsupported export format: %s", format)
}

// WriteCSV writes rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []models.ExportResponsable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		email := ""
		if row.EmailInstitutionnel != nil {
			email = *row.EmailInstitutionnel
		}
		record := []string{row.Nom, row.Prenom, email, row.Role, row.Entite, strconv.FormatInt(row.AnneeID, 10)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes rows as {"items": [...]}, matching the listing endpoints.
func WriteJSON(w io.Writer, rows []models.ExportResponsable) error {
	if rows == nil {
		rows = []models.ExportResponsable{}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(map[string]any{"items": rows}); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}
	return nil
}

// WriteXLSX writes rows as a single-sheet workbook named Responsables.
func WriteXLSX(w io.Writer, rows []models.ExportResponsable) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Responsables"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for i, row := range rows {
		email := ""
		if row.EmailInstitutionnel != nil {
			email = *row.EmailInstitutionnel
		}
		values := []any{row.Nom, row.Prenom, email, row.Role, row.Entite, row.AnneeID}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
