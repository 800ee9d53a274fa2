package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

func sampleRows() []models.ExportResponsable {
	email := "jean.dupont@univ.fr"
	return []models.ExportResponsable{
		{Nom: "Dupont", Prenom: "Jean", EmailInstitutionnel: &email, Role: "Directeur de composante", Entite: "UFR Sciences", AnneeID: 1},
		{Nom: "Durand", Prenom: "Marie", Role: "Directeur de departement", Entite: "Informatique", AnneeID: 1},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "nom" || records[0][5] != "id_annee" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][2] != "jean.dupont@univ.fr" {
		t.Errorf("email not exported: %v", records[1])
	}
	if records[2][2] != "" {
		t.Errorf("missing email should export empty, got %q", records[2][2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var payload struct {
		Items []models.ExportResponsable `json:"items"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(payload.Items))
	}
	if payload.Items[0].Entite != "UFR Sciences" {
		t.Errorf("unexpected first item: %+v", payload.Items[0])
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"items":[]`) {
		t.Errorf("empty export should be an empty array, got %s", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, sampleRows()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Responsables")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Dupont" || rows[1][4] != "UFR Sciences" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "pdf", nil); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if ContentType("pdf") != "" {
		t.Error("unknown format should have no content type")
	}
}
