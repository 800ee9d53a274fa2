package models

import "time"

// Organigramme is the metadata record for one generated organizational chart.
// The tree itself is never stored; it is rebuilt live from (AnneeID, RacineID)
// whenever the chart is requested. EstFige is a one-way flag: once true it is
// never reset by any operation.
type Organigramme struct {
	ID              int64     `json:"id_organigramme" db:"id_organigramme"`
	AnneeID         int64     `json:"id_annee" db:"id_annee"`
	RacineID        int64     `json:"id_entite_racine" db:"id_entite_racine"`
	GeneratedBy     int64     `json:"generated_by" db:"generated_by"`
	GeneratedAt     time.Time `json:"generated_at" db:"generated_at"`
	EstFige         bool      `json:"est_fige" db:"est_fige"`
	ExportPath      *string   `json:"export_path" db:"export_path"`
	ExportFormat    string    `json:"export_format" db:"export_format"`
	VisibilityScope *string   `json:"visibility_scope" db:"visibility_scope"`
}
