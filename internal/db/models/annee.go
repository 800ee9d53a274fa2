package models

// Academic year lifecycle states.
const (
	AnneeStatutPreparation = "PREPARATION"
	AnneeStatutActive      = "ACTIVE"
	AnneeStatutArchivee    = "ARCHIVEE"
)

// AnneeUniversitaire represents one academic year. Every organizational entity,
// affectation, and organigramme is scoped to exactly one year; cloning a year is
// how a new campaign starts from the previous structure.
type AnneeUniversitaire struct {
	ID            int64   `json:"id_annee" db:"id_annee"`
	Libelle       string  `json:"libelle" db:"libelle"`
	DateDebut     string  `json:"date_debut" db:"date_debut"`
	DateFin       string  `json:"date_fin" db:"date_fin"`
	Statut        string  `json:"statut" db:"statut"`
	AnneeSourceID *int64  `json:"id_annee_source" db:"id_annee_source"`
}
