package models

// ExportResponsable is one flattened line of the directory export: the holder
// of an affectation with the role and entity resolved to display labels.
type ExportResponsable struct {
	Nom                 string  `json:"nom" db:"nom"`
	Prenom              string  `json:"prenom" db:"prenom"`
	EmailInstitutionnel *string `json:"email_institutionnel" db:"email_institutionnel"`
	Role                string  `json:"role" db:"role"`
	Entite              string  `json:"entite" db:"entite"`
	AnneeID             int64   `json:"id_annee" db:"id_annee"`
}
