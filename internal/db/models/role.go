package models

// Role is one entry of the fixed role vocabulary. The primary key is the role
// string itself (e.g. "directeur-composante"); NiveauHierarchique orders roles
// for display only and plays no part in permission decisions.
type Role struct {
	ID                 string `json:"id_role" db:"id_role"`
	Libelle            string `json:"libelle" db:"libelle"`
	NiveauHierarchique int    `json:"niveau_hierarchique" db:"niveau_hierarchique"`
}
