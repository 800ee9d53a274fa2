// Package models defines the row structs for the annuaire database tables.
// Field names follow the institutional schema (French identifiers) so the JSON
// wire format matches what the frontend and the seed tooling already expect.
package models

// Utilisateur represents a directory account.
type Utilisateur struct {
	ID                  int64   `json:"id_user" db:"id_user"`
	Login               string  `json:"login" db:"login"`
	Nom                 string  `json:"nom" db:"nom"`
	Prenom              string  `json:"prenom" db:"prenom"`
	EmailInstitutionnel *string `json:"email_institutionnel" db:"email_institutionnel"`
	Telephone           *string `json:"telephone" db:"telephone"`
	Bureau              *string `json:"bureau" db:"bureau"`
}

// UtilisateurRole is one row of the per-user role summary returned by the user
// listing endpoints: the role key plus the entity and year it applies to.
type UtilisateurRole struct {
	Role                string `json:"role"`
	Entite              string `json:"entite"`
	EntiteID            int64  `json:"id_entite"`
	AnneeID             int64  `json:"id_annee"`
	NiveauHierarchique  int    `json:"niveau_hierarchique"`
}

// UtilisateurWithRoles is a user together with the flattened role summary.
type UtilisateurWithRoles struct {
	Utilisateur
	Roles []UtilisateurRole `json:"roles"`
}
