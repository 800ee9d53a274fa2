package models

// AffectationDetail is an affectation joined with its role, entity, and year
// labels, as loaded when resolving a request identity.
type AffectationDetail struct {
	Affectation
	RoleLibelle  *string `json:"role_libelle" db:"role_libelle"`
	EntiteType   *string `json:"entite_type" db:"entite_type"`
	EntiteNom    *string `json:"entite_nom" db:"entite_nom"`
	AnneeLibelle *string `json:"annee_libelle" db:"annee_libelle"`
}
