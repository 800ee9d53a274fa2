package models

// Affectation grants a role to a user for one entity in one academic year,
// valid over [DateDebut, DateFin]; a NULL end date means the grant is open
// ended. The tuple (user, role, entity, year) is not unique — duplicate rows
// are allowed and each one shows up independently in the organigramme.
type Affectation struct {
	ID        int64   `json:"id_affectation" db:"id_affectation"`
	UserID    int64   `json:"id_user" db:"id_user"`
	RoleID    string  `json:"id_role" db:"id_role"`
	EntiteID  int64   `json:"id_entite" db:"id_entite"`
	AnneeID   int64   `json:"id_annee" db:"id_annee"`
	DateDebut string  `json:"date_debut" db:"date_debut"`
	DateFin   *string `json:"date_fin" db:"date_fin"`
}

// AffectationResponsable is an affectation row joined with the holder's
// identity, as attached to organigramme tree nodes.
type AffectationResponsable struct {
	EntiteID            int64   `json:"-" db:"id_entite"`
	Nom                 string  `json:"nom" db:"nom"`
	Prenom              string  `json:"prenom" db:"prenom"`
	EmailInstitutionnel *string `json:"email_institutionnel" db:"email_institutionnel"`
	RoleID              string  `json:"id_role" db:"id_role"`
}
