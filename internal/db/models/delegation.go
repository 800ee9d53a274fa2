package models

// Delegation statuses.
const (
	DelegationStatutActive  = "ACTIVE"
	DelegationStatutAnnulee = "ANNULEE"
	DelegationStatutExpiree = "EXPIREE"
)

// Delegable rights. TypeDroit on a delegation must be one of these.
const (
	DroitView               = "view"
	DroitManageResponsibles = "manage-responsibles"
	DroitAssignRole         = "assign-role"
	DroitDelegate           = "delegate"
	DroitGenerateOrg        = "generate-org"
	DroitExportData         = "export-data"
	DroitImportData         = "import-data"
	DroitAuditView          = "audit-view"
)

// AllDroits lists the delegable rights in declaration order.
func AllDroits() []string {
	return []string{
		DroitView,
		DroitManageResponsibles,
		DroitAssignRole,
		DroitDelegate,
		DroitGenerateOrg,
		DroitExportData,
		DroitImportData,
		DroitAuditView,
	}
}

// Delegation is a time-bounded grant of one named right from one user
// (delegant) to another (delegataire), scoped to a single entity.
type Delegation struct {
	ID             int64   `json:"id_delegation" db:"id_delegation"`
	DelegantID     int64   `json:"delegant_id" db:"delegant_id"`
	DelegataireID  int64   `json:"delegataire_id" db:"delegataire_id"`
	EntiteID       int64   `json:"id_entite" db:"id_entite"`
	RoleID         *string `json:"id_role" db:"id_role"`
	TypeDroit      *string `json:"type_droit" db:"type_droit"`
	DateDebut      string  `json:"date_debut" db:"date_debut"`
	DateFin        *string `json:"date_fin" db:"date_fin"`
	Statut         string  `json:"statut" db:"statut"`
	DelegantNom    *string `json:"delegant_nom" db:"delegant_nom"`
	DelegataireNom *string `json:"delegataire_nom" db:"delegataire_nom"`
	EntiteNom      *string `json:"entite_nom" db:"entite_nom"`
}
