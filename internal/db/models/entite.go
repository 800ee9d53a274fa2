package models

// Organizational entity types, from the top of the hierarchy down.
const (
	EntiteTypeComposante  = "COMPOSANTE"
	EntiteTypeDepartement = "DEPARTEMENT"
	EntiteTypeMention     = "MENTION"
	EntiteTypeParcours    = "PARCOURS"
	EntiteTypeNiveau      = "NIVEAU"
)

// EntiteStructure represents one organizational unit, scoped to a single
// academic year. ParentID is a self-reference within the same year; a NULL
// parent marks a root candidate. The schema does not enforce that a parent
// belongs to the same year, so readers must tolerate cross-year pointers.
type EntiteStructure struct {
	ID            int64   `json:"id_entite" db:"id_entite"`
	AnneeID       int64   `json:"id_annee" db:"id_annee"`
	ParentID      *int64  `json:"id_entite_parent" db:"id_entite_parent"`
	TypeEntite    string  `json:"type_entite" db:"type_entite"`
	Nom           string  `json:"nom" db:"nom"`
	TelService    *string `json:"tel_service" db:"tel_service"`
	BureauService *string `json:"bureau_service" db:"bureau_service"`
}
