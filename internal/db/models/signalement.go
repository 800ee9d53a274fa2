package models

import "time"

// Signalement statuses. The lifecycle is OUVERT → EN_COURS → CLOTURE.
const (
	SignalementStatutOuvert  = "OUVERT"
	SignalementStatutEnCours = "EN_COURS"
	SignalementStatutCloture = "CLOTURE"
)

// Signalement is an error-report ticket against the directory data. Moving to
// EN_COURS stamps the handler, moving to CLOTURE stamps the closer; both carry
// an optional free-text comment taken from the transition payload.
type Signalement struct {
	ID                        int64      `json:"id_signalement" db:"id_signalement"`
	AuteurID                  int64      `json:"auteur_id" db:"auteur_id"`
	TraitantID                *int64     `json:"traitant_id" db:"traitant_id"`
	ClotureParID              *int64     `json:"cloture_par_id" db:"cloture_par_id"`
	EntiteCibleID             *int64     `json:"id_entite_cible" db:"id_entite_cible"`
	Description               string     `json:"description" db:"description"`
	Statut                    string     `json:"statut" db:"statut"`
	DateCreation              time.Time  `json:"date_creation" db:"date_creation"`
	DatePriseEnCharge         *time.Time `json:"date_prise_en_charge" db:"date_prise_en_charge"`
	DateTraitement            *time.Time `json:"date_traitement" db:"date_traitement"`
	CommentairePriseEnCharge  *string    `json:"commentaire_prise_en_charge" db:"commentaire_prise_en_charge"`
	CommentaireCloture        *string    `json:"commentaire_cloture" db:"commentaire_cloture"`
	AuteurNom                 *string    `json:"auteur_nom" db:"auteur_nom"`
	AuteurPrenom              *string    `json:"auteur_prenom" db:"auteur_prenom"`
	TraitantNom               *string    `json:"traitant_nom" db:"traitant_nom"`
	TraitantPrenom            *string    `json:"traitant_prenom" db:"traitant_prenom"`
	ClotureNom                *string    `json:"cloture_nom" db:"cloture_nom"`
	CloturePrenom             *string    `json:"cloture_prenom" db:"cloture_prenom"`
}
