package models

import "time"

// JournalAudit is one audit trail entry. Writes to this table are best-effort:
// a failed audit insert must never fail the operation it describes.
type JournalAudit struct {
	ID              int64     `json:"id_audit" db:"id_audit"`
	UserAuteurID    int64     `json:"id_user_auteur" db:"id_user_auteur"`
	TypeAction      string    `json:"type_action" db:"type_action"`
	CibleType       string    `json:"cible_type" db:"cible_type"`
	CibleID         *string   `json:"cible_id" db:"cible_id"`
	AncienneValeur  *string   `json:"ancienne_valeur" db:"ancienne_valeur"`
	NouvelleValeur  *string   `json:"nouvelle_valeur" db:"nouvelle_valeur"`
	DateAction      time.Time `json:"date_action" db:"date_action"`
}
