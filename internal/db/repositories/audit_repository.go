// audit_repository.go implements AuditRepository for the journal_audit table.
// Callers treat writes as best-effort; the repository itself reports errors
// normally and the audit recorder above it decides to swallow them.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// AuditRepository handles database operations for audit log entries
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts a new audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.JournalAudit) error {
	query := `
		INSERT INTO journal_audit (id_user_auteur, type_action, cible_type, cible_id, ancienne_valeur, nouvelle_valeur)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, entry.UserAuteurID, entry.TypeAction, entry.CibleType,
		entry.CibleID, entry.AncienneValeur, entry.NouvelleValeur)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent audit entries, newest first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]*models.JournalAudit, error) {
	query := `
		SELECT id_audit, id_user_auteur, type_action, cible_type, cible_id,
		       ancienne_valeur, nouvelle_valeur, date_action
		FROM journal_audit
		ORDER BY date_action DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalAudit
	for rows.Next() {
		e := &models.JournalAudit{}
		if err := rows.Scan(&e.ID, &e.UserAuteurID, &e.TypeAction, &e.CibleType, &e.CibleID,
			&e.AncienneValeur, &e.NouvelleValeur, &e.DateAction); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}
