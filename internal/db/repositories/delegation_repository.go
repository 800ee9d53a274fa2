// delegation_repository.go implements DelegationRepository. Revoke is an
// unconditional update: it does not check the current status, so re-revoking
// an already-cancelled delegation overwrites its end date again.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// DelegationRepository handles database operations for delegations
type DelegationRepository struct {
	db *sql.DB
}

// NewDelegationRepository creates a new delegation repository
func NewDelegationRepository(db *sql.DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

const delegationSelect = `
	SELECT d.id_delegation, d.delegant_id, d.delegataire_id, d.id_entite, d.id_role, d.type_droit,
	       to_char(d.date_debut, 'YYYY-MM-DD'), to_char(d.date_fin, 'YYYY-MM-DD'), d.statut,
	       ud.nom, ub.nom, e.nom
	FROM delegation d
	LEFT JOIN utilisateur ud ON ud.id_user = d.delegant_id
	LEFT JOIN utilisateur ub ON ub.id_user = d.delegataire_id
	LEFT JOIN entite_structure e ON e.id_entite = d.id_entite
`

func scanDelegation(scan func(dest ...any) error) (*models.Delegation, error) {
	d := &models.Delegation{}
	err := scan(&d.ID, &d.DelegantID, &d.DelegataireID, &d.EntiteID, &d.RoleID, &d.TypeDroit,
		&d.DateDebut, &d.DateFin, &d.Statut,
		&d.DelegantNom, &d.DelegataireNom, &d.EntiteNom)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Create inserts a new delegation with status ACTIVE and fills in the
// generated id
func (r *DelegationRepository) Create(ctx context.Context, d *models.Delegation) error {
	query := `
		INSERT INTO delegation (delegant_id, delegataire_id, id_entite, id_role, type_droit, date_debut, date_fin)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7::date)
		RETURNING id_delegation, statut
	`

	err := r.db.QueryRowContext(ctx, query, d.DelegantID, d.DelegataireID, d.EntiteID,
		d.RoleID, d.TypeDroit, d.DateDebut, d.DateFin).Scan(&d.ID, &d.Statut)
	if err != nil {
		return fmt.Errorf("failed to create delegation: %w", err)
	}
	return nil
}

// GetByID retrieves one delegation by id with display names joined in
func (r *DelegationRepository) GetByID(ctx context.Context, id int64) (*models.Delegation, error) {
	query := delegationSelect + ` WHERE d.id_delegation = $1`

	d, err := scanDelegation(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get delegation: %w", err)
	}
	return d, nil
}

// List retrieves delegations newest first
func (r *DelegationRepository) List(ctx context.Context) ([]*models.Delegation, error) {
	query := delegationSelect + ` ORDER BY d.date_debut DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	defer rows.Close()

	var delegations []*models.Delegation
	for rows.Next() {
		d, err := scanDelegation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delegation: %w", err)
		}
		delegations = append(delegations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate delegations: %w", err)
	}

	return delegations, nil
}

// Revoke sets statut=ANNULEE and date_fin=NOW() unconditionally, returning
// whether a row was updated. The previous status is not consulted.
func (r *DelegationRepository) Revoke(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE delegation SET statut = 'ANNULEE', date_fin = NOW() WHERE id_delegation = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to revoke delegation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read revoke result: %w", err)
	}
	return affected > 0, nil
}
