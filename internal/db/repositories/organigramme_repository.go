// organigramme_repository.go implements OrganigrammeRepository, the query layer
// for snapshot metadata. Only metadata lives here; the tree is rebuilt live by
// the hierarchy package and is never persisted.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// OrganigrammeRepository handles database operations for organigramme snapshots
type OrganigrammeRepository struct {
	db *sql.DB
}

// NewOrganigrammeRepository creates a new organigramme repository
func NewOrganigrammeRepository(db *sql.DB) *OrganigrammeRepository {
	return &OrganigrammeRepository{db: db}
}

const organigrammeColumns = `id_organigramme, id_annee, id_entite_racine, generated_by,
	generated_at, est_fige, export_path, export_format, visibility_scope`

func scanOrganigramme(scan func(dest ...any) error) (*models.Organigramme, error) {
	o := &models.Organigramme{}
	err := scan(&o.ID, &o.AnneeID, &o.RacineID, &o.GeneratedBy,
		&o.GeneratedAt, &o.EstFige, &o.ExportPath, &o.ExportFormat, &o.VisibilityScope)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Create inserts a new snapshot row. Every generation creates a fresh row:
// history is append-only, never overwritten.
func (r *OrganigrammeRepository) Create(ctx context.Context, o *models.Organigramme) error {
	query := `
		INSERT INTO organigramme (id_annee, id_entite_racine, generated_by)
		VALUES ($1, $2, $3)
		RETURNING ` + organigrammeColumns

	created, err := scanOrganigramme(r.db.QueryRowContext(ctx, query, o.AnneeID, o.RacineID, o.GeneratedBy).Scan)
	if err != nil {
		return fmt.Errorf("failed to create organigramme: %w", err)
	}
	*o = *created
	return nil
}

// GetByID retrieves one snapshot by id
func (r *OrganigrammeRepository) GetByID(ctx context.Context, id int64) (*models.Organigramme, error) {
	query := `SELECT ` + organigrammeColumns + ` FROM organigramme WHERE id_organigramme = $1`

	o, err := scanOrganigramme(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get organigramme: %w", err)
	}
	return o, nil
}

// GetLatestByYear retrieves the most recently generated snapshot for a year,
// or nil when the year has none. Ties on generated_at are broken arbitrarily;
// row id is not a defined tiebreak.
func (r *OrganigrammeRepository) GetLatestByYear(ctx context.Context, yearID int64) (*models.Organigramme, error) {
	query := `SELECT ` + organigrammeColumns + ` FROM organigramme
		WHERE id_annee = $1
		ORDER BY generated_at DESC
		LIMIT 1`

	o, err := scanOrganigramme(r.db.QueryRowContext(ctx, query, yearID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get latest organigramme: %w", err)
	}
	return o, nil
}

// List retrieves snapshots newest first, optionally restricted to one year
func (r *OrganigrammeRepository) List(ctx context.Context, yearID *int64) ([]*models.Organigramme, error) {
	query := `SELECT ` + organigrammeColumns + ` FROM organigramme
		WHERE ($1::bigint IS NULL OR id_annee = $1)
		ORDER BY generated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organigrammes: %w", err)
	}
	defer rows.Close()

	var organigrammes []*models.Organigramme
	for rows.Next() {
		o, err := scanOrganigramme(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organigramme: %w", err)
		}
		organigrammes = append(organigrammes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organigrammes: %w", err)
	}

	return organigrammes, nil
}

// Freeze sets est_fige unconditionally and returns the updated row, or nil
// when the id does not resolve. Freezing an already-frozen snapshot succeeds
// and leaves the row unchanged; nothing ever sets the flag back to false.
func (r *OrganigrammeRepository) Freeze(ctx context.Context, id int64) (*models.Organigramme, error) {
	query := `UPDATE organigramme SET est_fige = TRUE WHERE id_organigramme = $1
		RETURNING ` + organigrammeColumns

	o, err := scanOrganigramme(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to freeze organigramme: %w", err)
	}
	return o, nil
}
