// affectation_repository.go implements AffectationRepository, the query layer
// for role assignments: creation, per-user detail loading for session
// resolution, and the per-year responsable lookup used by the tree builder.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// AffectationRepository handles database operations for affectations
type AffectationRepository struct {
	db *sql.DB
}

// NewAffectationRepository creates a new affectation repository
func NewAffectationRepository(db *sql.DB) *AffectationRepository {
	return &AffectationRepository{db: db}
}

// Create inserts a new affectation and fills in the generated id. Duplicate
// (user, role, entity, year) tuples are accepted; the schema carries no unique
// constraint and each row counts independently in the organigramme.
func (r *AffectationRepository) Create(ctx context.Context, a *models.Affectation) error {
	query := `
		INSERT INTO affectation (id_user, id_role, id_entite, id_annee, date_debut, date_fin)
		VALUES ($1, $2, $3, $4, $5::date, $6::date)
		RETURNING id_affectation
	`

	err := r.db.QueryRowContext(ctx, query, a.UserID, a.RoleID, a.EntiteID, a.AnneeID, a.DateDebut, a.DateFin).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create affectation: %w", err)
	}
	return nil
}

// ListDetailsByUser returns every affectation held by one user across all
// years, with role, entity, and year labels joined in. This is the query
// behind CurrentUser resolution and runs once per authenticated request.
func (r *AffectationRepository) ListDetailsByUser(ctx context.Context, userID int64) ([]models.AffectationDetail, error) {
	query := `
		SELECT a.id_affectation, a.id_user, a.id_role, a.id_entite, a.id_annee,
		       to_char(a.date_debut, 'YYYY-MM-DD'), to_char(a.date_fin, 'YYYY-MM-DD'),
		       ro.libelle, e.type_entite, e.nom, an.libelle
		FROM affectation a
		LEFT JOIN role ro ON ro.id_role = a.id_role
		LEFT JOIN entite_structure e ON e.id_entite = a.id_entite
		LEFT JOIN annee_universitaire an ON an.id_annee = a.id_annee
		WHERE a.id_user = $1
		ORDER BY a.id_affectation ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list affectation details: %w", err)
	}
	defer rows.Close()

	var details []models.AffectationDetail
	for rows.Next() {
		var d models.AffectationDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.RoleID, &d.EntiteID, &d.AnneeID,
			&d.DateDebut, &d.DateFin,
			&d.RoleLibelle, &d.EntiteType, &d.EntiteNom, &d.AnneeLibelle); err != nil {
			return nil, fmt.Errorf("failed to scan affectation detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate affectation details: %w", err)
	}

	return details, nil
}

// ListExportRows returns the flattened export lines, optionally restricted to
// one year. Role and entity resolve to display labels, falling back to the raw
// role key and a synthetic entity label when the join comes back empty.
func (r *AffectationRepository) ListExportRows(ctx context.Context, yearID *int64) ([]models.ExportResponsable, error) {
	query := `
		SELECT u.nom, u.prenom, u.email_institutionnel,
		       COALESCE(ro.libelle, a.id_role), COALESCE(e.nom, 'Entite ' || a.id_entite), a.id_annee
		FROM affectation a
		JOIN utilisateur u ON u.id_user = a.id_user
		LEFT JOIN role ro ON ro.id_role = a.id_role
		LEFT JOIN entite_structure e ON e.id_entite = a.id_entite
		WHERE ($1::bigint IS NULL OR a.id_annee = $1)
		ORDER BY a.id_affectation ASC
	`

	rows, err := r.db.QueryContext(ctx, query, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export rows: %w", err)
	}
	defer rows.Close()

	var result []models.ExportResponsable
	for rows.Next() {
		var row models.ExportResponsable
		if err := rows.Scan(&row.Nom, &row.Prenom, &row.EmailInstitutionnel, &row.Role, &row.Entite, &row.AnneeID); err != nil {
			return nil, fmt.Errorf("failed to scan export row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export rows: %w", err)
	}

	return result, nil
}

// ListResponsablesByYearAndEntities returns the responsable rows for a year,
// limited to the given entities, joined with the holder's identity. One row
// per affectation: duplicates are preserved, not collapsed.
func (r *AffectationRepository) ListResponsablesByYearAndEntities(ctx context.Context, yearID int64, entiteIDs []int64) ([]models.AffectationResponsable, error) {
	if len(entiteIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT a.id_entite, u.nom, u.prenom, u.email_institutionnel, a.id_role
		FROM affectation a
		JOIN utilisateur u ON u.id_user = a.id_user
		WHERE a.id_annee = $1 AND a.id_entite = ANY($2)
		ORDER BY a.id_affectation ASC
	`

	rows, err := r.db.QueryContext(ctx, query, yearID, pq.Array(entiteIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list responsables: %w", err)
	}
	defer rows.Close()

	var responsables []models.AffectationResponsable
	for rows.Next() {
		var resp models.AffectationResponsable
		if err := rows.Scan(&resp.EntiteID, &resp.Nom, &resp.Prenom, &resp.EmailInstitutionnel, &resp.RoleID); err != nil {
			return nil, fmt.Errorf("failed to scan responsable: %w", err)
		}
		responsables = append(responsables, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate responsables: %w", err)
	}

	return responsables, nil
}
