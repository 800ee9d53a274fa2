// annee_repository.go implements AnneeRepository for academic years, including
// the clone insert that seeds a new campaign from an existing year.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// AnneeRepository handles database operations for academic years
type AnneeRepository struct {
	db *sqlx.DB
}

// NewAnneeRepository creates a new annee repository
func NewAnneeRepository(db *sql.DB) *AnneeRepository {
	return &AnneeRepository{db: sqlx.NewDb(db, "postgres")}
}

const anneeColumns = `id_annee, libelle, to_char(date_debut, 'YYYY-MM-DD') AS date_debut,
	to_char(date_fin, 'YYYY-MM-DD') AS date_fin, statut, id_annee_source`

// List retrieves academic years, optionally filtered by status, ordered by
// ascending id.
func (r *AnneeRepository) List(ctx context.Context, statut *string) ([]models.AnneeUniversitaire, error) {
	query := `SELECT ` + anneeColumns + ` FROM annee_universitaire
		WHERE ($1::text IS NULL OR statut = $1)
		ORDER BY id_annee ASC`

	var annees []models.AnneeUniversitaire
	if err := r.db.SelectContext(ctx, &annees, query, statut); err != nil {
		return nil, fmt.Errorf("failed to list annees: %w", err)
	}
	return annees, nil
}

// GetByID retrieves one academic year by id
func (r *AnneeRepository) GetByID(ctx context.Context, id int64) (*models.AnneeUniversitaire, error) {
	query := `SELECT ` + anneeColumns + ` FROM annee_universitaire WHERE id_annee = $1`

	a := &models.AnneeUniversitaire{}
	if err := r.db.GetContext(ctx, a, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get annee: %w", err)
	}
	return a, nil
}

// Create inserts a new academic year and fills in the generated id. The source
// year reference may be nil (a year created from scratch).
func (r *AnneeRepository) Create(ctx context.Context, a *models.AnneeUniversitaire) error {
	query := `
		INSERT INTO annee_universitaire (libelle, date_debut, date_fin, statut, id_annee_source)
		VALUES ($1, $2::date, $3::date, $4, $5)
		RETURNING id_annee
	`

	err := r.db.QueryRowContext(ctx, query, a.Libelle, a.DateDebut, a.DateFin, a.Statut, a.AnneeSourceID).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create annee: %w", err)
	}
	return nil
}
