// entite_repository.go implements EntiteRepository, the query layer for
// organizational entities. The per-year listing is ordered by ascending id:
// the tree builder relies on that ordering to pick a deterministic default
// root among parentless entities.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// EntiteRepository handles database operations for organizational entities
type EntiteRepository struct {
	db *sqlx.DB
}

// NewEntiteRepository creates a new entite repository
func NewEntiteRepository(db *sql.DB) *EntiteRepository {
	return &EntiteRepository{db: sqlx.NewDb(db, "postgres")}
}

const entiteColumns = `id_entite, id_annee, id_entite_parent, type_entite, nom, tel_service, bureau_service`

// ListByYear retrieves all entities tagged with the given year, ordered by
// ascending id.
func (r *EntiteRepository) ListByYear(ctx context.Context, yearID int64) ([]models.EntiteStructure, error) {
	query := `SELECT ` + entiteColumns + ` FROM entite_structure WHERE id_annee = $1 ORDER BY id_entite ASC`

	var entites []models.EntiteStructure
	if err := r.db.SelectContext(ctx, &entites, query, yearID); err != nil {
		return nil, fmt.Errorf("failed to list entites for year: %w", err)
	}
	return entites, nil
}

// List retrieves all entities, optionally restricted to one year, ordered by
// ascending id.
func (r *EntiteRepository) List(ctx context.Context, yearID *int64) ([]models.EntiteStructure, error) {
	query := `SELECT ` + entiteColumns + ` FROM entite_structure
		WHERE ($1::bigint IS NULL OR id_annee = $1)
		ORDER BY id_entite ASC`

	var entites []models.EntiteStructure
	if err := r.db.SelectContext(ctx, &entites, query, yearID); err != nil {
		return nil, fmt.Errorf("failed to list entites: %w", err)
	}
	return entites, nil
}

// GetByID retrieves one entity by id
func (r *EntiteRepository) GetByID(ctx context.Context, id int64) (*models.EntiteStructure, error) {
	query := `SELECT ` + entiteColumns + ` FROM entite_structure WHERE id_entite = $1`

	e := &models.EntiteStructure{}
	if err := r.db.GetContext(ctx, e, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get entite: %w", err)
	}
	return e, nil
}
