package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// RoleRepository handles database operations for the role vocabulary
type RoleRepository struct {
	db *sqlx.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: sqlx.NewDb(db, "postgres")}
}

// List retrieves the role vocabulary ordered from highest hierarchical level
// down. The vocabulary is seeded by migration and never mutated at runtime.
func (r *RoleRepository) List(ctx context.Context) ([]models.Role, error) {
	query := `SELECT id_role, libelle, niveau_hierarchique FROM role ORDER BY niveau_hierarchique DESC`

	var roles []models.Role
	if err := r.db.SelectContext(ctx, &roles, query); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}
