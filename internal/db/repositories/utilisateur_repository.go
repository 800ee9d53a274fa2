// Package repositories implements the database query layer for the annuaire.
// Every repository wraps a *sql.DB, returns (nil, nil) for rows that do not
// exist, and wraps driver errors with context. No repository method makes a
// permission decision; that happens above, in the auth package and middleware.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// UtilisateurRepository handles database operations for directory accounts
type UtilisateurRepository struct {
	db *sql.DB
}

// NewUtilisateurRepository creates a new utilisateur repository
func NewUtilisateurRepository(db *sql.DB) *UtilisateurRepository {
	return &UtilisateurRepository{db: db}
}

const utilisateurColumns = `id_user, login, nom, prenom, email_institutionnel, telephone, bureau`

func scanUtilisateur(row *sql.Row) (*models.Utilisateur, error) {
	u := &models.Utilisateur{}
	err := row.Scan(&u.ID, &u.Login, &u.Nom, &u.Prenom, &u.EmailInstitutionnel, &u.Telephone, &u.Bureau)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get utilisateur: %w", err)
	}
	return u, nil
}

// GetByID retrieves a user by id
func (r *UtilisateurRepository) GetByID(ctx context.Context, id int64) (*models.Utilisateur, error) {
	query := `SELECT ` + utilisateurColumns + ` FROM utilisateur WHERE id_user = $1`
	return scanUtilisateur(r.db.QueryRowContext(ctx, query, id))
}

// GetByLogin retrieves a user by login
func (r *UtilisateurRepository) GetByLogin(ctx context.Context, login string) (*models.Utilisateur, error) {
	query := `SELECT ` + utilisateurColumns + ` FROM utilisateur WHERE login = $1`
	return scanUtilisateur(r.db.QueryRowContext(ctx, query, login))
}

// List retrieves users matching an optional free-text filter (login, nom,
// prenom; case-insensitive) and an optional year (users holding at least one
// affectation in that year), with the total count for pagination.
func (r *UtilisateurRepository) List(ctx context.Context, filter string, yearID *int64, limit, offset int) ([]*models.Utilisateur, int, error) {
	where := `WHERE ($1 = '' OR login ILIKE '%' || $1 || '%' OR nom ILIKE '%' || $1 || '%' OR prenom ILIKE '%' || $1 || '%')
		AND ($2::bigint IS NULL OR EXISTS (
			SELECT 1 FROM affectation a WHERE a.id_user = utilisateur.id_user AND a.id_annee = $2))`

	var total int
	countQuery := `SELECT COUNT(*) FROM utilisateur ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, filter, yearID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count utilisateurs: %w", err)
	}

	query := `SELECT ` + utilisateurColumns + ` FROM utilisateur ` + where + `
		ORDER BY nom ASC, prenom ASC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, filter, yearID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list utilisateurs: %w", err)
	}
	defer rows.Close()

	var users []*models.Utilisateur
	for rows.Next() {
		u := &models.Utilisateur{}
		if err := rows.Scan(&u.ID, &u.Login, &u.Nom, &u.Prenom, &u.EmailInstitutionnel, &u.Telephone, &u.Bureau); err != nil {
			return nil, 0, fmt.Errorf("failed to scan utilisateur: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate utilisateurs: %w", err)
	}

	return users, total, nil
}

// GetRoleRows returns the flattened role summary for one user, optionally
// restricted to a single year.
func (r *UtilisateurRepository) GetRoleRows(ctx context.Context, userID int64, yearID *int64) ([]models.UtilisateurRole, error) {
	query := `
		SELECT a.id_role, COALESCE(e.nom, 'Entite ' || a.id_entite), a.id_entite, a.id_annee,
		       COALESCE(ro.niveau_hierarchique, 0)
		FROM affectation a
		LEFT JOIN entite_structure e ON e.id_entite = a.id_entite
		LEFT JOIN role ro ON ro.id_role = a.id_role
		WHERE a.id_user = $1 AND ($2::bigint IS NULL OR a.id_annee = $2)
		ORDER BY a.id_affectation ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list role rows: %w", err)
	}
	defer rows.Close()

	var result []models.UtilisateurRole
	for rows.Next() {
		var rr models.UtilisateurRole
		if err := rows.Scan(&rr.Role, &rr.Entite, &rr.EntiteID, &rr.AnneeID, &rr.NiveauHierarchique); err != nil {
			return nil, fmt.Errorf("failed to scan role row: %w", err)
		}
		result = append(result, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role rows: %w", err)
	}

	return result, nil
}

// Create inserts a new user and fills in the generated id
func (r *UtilisateurRepository) Create(ctx context.Context, u *models.Utilisateur) error {
	query := `
		INSERT INTO utilisateur (login, nom, prenom, email_institutionnel, telephone, bureau)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id_user
	`

	err := r.db.QueryRowContext(ctx, query, u.Login, u.Nom, u.Prenom, u.EmailInstitutionnel, u.Telephone, u.Bureau).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to create utilisateur: %w", err)
	}
	return nil
}

// Update modifies a user's mutable fields (login is immutable)
func (r *UtilisateurRepository) Update(ctx context.Context, u *models.Utilisateur) error {
	query := `
		UPDATE utilisateur
		SET nom = $2, prenom = $3, email_institutionnel = $4, telephone = $5, bureau = $6
		WHERE id_user = $1
	`

	_, err := r.db.ExecContext(ctx, query, u.ID, u.Nom, u.Prenom, u.EmailInstitutionnel, u.Telephone, u.Bureau)
	if err != nil {
		return fmt.Errorf("failed to update utilisateur: %w", err)
	}
	return nil
}

// Delete removes a user; affectations are removed by cascade
func (r *UtilisateurRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM utilisateur WHERE id_user = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete utilisateur: %w", err)
	}
	return nil
}
