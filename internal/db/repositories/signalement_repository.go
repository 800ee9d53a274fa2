// signalement_repository.go implements SignalementRepository, the query layer
// for error-report tickets and their status transitions.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
)

// SignalementRepository handles database operations for signalements
type SignalementRepository struct {
	db *sql.DB
}

// NewSignalementRepository creates a new signalement repository
func NewSignalementRepository(db *sql.DB) *SignalementRepository {
	return &SignalementRepository{db: db}
}

const signalementSelect = `
	SELECT s.id_signalement, s.auteur_id, s.traitant_id, s.cloture_par_id, s.id_entite_cible,
	       s.description, s.statut, s.date_creation, s.date_prise_en_charge, s.date_traitement,
	       s.commentaire_prise_en_charge, s.commentaire_cloture,
	       ua.nom, ua.prenom, ut.nom, ut.prenom, uc.nom, uc.prenom
	FROM signalement s
	LEFT JOIN utilisateur ua ON ua.id_user = s.auteur_id
	LEFT JOIN utilisateur ut ON ut.id_user = s.traitant_id
	LEFT JOIN utilisateur uc ON uc.id_user = s.cloture_par_id
`

func scanSignalement(scan func(dest ...any) error) (*models.Signalement, error) {
	s := &models.Signalement{}
	err := scan(&s.ID, &s.AuteurID, &s.TraitantID, &s.ClotureParID, &s.EntiteCibleID,
		&s.Description, &s.Statut, &s.DateCreation, &s.DatePriseEnCharge, &s.DateTraitement,
		&s.CommentairePriseEnCharge, &s.CommentaireCloture,
		&s.AuteurNom, &s.AuteurPrenom, &s.TraitantNom, &s.TraitantPrenom, &s.ClotureNom, &s.CloturePrenom)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new signalement with status OUVERT
func (r *SignalementRepository) Create(ctx context.Context, s *models.Signalement) error {
	query := `
		INSERT INTO signalement (auteur_id, id_entite_cible, description)
		VALUES ($1, $2, $3)
		RETURNING id_signalement, statut, date_creation
	`

	err := r.db.QueryRowContext(ctx, query, s.AuteurID, s.EntiteCibleID, s.Description).
		Scan(&s.ID, &s.Statut, &s.DateCreation)
	if err != nil {
		return fmt.Errorf("failed to create signalement: %w", err)
	}
	return nil
}

// GetByID retrieves one signalement by id with participant names joined in
func (r *SignalementRepository) GetByID(ctx context.Context, id int64) (*models.Signalement, error) {
	query := signalementSelect + ` WHERE s.id_signalement = $1`

	s, err := scanSignalement(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get signalement: %w", err)
	}
	return s, nil
}

// List retrieves signalements newest first, optionally filtered by status
func (r *SignalementRepository) List(ctx context.Context, statut *string) ([]*models.Signalement, error) {
	query := signalementSelect + `
		WHERE ($1::text IS NULL OR s.statut = $1)
		ORDER BY s.date_creation DESC`

	rows, err := r.db.QueryContext(ctx, query, statut)
	if err != nil {
		return nil, fmt.Errorf("failed to list signalements: %w", err)
	}
	defer rows.Close()

	var signalements []*models.Signalement
	for rows.Next() {
		s, err := scanSignalement(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signalement: %w", err)
		}
		signalements = append(signalements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate signalements: %w", err)
	}

	return signalements, nil
}

// SetEnCours moves a signalement to EN_COURS, stamping the handler, the
// take-charge timestamp, and the optional comment. Returns whether a row was
// updated.
func (r *SignalementRepository) SetEnCours(ctx context.Context, id, traitantID int64, commentaire *string) (bool, error) {
	query := `UPDATE signalement
		SET statut = 'EN_COURS', traitant_id = $2, date_prise_en_charge = NOW(), commentaire_prise_en_charge = $3
		WHERE id_signalement = $1`

	result, err := r.db.ExecContext(ctx, query, id, traitantID, commentaire)
	if err != nil {
		return false, fmt.Errorf("failed to set signalement en cours: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// SetCloture moves a signalement to CLOTURE, stamping the closer, the closure
// timestamp, and the closure comment. Returns whether a row was updated.
func (r *SignalementRepository) SetCloture(ctx context.Context, id, clotureParID int64, commentaire *string) (bool, error) {
	query := `UPDATE signalement
		SET statut = 'CLOTURE', cloture_par_id = $2, date_traitement = NOW(), commentaire_cloture = $3
		WHERE id_signalement = $1`

	result, err := r.db.ExecContext(ctx, query, id, clotureParID, commentaire)
	if err != nil {
		return false, fmt.Errorf("failed to close signalement: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// SetStatut applies a bare status change with no stamping, used for
// transitions that carry no participant metadata. Returns whether a row was
// updated.
func (r *SignalementRepository) SetStatut(ctx context.Context, id int64, statut string) (bool, error) {
	query := `UPDATE signalement SET statut = $2 WHERE id_signalement = $1`

	result, err := r.db.ExecContext(ctx, query, id, statut)
	if err != nil {
		return false, fmt.Errorf("failed to update signalement statut: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}
