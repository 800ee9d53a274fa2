// signalement.go implements the error-report workflow: a ticket opens OUVERT,
// moves to EN_COURS when someone takes it (stamping the handler), and ends
// CLOTURE (stamping the closer). The transitions themselves are not guarded by
// a state machine; stamping is keyed on the requested destination status only.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// CreateSignalementInput is the payload for opening a signalement.
type CreateSignalementInput struct {
	EntiteCibleID *int64 `json:"id_entite_cible"`
	Description   string `json:"description" binding:"required"`
}

// UpdateSignalementInput is the payload for a status transition. Commentaire
// is stored on the field matching the destination status. Closing a ticket
// requires a comment; this is enforced here at the boundary, not by the
// stamping logic below.
type UpdateSignalementInput struct {
	Statut      string  `json:"statut" binding:"required"`
	Commentaire *string `json:"commentaire"`
}

// SignalementService manages error-report tickets.
type SignalementService struct {
	signalements *repositories.SignalementRepository
}

// NewSignalementService creates the service with its repository.
func NewSignalementService(db *sql.DB) *SignalementService {
	return &SignalementService{signalements: repositories.NewSignalementRepository(db)}
}

// List returns signalements, newest first, optionally filtered by status.
func (s *SignalementService) List(ctx context.Context, statut *string) ([]*models.Signalement, error) {
	return s.signalements.List(ctx, statut)
}

// Create opens a new signalement as OUVERT authored by auteurID.
func (s *SignalementService) Create(ctx context.Context, auteurID int64, input *CreateSignalementInput) (*models.Signalement, error) {
	sig := &models.Signalement{
		AuteurID:      auteurID,
		EntiteCibleID: input.EntiteCibleID,
		Description:   input.Description,
	}
	if err := s.signalements.Create(ctx, sig); err != nil {
		return nil, fmt.Errorf("failed to create signalement: %w", err)
	}
	return sig, nil
}

// Update applies a status transition on behalf of actorID. EN_COURS stamps the
// handler and the prise-en-charge date; CLOTURE stamps the closer and the
// traitement date; any other valid status is written as-is.
func (s *SignalementService) Update(ctx context.Context, idStr string, actorID int64, input *UpdateSignalementInput) (*models.Signalement, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	var ok bool
	switch input.Statut {
	case models.SignalementStatutEnCours:
		ok, err = s.signalements.SetEnCours(ctx, id, actorID, input.Commentaire)
	case models.SignalementStatutCloture:
		if input.Commentaire == nil || *input.Commentaire == "" {
			return nil, fmt.Errorf("%w: closing a signalement requires a comment", ErrInvalidInput)
		}
		ok, err = s.signalements.SetCloture(ctx, id, actorID, input.Commentaire)
	case models.SignalementStatutOuvert:
		ok, err = s.signalements.SetStatut(ctx, id, input.Statut)
	default:
		return nil, fmt.Errorf("%w: unknown statut %q", ErrInvalidInput, input.Statut)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return s.signalements.GetByID(ctx, id)
}
