// delegation.go implements time-bounded delegations of named rights between
// users. Revocation is a one-way overwrite: it always stamps ANNULEE and a new
// end date, even on a delegation that was already revoked.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// CreateDelegationInput is the payload for creating a delegation. Dates are
// ISO YYYY-MM-DD strings.
type CreateDelegationInput struct {
	DelegataireID int64   `json:"delegataire_id" binding:"required"`
	EntiteID      int64   `json:"id_entite" binding:"required"`
	RoleID        *string `json:"id_role"`
	TypeDroit     string  `json:"type_droit" binding:"required"`
	DateDebut     string  `json:"date_debut" binding:"required"`
	DateFin       *string `json:"date_fin"`
}

// DelegationService manages delegation grants.
type DelegationService struct {
	delegations *repositories.DelegationRepository
}

// NewDelegationService creates the service with its repository.
func NewDelegationService(db *sql.DB) *DelegationService {
	return &DelegationService{delegations: repositories.NewDelegationRepository(db)}
}

// List returns all delegations, newest first by start date.
func (s *DelegationService) List(ctx context.Context) ([]*models.Delegation, error) {
	return s.delegations.List(ctx)
}

// Create records a new delegation from delegantID. TypeDroit must be one of
// the closed set of delegable rights.
func (s *DelegationService) Create(ctx context.Context, delegantID int64, input *CreateDelegationInput) (*models.Delegation, error) {
	if !validDroit(input.TypeDroit) {
		return nil, fmt.Errorf("%w: unknown droit %q", ErrInvalidInput, input.TypeDroit)
	}

	d := &models.Delegation{
		DelegantID:    delegantID,
		DelegataireID: input.DelegataireID,
		EntiteID:      input.EntiteID,
		RoleID:        input.RoleID,
		TypeDroit:     &input.TypeDroit,
		DateDebut:     input.DateDebut,
		DateFin:       input.DateFin,
	}
	if err := s.delegations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create delegation: %w", err)
	}

	// Reload to pick up the joined delegant/delegataire/entite names.
	created, err := s.delegations.GetByID(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return d, nil
	}
	return created, nil
}

// Revoke cancels a delegation: statut becomes ANNULEE and date_fin is set to
// now, regardless of the previous state. A malformed id is a missing
// delegation.
func (s *DelegationService) Revoke(ctx context.Context, idStr string) (*models.Delegation, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	ok, err := s.delegations.Revoke(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.delegations.GetByID(ctx, id)
}

func validDroit(droit string) bool {
	for _, d := range models.AllDroits() {
		if d == droit {
			return true
		}
	}
	return false
}
