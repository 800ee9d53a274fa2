// annee.go implements academic year management. A new campaign starts by
// cloning: the new year records which year it was derived from, and the
// structure is rebuilt against the new year by the import tooling.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// CloneYearInput is the payload for cloning a year.
type CloneYearInput struct {
	Libelle   string `json:"libelle" binding:"required"`
	DateDebut string `json:"date_debut" binding:"required"`
	DateFin   string `json:"date_fin" binding:"required"`
	Statut    string `json:"statut" binding:"required"`
}

// AnneeService manages academic years.
type AnneeService struct {
	annees *repositories.AnneeRepository
}

// NewAnneeService creates the service with its repository.
func NewAnneeService(db *sql.DB) *AnneeService {
	return &AnneeService{annees: repositories.NewAnneeRepository(db)}
}

// List returns years ordered by id, optionally filtered by status.
func (s *AnneeService) List(ctx context.Context, statut *string) ([]models.AnneeUniversitaire, error) {
	return s.annees.List(ctx, statut)
}

// GetByID returns one year or nil.
func (s *AnneeService) GetByID(ctx context.Context, id int64) (*models.AnneeUniversitaire, error) {
	return s.annees.GetByID(ctx, id)
}

// Clone creates a new year derived from sourceIDStr. A malformed or
// non-positive source id is tolerated: the new year is simply created without
// a source link rather than rejected.
func (s *AnneeService) Clone(ctx context.Context, sourceIDStr string, input *CloneYearInput) (*models.AnneeUniversitaire, error) {
	if !validStatut(input.Statut) {
		return nil, fmt.Errorf("%w: unknown statut %q", ErrInvalidInput, input.Statut)
	}

	var sourceID *int64
	if parsed, err := strconv.ParseInt(sourceIDStr, 10, 64); err == nil && parsed > 0 {
		sourceID = &parsed
	}

	annee := &models.AnneeUniversitaire{
		Libelle:       input.Libelle,
		DateDebut:     input.DateDebut,
		DateFin:       input.DateFin,
		Statut:        input.Statut,
		AnneeSourceID: sourceID,
	}
	if err := s.annees.Create(ctx, annee); err != nil {
		return nil, fmt.Errorf("failed to clone year: %w", err)
	}
	return annee, nil
}

func validStatut(statut string) bool {
	switch statut {
	case models.AnneeStatutPreparation, models.AnneeStatutActive, models.AnneeStatutArchivee:
		return true
	}
	return false
}
