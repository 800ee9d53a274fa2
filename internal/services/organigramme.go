// organigramme.go implements the organigramme snapshot lifecycle. A snapshot is
// a metadata row only; the tree is rebuilt live from (annee, racine) on every
// read, so a frozen snapshot pins the metadata but not the structure it renders.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
	"github.com/univ-annuaire/univ-annuaire/internal/hierarchy"
	"github.com/univ-annuaire/univ-annuaire/internal/telemetry"
)

// OrganigrammeService manages snapshot rows and the trees they describe.
type OrganigrammeService struct {
	orgs    *repositories.OrganigrammeRepository
	builder *hierarchy.Builder
}

// NewOrganigrammeService creates the service with its repositories.
func NewOrganigrammeService(db *sql.DB) *OrganigrammeService {
	return &OrganigrammeService{
		orgs: repositories.NewOrganigrammeRepository(db),
		builder: hierarchy.NewBuilder(
			repositories.NewEntiteRepository(db),
			repositories.NewAffectationRepository(db),
		),
	}
}

// List returns snapshot rows, newest first, optionally filtered by year.
func (s *OrganigrammeService) List(ctx context.Context, yearID *int64) ([]*models.Organigramme, error) {
	return s.orgs.List(ctx, yearID)
}

// Generate inserts a new snapshot row for (yearID, racineID) and builds its
// tree. The two artifacts are independent: the row is committed before the
// tree build starts, so a build failure leaves a valid snapshot behind that a
// later read can still render.
func (s *OrganigrammeService) Generate(ctx context.Context, yearID, racineID, userID int64) (*models.Organigramme, *hierarchy.Node, error) {
	org := &models.Organigramme{
		AnneeID:     yearID,
		RacineID:    racineID,
		GeneratedBy: userID,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, nil, fmt.Errorf("failed to create organigramme: %w", err)
	}
	telemetry.OrganigrammesGeneratedTotal.WithLabelValues(strconv.FormatInt(yearID, 10)).Inc()

	tree, err := s.builder.BuildTree(ctx, yearID, &racineID)
	if err != nil {
		return nil, nil, err
	}
	return org, tree, nil
}

// Latest returns the most recent snapshot of a year together with a freshly
// built tree. With no snapshot yet, the metadata is nil but the tree is still
// built from the year's default root, so a directory page can render before
// the first generation.
func (s *OrganigrammeService) Latest(ctx context.Context, yearID int64) (*models.Organigramme, *hierarchy.Node, error) {
	org, err := s.orgs.GetLatestByYear(ctx, yearID)
	if err != nil {
		return nil, nil, err
	}

	var rootID *int64
	if org != nil {
		rootID = &org.RacineID
	}
	tree, err := s.builder.BuildTree(ctx, yearID, rootID)
	if err != nil {
		return nil, nil, err
	}
	return org, tree, nil
}

// GetTreeByID returns one snapshot and its rebuilt tree. A malformed id is a
// missing snapshot, not a client error.
func (s *OrganigrammeService) GetTreeByID(ctx context.Context, idStr string) (*models.Organigramme, *hierarchy.Node, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, ErrNotFound
	}

	tree, err := s.builder.BuildTree(ctx, org.AnneeID, &org.RacineID)
	if err != nil {
		return nil, nil, err
	}
	return org, tree, nil
}

// Freeze marks a snapshot as frozen. The update is unconditional, so freezing
// an already-frozen snapshot succeeds and changes nothing.
func (s *OrganigrammeService) Freeze(ctx context.Context, idStr string) (*models.Organigramme, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, ErrNotFound
	}

	org, err := s.orgs.Freeze(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNotFound
	}
	return org, nil
}
