// Package hierarchy materializes an academic year's entity rows into the
// organigramme tree served to the frontend. Every call rebuilds the full tree
// from storage — there is no cache, so a structural edit is visible on the
// next request.
package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/telemetry"
)

// EntityStore provides the entity rows of one academic year.
type EntityStore interface {
	ListByYear(ctx context.Context, yearID int64) ([]models.EntiteStructure, error)
}

// AssignmentStore provides the responsable rows attached to tree nodes.
type AssignmentStore interface {
	ListResponsablesByYearAndEntities(ctx context.Context, yearID int64, entiteIDs []int64) ([]models.AffectationResponsable, error)
}

// Node is one entity of the materialized tree with its children and the people
// holding a role on it. Responsables carries one entry per affectation row:
// a person holding two roles on the same entity appears twice.
type Node struct {
	ID            int64                           `json:"id_entite"`
	AnneeID       int64                           `json:"id_annee"`
	ParentID      *int64                          `json:"id_entite_parent"`
	TypeEntite    string                          `json:"type_entite"`
	Nom           string                          `json:"nom"`
	TelService    *string                         `json:"tel_service"`
	BureauService *string                         `json:"bureau_service"`
	Children      []*Node                         `json:"children"`
	Responsables  []models.AffectationResponsable `json:"responsables,omitempty"`
}

// Builder assembles organigramme trees from the entity and affectation tables.
type Builder struct {
	entities    EntityStore
	assignments AssignmentStore
}

// NewBuilder creates a tree builder over the given stores.
func NewBuilder(entities EntityStore, assignments AssignmentStore) *Builder {
	return &Builder{entities: entities, assignments: assignments}
}

// BuildTree materializes the organigramme of one academic year. When rootID is
// nil the root is the first parentless entity in id order; when rootID names an
// entity absent from the year, the result is (nil, nil). A year with no
// entities also yields (nil, nil).
//
// Parent pointers that lead outside the year are skipped silently: the schema
// does not constrain a parent to the same year, and a cross-year pointer must
// not corrupt the tree. The affected entity simply has no parent link here.
func (b *Builder) BuildTree(ctx context.Context, yearID int64, rootID *int64) (*Node, error) {
	start := time.Now()
	defer func() {
		telemetry.TreeBuildDuration.Observe(time.Since(start).Seconds())
	}()

	entities, err := b.entities.ListByYear(ctx, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entities: %w", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}

	// Index every entity of the year. The listing is ordered by id ascending,
	// which fixes which parentless entity wins the default root below.
	nodes := make(map[int64]*Node, len(entities))
	ids := make([]int64, 0, len(entities))
	for _, e := range entities {
		nodes[e.ID] = &Node{
			ID:            e.ID,
			AnneeID:       e.AnneeID,
			ParentID:      e.ParentID,
			TypeEntite:    e.TypeEntite,
			Nom:           e.Nom,
			TelService:    e.TelService,
			BureauService: e.BureauService,
			Children:      []*Node{},
		}
		ids = append(ids, e.ID)
	}

	// Link children. Both ends must belong to this year's map.
	for _, e := range entities {
		if e.ParentID == nil {
			continue
		}
		parent, ok := nodes[*e.ParentID]
		if !ok {
			continue
		}
		parent.Children = append(parent.Children, nodes[e.ID])
	}

	var root *Node
	if rootID != nil {
		root = nodes[*rootID]
		if root == nil {
			return nil, nil
		}
	} else {
		for _, e := range entities {
			if e.ParentID == nil {
				root = nodes[e.ID]
				break
			}
		}
		if root == nil {
			return nil, nil
		}
	}

	responsables, err := b.assignments.ListResponsablesByYearAndEntities(ctx, yearID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load responsables: %w", err)
	}
	for i := range responsables {
		r := responsables[i]
		if node, ok := nodes[r.EntiteID]; ok {
			node.Responsables = append(node.Responsables, r)
		}
	}

	return root, nil
}
