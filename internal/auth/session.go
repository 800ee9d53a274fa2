// session.go resolves a login into a CurrentUser: the account row plus every
// affectation it holds, with labels joined in. Resolution happens once per
// request and is never cached, so a permission change is visible on the very
// next call.
package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// SessionBuilder loads request identities from the database
type SessionBuilder struct {
	userRepo        *repositories.UtilisateurRepository
	affectationRepo *repositories.AffectationRepository
}

// NewSessionBuilder creates a new session builder
func NewSessionBuilder(db *sql.DB) *SessionBuilder {
	return &SessionBuilder{
		userRepo:        repositories.NewUtilisateurRepository(db),
		affectationRepo: repositories.NewAffectationRepository(db),
	}
}

// BuildByLogin resolves a login into a CurrentUser, or nil when the login is
// unknown.
func (b *SessionBuilder) BuildByLogin(ctx context.Context, login string) (*CurrentUser, error) {
	user, err := b.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	details, err := b.affectationRepo.ListDetailsByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load affectations: %w", err)
	}

	current := &CurrentUser{
		UserID:              user.ID,
		Login:               user.Login,
		Nom:                 user.Nom,
		Prenom:              user.Prenom,
		EmailInstitutionnel: user.EmailInstitutionnel,
		Affectations:        make([]AffectationView, 0, len(details)),
	}
	for _, d := range details {
		current.Affectations = append(current.Affectations, AffectationView{
			AffectationID: d.ID,
			RoleID:        d.RoleID,
			RoleLabel:     d.RoleLibelle,
			EntiteID:      d.EntiteID,
			EntiteType:    d.EntiteType,
			EntiteNom:     d.EntiteNom,
			AnneeID:       d.AnneeID,
			AnneeLabel:    d.AnneeLibelle,
		})
	}

	return current, nil
}
