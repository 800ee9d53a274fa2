// Package auth holds the role vocabulary, the permission predicates gating every
// write operation, and the per-request CurrentUser identity they evaluate.
package auth

import (
	"errors"
	"fmt"
)

// RoleID identifies one role of the fixed institutional vocabulary. Roles are
// flat tags, not a hierarchy: permission checks test set membership over a
// user's affectations and never compare levels.
type RoleID string

const (
	RoleDirecteurComposante           RoleID = "directeur-composante"
	RoleDirecteurAdministratif        RoleID = "directeur-administratif"
	RoleDirecteurAdministratifAdjoint RoleID = "directeur-administratif-adjoint"
	RoleDirecteurDepartement          RoleID = "directeur-departement"
	RoleDirecteurMention              RoleID = "directeur-mention"
	RoleDirecteurSpecialite           RoleID = "directeur-specialite"
	RoleResponsableFormation          RoleID = "responsable-formation"
	RoleResponsableAnnee              RoleID = "responsable-annee"
	RoleUtilisateurSimple             RoleID = "utilisateur-simple"
	RoleLectureSeule                  RoleID = "lecture-seule"
	RoleAdministrateur                RoleID = "administrateur"
	RoleServicesCentraux              RoleID = "services-centraux"
)

// AllRoles returns the complete role vocabulary.
func AllRoles() []RoleID {
	return []RoleID{
		RoleDirecteurComposante,
		RoleDirecteurAdministratif,
		RoleDirecteurAdministratifAdjoint,
		RoleDirecteurDepartement,
		RoleDirecteurMention,
		RoleDirecteurSpecialite,
		RoleResponsableFormation,
		RoleResponsableAnnee,
		RoleUtilisateurSimple,
		RoleLectureSeule,
		RoleAdministrateur,
		RoleServicesCentraux,
	}
}

// ValidRoles returns a set of the valid role id strings.
func ValidRoles() map[string]bool {
	valid := make(map[string]bool)
	for _, r := range AllRoles() {
		valid[string(r)] = true
	}
	return valid
}

// ValidateRoleID checks a single role id string against the vocabulary.
func ValidateRoleID(role string) error {
	if !ValidRoles()[role] {
		return errors.New("invalid role")
	}
	return nil
}

// ValidateRoleIDs checks that all provided role id strings are valid.
func ValidateRoleIDs(roles []string) error {
	valid := ValidRoles()
	for _, role := range roles {
		if !valid[role] {
			return fmt.Errorf("invalid role: %s", role)
		}
	}
	return nil
}
