package auth

// Permission predicates. Each one is a pure function over the CurrentUser's
// affectation set: no storage access, no side effects. Holding a qualifying
// role in ANY affectation unlocks the capability globally — the entity and year
// of the qualifying row are deliberately ignored here; entity/year scoping is
// handled separately by the exact-match guards in the middleware package.

// restrictedWriteRoles are the roles that never qualify for CanWrite, no matter
// how many of them a user holds.
var restrictedWriteRoles = map[RoleID]bool{
	RoleUtilisateurSimple: true,
	RoleLectureSeule:      true,
}

// delegationRoles is the whitelist of roles allowed to create and revoke
// delegations, spanning the component-director through administrator tiers.
var delegationRoles = []RoleID{
	RoleDirecteurComposante,
	RoleDirecteurDepartement,
	RoleDirecteurMention,
	RoleDirecteurSpecialite,
	RoleResponsableFormation,
	RoleAdministrateur,
}

// CanRead reports whether the user may read directory data: any affectation at
// all qualifies. A user with zero affectations is unprovisioned and denied.
func CanRead(user *CurrentUser) bool {
	return len(user.Affectations) > 0
}

// CanWrite reports whether the user may mutate directory data: true iff the
// user holds at least one role outside the restricted pair
// {utilisateur-simple, lecture-seule}.
func CanWrite(user *CurrentUser) bool {
	for role := range user.RoleSet() {
		if !restrictedWriteRoles[role] {
			return true
		}
	}
	return false
}

// CanExport reports whether the user may export directory data: requires the
// services-centraux or administrateur role.
func CanExport(user *CurrentUser) bool {
	return user.HasAnyRole(RoleServicesCentraux, RoleAdministrateur)
}

// CanImport mirrors CanExport exactly. Import and export are the same
// capability in the permission model, not merely similar ones.
func CanImport(user *CurrentUser) bool {
	return CanExport(user)
}

// CanDelegate reports whether the user may create or revoke delegations.
func CanDelegate(user *CurrentUser) bool {
	return user.HasAnyRole(delegationRoles...)
}

// CanFreezeYear reports whether the user may freeze organigramme snapshots:
// same predicate as CanExport.
func CanFreezeYear(user *CurrentUser) bool {
	return user.HasAnyRole(RoleServicesCentraux, RoleAdministrateur)
}
