package auth

// AffectationView is one role assignment as carried by the resolved request
// identity: the role key plus the entity and year it targets, with display
// labels joined in for the frontend.
type AffectationView struct {
	AffectationID int64   `json:"affectationId"`
	RoleID        string  `json:"roleId"`
	RoleLabel     *string `json:"roleLabel"`
	EntiteID      int64   `json:"entiteId"`
	EntiteType    *string `json:"entiteType"`
	EntiteNom     *string `json:"entiteName"`
	AnneeID       int64   `json:"anneeId"`
	AnneeLabel    *string `json:"anneeLabel"`
}

// CurrentUser is the resolved identity of an authenticated request: the account
// plus every affectation it holds across all years. It is built fresh per
// request and never cached — affectations can change between two calls within
// the same academic year, and permission checks must see the change.
type CurrentUser struct {
	UserID              int64             `json:"userId"`
	Login               string            `json:"login"`
	Nom                 string            `json:"nom"`
	Prenom              string            `json:"prenom"`
	EmailInstitutionnel *string           `json:"emailInstitutionnel"`
	Affectations        []AffectationView `json:"affectations"`
}

// RoleSet returns the distinct role ids across all of the user's affectations,
// regardless of entity or year.
func (u *CurrentUser) RoleSet() map[RoleID]bool {
	set := make(map[RoleID]bool, len(u.Affectations))
	for _, a := range u.Affectations {
		set[RoleID(a.RoleID)] = true
	}
	return set
}

// HasAnyRole reports whether the user holds at least one of the given roles in
// any affectation, anywhere.
func (u *CurrentUser) HasAnyRole(roles ...RoleID) bool {
	set := u.RoleSet()
	for _, r := range roles {
		if set[r] {
			return true
		}
	}
	return false
}
