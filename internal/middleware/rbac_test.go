package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// injectUser fakes the auth middleware by planting a resolved user in the
// context, so guard tests don't need a database.
func injectUser(user *auth.CurrentUser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(CurrentUserKey, user)
			c.Set(UserIDKey, user.UserID)
		}
		c.Next()
	}
}

func userWithRoles(roles ...auth.RoleID) *auth.CurrentUser {
	u := &auth.CurrentUser{UserID: 7, Login: "cdurand"}
	for i, r := range roles {
		u.Affectations = append(u.Affectations, auth.AffectationView{
			AffectationID: int64(100 + i),
			RoleID:        string(r),
			EntiteID:      12,
			AnneeID:       3,
		})
	}
	return u
}

func newGuardRouter(user *auth.CurrentUser, guard gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(injectUser(user))
	r.GET("/guarded", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getGuarded(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)
	return w.Code
}

// ---------------------------------------------------------------------------
// RequirePermission
// ---------------------------------------------------------------------------

func TestRequirePermission_NoUserFailsClosed(t *testing.T) {
	r := newGuardRouter(nil, RequirePermission(func(*auth.CurrentUser) bool { return true }))
	if code := getGuarded(r); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 without a resolved user even for an allow-all predicate", code)
	}
}

func TestRequirePermission_PredicateDenies(t *testing.T) {
	user := userWithRoles(auth.RoleUtilisateurSimple)
	r := newGuardRouter(user, RequirePermission(func(*auth.CurrentUser) bool { return false }))
	if code := getGuarded(r); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when the predicate denies", code)
	}
}

func TestRequirePermission_PredicateAllows(t *testing.T) {
	user := userWithRoles(auth.RoleUtilisateurSimple)
	r := newGuardRouter(user, RequirePermission(func(*auth.CurrentUser) bool { return true }))
	if code := getGuarded(r); code != http.StatusOK {
		t.Errorf("status = %d, want 200 when the predicate allows", code)
	}
}

// ---------------------------------------------------------------------------
// Standard guards
// ---------------------------------------------------------------------------

func TestRequireWrite_ByRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []auth.RoleID
		want  int
	}{
		{"administrateur writes", []auth.RoleID{auth.RoleAdministrateur}, http.StatusOK},
		{"responsable formation writes", []auth.RoleID{auth.RoleResponsableFormation}, http.StatusOK},
		{"utilisateur simple cannot write", []auth.RoleID{auth.RoleUtilisateurSimple}, http.StatusForbidden},
		{"lecture seule cannot write", []auth.RoleID{auth.RoleLectureSeule}, http.StatusForbidden},
		{"mixed roles use the strongest", []auth.RoleID{auth.RoleLectureSeule, auth.RoleAdministrateur}, http.StatusOK},
		{"no affectations", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newGuardRouter(userWithRoles(tt.roles...), RequireWrite)
			if code := getGuarded(r); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRequireRead_AnyAffectation(t *testing.T) {
	r := newGuardRouter(userWithRoles(auth.RoleUtilisateurSimple), RequireRead)
	if code := getGuarded(r); code != http.StatusOK {
		t.Errorf("status = %d, want 200: any affectation grants read", code)
	}
}

func TestRequireDelegate_DeniedForServicesCentraux(t *testing.T) {
	r := newGuardRouter(userWithRoles(auth.RoleServicesCentraux), RequireDelegate)
	if code := getGuarded(r); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: services centraux cannot delegate", code)
	}
}

func TestRequireDelegate_AllowedForDirecteurDepartement(t *testing.T) {
	r := newGuardRouter(userWithRoles(auth.RoleDirecteurDepartement), RequireDelegate)
	if code := getGuarded(r); code != http.StatusOK {
		t.Errorf("status = %d, want 200: directeur departement can delegate", code)
	}
}

func TestRequireFreezeYear_AllowedForServicesCentraux(t *testing.T) {
	r := newGuardRouter(userWithRoles(auth.RoleServicesCentraux), RequireFreezeYear)
	if code := getGuarded(r); code != http.StatusOK {
		t.Errorf("status = %d, want 200: services centraux can freeze", code)
	}
}

func TestRequireFreezeYear_DeniedForDirecteurComposante(t *testing.T) {
	r := newGuardRouter(userWithRoles(auth.RoleDirecteurComposante), RequireFreezeYear)
	if code := getGuarded(r); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: directeur composante cannot freeze", code)
	}
}
