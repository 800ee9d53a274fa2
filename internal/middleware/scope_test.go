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

func scopedUser(entiteID, anneeID int64) *auth.CurrentUser {
	return &auth.CurrentUser{
		UserID: 7,
		Login:  "cdurand",
		Affectations: []auth.AffectationView{
			{AffectationID: 100, RoleID: string(auth.RoleDirecteurDepartement), EntiteID: entiteID, AnneeID: anneeID},
		},
	}
}

func newScopeRouter(user *auth.CurrentUser, guard gin.HandlerFunc, route string) *gin.Engine {
	r := gin.New()
	r.Use(injectUser(user))
	r.GET(route, guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func getPath(r *gin.Engine, path string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w.Code
}

// ---------------------------------------------------------------------------
// EntityScopeGuard
// ---------------------------------------------------------------------------

func TestEntityScopeGuard_NoUserFailsClosed(t *testing.T) {
	r := newScopeRouter(nil, EntityScopeGuard(), "/entites")
	if code := getPath(r, "/entites"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 without a resolved user", code)
	}
}

func TestEntityScopeGuard_AbsentParamPermits(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), EntityScopeGuard(), "/entites")
	if code := getPath(r, "/entites"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 when the request names no entity", code)
	}
}

func TestEntityScopeGuard_PathParamMatch(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), EntityScopeGuard(), "/entites/:entiteId")
	if code := getPath(r, "/entites/12"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 for an entity the user holds", code)
	}
}

func TestEntityScopeGuard_PathParamMismatch(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), EntityScopeGuard(), "/entites/:entiteId")
	if code := getPath(r, "/entites/99"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for an entity outside the user's affectations", code)
	}
}

func TestEntityScopeGuard_QueryParamAlias(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), EntityScopeGuard(), "/affectations")

	if code := getPath(r, "/affectations?id_entite=12"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 for matching id_entite query param", code)
	}
	if code := getPath(r, "/affectations?id_entite=99"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for mismatched id_entite query param", code)
	}
}

// ChildNotCovered pins the exact-match rule: holding the parent entity does
// not open a child entity.
func TestEntityScopeGuard_ChildNotCovered(t *testing.T) {
	r := newScopeRouter(scopedUser(1, 3), EntityScopeGuard(), "/entites/:entiteId")
	if code := getPath(r, "/entites/2"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403: scope matching is exact, not hierarchical", code)
	}
}

// ---------------------------------------------------------------------------
// YearScopeGuard
// ---------------------------------------------------------------------------

func TestYearScopeGuard_NoUserFailsClosed(t *testing.T) {
	r := newScopeRouter(nil, YearScopeGuard(), "/annees")
	if code := getPath(r, "/annees"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 without a resolved user", code)
	}
}

func TestYearScopeGuard_AbsentParamPermits(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), YearScopeGuard(), "/annees")
	if code := getPath(r, "/annees"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 when the request names no year", code)
	}
}

func TestYearScopeGuard_QueryMatchAndMismatch(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), YearScopeGuard(), "/organigrammes")

	if code := getPath(r, "/organigrammes?anneeId=3"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a year the user holds", code)
	}
	if code := getPath(r, "/organigrammes?anneeId=4"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for a year outside the user's affectations", code)
	}
}

func TestYearScopeGuard_AnneeAlias(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), YearScopeGuard(), "/organigrammes")
	if code := getPath(r, "/organigrammes?annee=3"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 for matching annee query alias", code)
	}
}

// YearIDAlias pins the spelling used by the export routes: the guard must
// engage on ?yearId= just like it does on ?anneeId=.
func TestYearScopeGuard_YearIDAlias(t *testing.T) {
	r := newScopeRouter(scopedUser(12, 3), YearScopeGuard(), "/exports/responsables")

	if code := getPath(r, "/exports/responsables?yearId=3"); code != http.StatusOK {
		t.Errorf("status = %d, want 200 for a year the user holds via yearId", code)
	}
	if code := getPath(r, "/exports/responsables?yearId=4"); code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for a year outside the user's affectations via yearId", code)
	}
}

// ---------------------------------------------------------------------------
// scopeParam
// ---------------------------------------------------------------------------

func TestScopeParam_PathBeatsQuery(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/x/:entiteId", func(c *gin.Context) {
		got = scopeParam(c, "entiteId", "id_entite")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x/5?id_entite=6", nil)
	r.ServeHTTP(w, req)

	if got != "5" {
		t.Errorf("scopeParam = %q, want path param 5 to beat query param 6", got)
	}
}
