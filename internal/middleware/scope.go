// scope.go implements the entity and year scope guards. Both are exact-match
// filters: the caller must hold an affectation on the very entity (or year)
// named by the request. There is no tree traversal — an affectation on a
// parent entity does not open its descendants. That narrowness is a known
// limitation carried over deliberately; widening it would silently grant
// directors access to every sub-entity and needs its own decision.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// scopeParam resolves the first non-empty value among path params then query
// params, in the order given.
func scopeParam(c *gin.Context, names ...string) string {
	for _, name := range names {
		if v := c.Param(name); v != "" {
			return v
		}
	}
	for _, name := range names {
		if v := c.Query(name); v != "" {
			return v
		}
	}
	return ""
}

// EntityScopeGuard permits the request when it names no entity, or when the
// user holds an affectation on exactly that entity. Without a resolved user
// the guard fails closed.
func EntityScopeGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		entiteID := scopeParam(c, "entiteId", "id_entite")
		if entiteID == "" {
			c.Next()
			return
		}

		for _, a := range user.Affectations {
			if strconv.FormatInt(a.EntiteID, 10) == entiteID {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Entity out of scope",
		})
	}
}

// YearScopeGuard is the same exact-match filter keyed on the academic year.
// The alias list covers every spelling the routes use, including the yearId
// query param of the export endpoints.
func YearScopeGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		anneeID := scopeParam(c, "anneeId", "yearId", "id_annee", "annee")
		if anneeID == "" {
			c.Next()
			return
		}

		for _, a := range user.Affectations {
			if strconv.FormatInt(a.AnneeID, 10) == anneeID {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Year out of scope",
		})
	}
}
