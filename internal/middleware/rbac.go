// rbac.go implements the permission guards over the auth package's predicates.
//
// Permissions are evaluated at request time against the CurrentUser resolved
// by AuthMiddleware, never embedded in a token: when an affectation changes,
// the change takes effect on the user's next request without invalidating or
// reissuing anything.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
)

// Permission is a predicate over the resolved request identity.
type Permission func(*auth.CurrentUser) bool

// RequirePermission aborts with 403 unless the predicate holds for the
// resolved user. A request that reaches this guard without a resolved user is
// a wiring error in the chain and fails closed.
func RequirePermission(allowed Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		if !allowed(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// Guards for the standard capabilities, named after the predicate they wrap.
var (
	RequireRead       = RequirePermission(auth.CanRead)
	RequireWrite      = RequirePermission(auth.CanWrite)
	RequireExport     = RequirePermission(auth.CanExport)
	RequireImport     = RequirePermission(auth.CanImport)
	RequireDelegate   = RequirePermission(auth.CanDelegate)
	RequireFreezeYear = RequirePermission(auth.CanFreezeYear)
)
