package directory

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// ListRolesHandler returns the fixed role vocabulary ordered by hierarchy level.
// Implements: GET /api/v1/roles
func ListRolesHandler(db *sql.DB) gin.HandlerFunc {
	roleRepo := repositories.NewRoleRepository(db)

	return func(c *gin.Context) {
		roles, err := roleRepo.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list roles",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": roles})
	}
}
