// Package journal exposes the audit trail over HTTP. The journal_audit table
// is written asynchronously by the audit recorder; this package only reads it,
// newest entries first.
package journal

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ListHandler returns the most recent audit entries, newest first. The limit
// query param is clamped to maxListLimit so a single call cannot drag the
// whole journal over the wire.
// Implements: GET /api/v1/audit?limit=
func ListHandler(db *sql.DB) gin.HandlerFunc {
	repo := repositories.NewAuditRepository(db)

	return func(c *gin.Context) {
		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "limit must be a positive integer",
				})
				return
			}
			limit = parsed
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}

		entries, err := repo.ListRecent(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list audit entries",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}
