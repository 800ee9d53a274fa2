// Package signalements implements the error-report HTTP handlers. A
// signalement is opened by any directory user, taken over by a handler
// (EN_COURS), and closed with a mandatory comment (CLOTURE).
package signalements

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
	"github.com/univ-annuaire/univ-annuaire/internal/services"
)

// ListHandler returns signalements with author and handler names, optionally
// filtered by statut.
// Implements: GET /api/v1/signalements?statut=
func ListHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewSignalementService(db)

	return func(c *gin.Context) {
		var statut *string
		if s := c.Query("statut"); s != "" {
			statut = &s
		}

		items, err := svc.List(c.Request.Context(), statut)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list signalements",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// CreateHandler opens a signalement authored by the caller.
// Implements: POST /api/v1/signalements
func CreateHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewSignalementService(db)

	return func(c *gin.Context) {
		var input services.CreateSignalementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "description is required",
			})
			return
		}

		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		s, err := svc.Create(c.Request.Context(), user.UserID, &input)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create signalement",
			})
			return
		}

		c.JSON(http.StatusCreated, s)
	}
}

// UpdateHandler moves a signalement through its lifecycle. The caller becomes
// the traitant on EN_COURS and the closer on CLOTURE; closing without a
// comment is rejected.
// Implements: PATCH /api/v1/signalements/:id
func UpdateHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewSignalementService(db)

	return func(c *gin.Context) {
		var input services.UpdateSignalementInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "statut is required",
			})
			return
		}

		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		s, err := svc.Update(c.Request.Context(), c.Param("id"), user.UserID, &input)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Signalement not found"})
				return
			}
			if errors.Is(err, services.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update signalement",
			})
			return
		}

		c.JSON(http.StatusOK, s)
	}
}
