// Package delegations implements the delegation HTTP handlers. A delegation
// lends a named right on one entity from a delegant to a delegataire; revoking
// it stamps the end date and flips the statut to ANNULEE.
package delegations

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
	"github.com/univ-annuaire/univ-annuaire/internal/services"
)

// ListHandler returns all delegations with the joined people and entity names.
// Implements: GET /api/v1/delegations
func ListHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewDelegationService(db)

	return func(c *gin.Context) {
		items, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list delegations",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// CreateHandler creates a delegation with the caller as delegant.
// Implements: POST /api/v1/delegations
func CreateHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewDelegationService(db)

	return func(c *gin.Context) {
		var input services.CreateDelegationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "delegataire_id, id_entite, type_droit and date_debut are required",
			})
			return
		}

		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		d, err := svc.Create(c.Request.Context(), user.UserID, &input)
		if err != nil {
			if errors.Is(err, services.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create delegation",
			})
			return
		}

		c.JSON(http.StatusCreated, d)
	}
}

// RevokeHandler cancels a delegation.
// Implements: PATCH /api/v1/delegations/:id/revoke
func RevokeHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewDelegationService(db)

	return func(c *gin.Context) {
		d, err := svc.Revoke(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Delegation not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to revoke delegation",
			})
			return
		}

		c.JSON(http.StatusOK, d)
	}
}
