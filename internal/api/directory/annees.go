// Package directory implements the reference-data HTTP handlers: academic
// years, structure entities, roles, users, and affectations. These are the
// read-mostly resources everything else in the annuaire hangs off.
package directory

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/services"
)

// ListAnneesHandler returns all academic years, optionally filtered by statut.
// Implements: GET /api/v1/annees
func ListAnneesHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewAnneeService(db)

	return func(c *gin.Context) {
		var statut *string
		if s := c.Query("statut"); s != "" {
			statut = &s
		}

		annees, err := svc.List(c.Request.Context(), statut)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list annees",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": annees})
	}
}

// GetAnneeHandler returns one academic year.
// Implements: GET /api/v1/annees/:id
func GetAnneeHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewAnneeService(db)

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Annee not found"})
			return
		}

		annee, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query annee",
			})
			return
		}
		if annee == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Annee not found"})
			return
		}

		c.JSON(http.StatusOK, annee)
	}
}

// CloneAnneeHandler creates a new academic year seeded from an existing one.
// Implements: POST /api/v1/annees/:id/clone
//
// The source id is taken from the path; a malformed source id still creates
// the year, just without the source link.
func CloneAnneeHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewAnneeService(db)

	return func(c *gin.Context) {
		var input services.CloneYearInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "libelle, date_debut, date_fin and statut are required",
			})
			return
		}

		annee, err := svc.Clone(c.Request.Context(), c.Param("id"), &input)
		if err != nil {
			if errors.Is(err, services.ErrInvalidInput) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to clone annee",
			})
			return
		}

		c.JSON(http.StatusCreated, annee)
	}
}

// parseID parses a numeric path parameter.
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
