// Package orgchart implements the organigramme HTTP handlers: snapshot
// listing, tree generation, latest-tree resolution, and freezing.
package orgchart

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
	"github.com/univ-annuaire/univ-annuaire/internal/services"
)

// GenerateInput is the request body for snapshot generation. Both ids are
// required: generation is always anchored at an explicit root.
type GenerateInput struct {
	AnneeID  int64 `json:"id_annee" binding:"required,min=1"`
	RacineID int64 `json:"id_entite_racine" binding:"required,min=1"`
}

// ListHandler returns snapshot metadata, optionally filtered by year.
// Implements: GET /api/v1/organigrammes?anneeId=
func ListHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewOrganigrammeService(db)

	return func(c *gin.Context) {
		var yearID *int64
		if s := c.Query("anneeId"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anneeId"})
				return
			}
			yearID = &id
		}

		orgs, err := svc.List(c.Request.Context(), yearID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list organigrammes",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": orgs})
	}
}

// GenerateHandler records a new snapshot and returns it with its freshly built
// tree.
// Implements: POST /api/v1/organigrammes/generate
func GenerateHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewOrganigrammeService(db)

	return func(c *gin.Context) {
		var input GenerateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "id_annee and id_entite_racine are required",
			})
			return
		}

		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		org, tree, err := svc.Generate(c.Request.Context(), input.AnneeID, input.RacineID, user.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to generate organigramme",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"organigramme": org,
			"arbre":        tree,
		})
	}
}

// LatestHandler returns the latest snapshot for a year together with a live
// tree. When no snapshot exists yet, the snapshot is null but the tree is
// still built from the year's current entities at their default root.
// Implements: GET /api/v1/organigrammes/latest?anneeId=
func LatestHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewOrganigrammeService(db)

	return func(c *gin.Context) {
		yearID, err := strconv.ParseInt(c.Query("anneeId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "anneeId is required"})
			return
		}

		org, tree, err := svc.Latest(c.Request.Context(), yearID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve latest organigramme",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organigramme": org,
			"arbre":        tree,
		})
	}
}

// GetHandler returns one snapshot with its tree rebuilt from the stored root.
// Implements: GET /api/v1/organigrammes/:id
func GetHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewOrganigrammeService(db)

	return func(c *gin.Context) {
		org, tree, err := svc.GetTreeByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Organigramme not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load organigramme",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"organigramme": org,
			"arbre":        tree,
		})
	}
}

// FreezeHandler marks a snapshot as frozen. Freezing is idempotent: freezing
// an already-frozen snapshot returns it unchanged.
// Implements: PATCH /api/v1/organigrammes/:id/freeze
func FreezeHandler(db *sql.DB) gin.HandlerFunc {
	svc := services.NewOrganigrammeService(db)

	return func(c *gin.Context) {
		org, err := svc.Freeze(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Organigramme not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to freeze organigramme",
			})
			return
		}

		c.JSON(http.StatusOK, org)
	}
}
