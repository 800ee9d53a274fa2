package directory

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// ListEntitesHandler returns structure entities, optionally filtered by year.
// Implements: GET /api/v1/entites?anneeId=
func ListEntitesHandler(db *sql.DB) gin.HandlerFunc {
	entiteRepo := repositories.NewEntiteRepository(db)

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

		entites, err := entiteRepo.List(c.Request.Context(), yearID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list entites",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": entites})
	}
}

// GetEntiteHandler returns one structure entity.
// Implements: GET /api/v1/entites/:entiteId
func GetEntiteHandler(db *sql.DB) gin.HandlerFunc {
	entiteRepo := repositories.NewEntiteRepository(db)

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("entiteId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entite not found"})
			return
		}

		entite, err := entiteRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query entite",
			})
			return
		}
		if entite == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entite not found"})
			return
		}

		c.JSON(http.StatusOK, entite)
	}
}
