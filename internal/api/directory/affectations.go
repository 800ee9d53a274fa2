package directory

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

// CreateAffectationInput is the request body for granting a role to a user on
// an entity for a year.
type CreateAffectationInput struct {
	UserID    int64   `json:"id_user" binding:"required"`
	RoleID    string  `json:"id_role" binding:"required"`
	EntiteID  int64   `json:"id_entite" binding:"required"`
	AnneeID   int64   `json:"id_annee" binding:"required"`
	DateDebut string  `json:"date_debut" binding:"required"`
	DateFin   *string `json:"date_fin"`
}

// CreateAffectationHandler grants a role to a user on an entity for a year.
// Implements: POST /api/v1/affectations?id_entite=&id_annee=
//
// The scope guards in the middleware chain match the id_entite and id_annee
// query parameters against the caller's own affectations before this handler
// runs.
func CreateAffectationHandler(db *sql.DB) gin.HandlerFunc {
	affectationRepo := repositories.NewAffectationRepository(db)

	return func(c *gin.Context) {
		var input CreateAffectationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "id_user, id_role, id_entite, id_annee and date_debut are required",
			})
			return
		}

		if err := auth.ValidateRoleID(input.RoleID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		a := &models.Affectation{
			UserID:    input.UserID,
			RoleID:    input.RoleID,
			EntiteID:  input.EntiteID,
			AnneeID:   input.AnneeID,
			DateDebut: input.DateDebut,
			DateFin:   input.DateFin,
		}
		if err := affectationRepo.Create(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create affectation",
			})
			return
		}

		c.JSON(http.StatusCreated, a)
	}
}

// ListUserAffectationsHandler returns the detailed affectations of one user.
// Implements: GET /api/v1/users/:id/affectations
func ListUserAffectationsHandler(db *sql.DB) gin.HandlerFunc {
	affectationRepo := repositories.NewAffectationRepository(db)

	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		details, err := affectationRepo.ListDetailsByUser(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list affectations",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": details})
	}
}
