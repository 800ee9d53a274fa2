package directory

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/db/models"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// CreateUserInput is the request body for user creation. Affectations, when
// present, are granted in the same request right after the account exists.
type CreateUserInput struct {
	Login               string                   `json:"login" binding:"required"`
	Nom                 string                   `json:"nom" binding:"required"`
	Prenom              string                   `json:"prenom" binding:"required"`
	EmailInstitutionnel *string                  `json:"email_institutionnel"`
	Telephone           *string                  `json:"telephone"`
	Bureau              *string                  `json:"bureau"`
	Affectations        []InitialAffectationInput `json:"affectations"`
}

// InitialAffectationInput is one role grant attached to a user creation.
type InitialAffectationInput struct {
	RoleID    string  `json:"id_role" binding:"required"`
	EntiteID  int64   `json:"id_entite" binding:"required"`
	AnneeID   int64   `json:"id_annee" binding:"required"`
	DateDebut string  `json:"date_debut" binding:"required"`
	DateFin   *string `json:"date_fin"`
}

// UpdateUserInput is the request body for user updates. Login is immutable.
type UpdateUserInput struct {
	Nom                 string  `json:"nom" binding:"required"`
	Prenom              string  `json:"prenom" binding:"required"`
	EmailInstitutionnel *string `json:"email_institutionnel"`
	Telephone           *string `json:"telephone"`
	Bureau              *string `json:"bureau"`
}

// ListUsersHandler returns a paginated user listing with optional free-text and
// year filters, each user carrying its flattened role summary.
// Implements: GET /api/v1/users?q=&anneeId=&limit=&offset=
func ListUsersHandler(db *sql.DB) gin.HandlerFunc {
	userRepo := repositories.NewUtilisateurRepository(db)

	return func(c *gin.Context) {
		filter := c.Query("q")

		var yearID *int64
		if s := c.Query("anneeId"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid anneeId"})
				return
			}
			yearID = &id
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
		if limit < 1 || limit > maxPageSize {
			limit = defaultPageSize
		}
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if offset < 0 {
			offset = 0
		}

		users, total, err := userRepo.List(c.Request.Context(), filter, yearID, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list users",
			})
			return
		}

		items := make([]models.UtilisateurWithRoles, 0, len(users))
		for _, u := range users {
			roles, err := userRepo.GetRoleRows(c.Request.Context(), u.ID, yearID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to load user roles",
				})
				return
			}
			items = append(items, models.UtilisateurWithRoles{Utilisateur: *u, Roles: roles})
		}

		c.JSON(http.StatusOK, gin.H{
			"items":  items,
			"total":  total,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// GetUserHandler returns a single user with its role summary.
// Implements: GET /api/v1/users/:id
func GetUserHandler(db *sql.DB) gin.HandlerFunc {
	userRepo := repositories.NewUtilisateurRepository(db)

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		roles, err := userRepo.GetRoleRows(c.Request.Context(), user.ID, nil)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load user roles",
			})
			return
		}

		c.JSON(http.StatusOK, models.UtilisateurWithRoles{Utilisateur: *user, Roles: roles})
	}
}

// CreateUserHandler creates a directory account.
// Implements: POST /api/v1/users
func CreateUserHandler(db *sql.DB) gin.HandlerFunc {
	userRepo := repositories.NewUtilisateurRepository(db)
	affectationRepo := repositories.NewAffectationRepository(db)

	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "login, nom and prenom are required",
			})
			return
		}

		// Validate the role keys before touching the database so a bad grant
		// does not leave a half-created account behind.
		for _, a := range input.Affectations {
			if err := auth.ValidateRoleID(a.RoleID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		// Logins are unique; reject duplicates explicitly rather than relying
		// on the constraint error.
		existing, err := userRepo.GetByLogin(c.Request.Context(), input.Login)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query user",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Login already exists"})
			return
		}

		user := &models.Utilisateur{
			Login:               input.Login,
			Nom:                 input.Nom,
			Prenom:              input.Prenom,
			EmailInstitutionnel: input.EmailInstitutionnel,
			Telephone:           input.Telephone,
			Bureau:              input.Bureau,
		}
		if err := userRepo.Create(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create user",
			})
			return
		}

		roles := make([]models.UtilisateurRole, 0, len(input.Affectations))
		for _, a := range input.Affectations {
			aff := &models.Affectation{
				UserID:    user.ID,
				RoleID:    a.RoleID,
				EntiteID:  a.EntiteID,
				AnneeID:   a.AnneeID,
				DateDebut: a.DateDebut,
				DateFin:   a.DateFin,
			}
			if err := affectationRepo.Create(c.Request.Context(), aff); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to create affectation",
				})
				return
			}
			roles = append(roles, models.UtilisateurRole{
				Role:     a.RoleID,
				EntiteID: a.EntiteID,
				AnneeID:  a.AnneeID,
			})
		}

		c.JSON(http.StatusCreated, models.UtilisateurWithRoles{Utilisateur: *user, Roles: roles})
	}
}

// UpdateUserHandler updates the mutable fields of a directory account.
// Implements: PUT /api/v1/users/:id
func UpdateUserHandler(db *sql.DB) gin.HandlerFunc {
	userRepo := repositories.NewUtilisateurRepository(db)

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "nom and prenom are required",
			})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		user.Nom = input.Nom
		user.Prenom = input.Prenom
		user.EmailInstitutionnel = input.EmailInstitutionnel
		user.Telephone = input.Telephone
		user.Bureau = input.Bureau

		if err := userRepo.Update(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update user",
			})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// DeleteUserHandler removes a directory account; affectations go with it.
// Implements: DELETE /api/v1/users/:id
func DeleteUserHandler(db *sql.DB) gin.HandlerFunc {
	userRepo := repositories.NewUtilisateurRepository(db)

	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		user, err := userRepo.GetByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to query user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := userRepo.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete user",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
