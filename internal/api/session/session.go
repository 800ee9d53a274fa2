// Package session implements the authentication endpoints: token issuance and
// identity introspection. Tokens carry only the login; the caller's
// affectations are reloaded from the database on every request by the auth
// middleware, so no permission data is ever baked into a token.
package session

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
)

// LoginInput is the login request body.
type LoginInput struct {
	Login string `json:"login" binding:"required"`
}

// LoginHandler issues a JWT for a known login.
// Implements: POST /api/v1/auth/login
//
// There is no password exchange here: the deployment fronts this service with
// the university's CAS/SSO, which asserts the login upstream. The handler only
// verifies the login exists in the directory before minting a token.
func LoginHandler(db *sql.DB) gin.HandlerFunc {
	sessions := auth.NewSessionBuilder(db)

	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "login is required",
			})
			return
		}

		user, err := sessions.BuildByLogin(c.Request.Context(), input.Login)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unknown user",
			})
			return
		}

		token, err := auth.GenerateJWT(user.UserID, user.Login)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to issue token",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// MeHandler returns the resolved identity with its full affectation set.
// Implements: GET /api/v1/auth/me
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Not authenticated",
			})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
