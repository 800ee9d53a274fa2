// Package middleware provides Gin HTTP middleware for authentication,
// authorization guards, rate limiting, security headers, and audit logging.
//
// Middleware ordering matters and is enforced in router.go:
//
//	Security → RateLimit → RequestID → Metrics → Auth → guards → Audit → Handler
//
// Security headers run first so they appear on all responses including errors.
// Rate limiting runs before auth to block brute force before any DB work. Auth
// resolves the CurrentUser; the permission and scope guards read from that
// context. Audit runs after the guards so only authorized mutations are
// recorded as successful actions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/config"
)

// Context keys set by the auth middleware.
const (
	// CurrentUserKey holds the resolved *auth.CurrentUser.
	CurrentUserKey = "current_user"
	// UserIDKey holds the account id as int64.
	UserIDKey = "user_id"
)

// MockLoginHeader carries the caller's login in mock auth mode. Mock mode is a
// development convenience and is refused by config validation outside the
// development environment.
const MockLoginHeader = "x-user-login"

// CurrentUser returns the resolved identity from the context, or nil when the
// request is unauthenticated.
func CurrentUser(c *gin.Context) *auth.CurrentUser {
	v, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil
	}
	user, ok := v.(*auth.CurrentUser)
	if !ok {
		return nil
	}
	return user
}

// AuthMiddleware resolves the request identity according to the configured
// auth mode and stores it in the context. The identity is rebuilt from the
// database on every request: an affectation granted a second ago is already
// visible to this request's permission checks.
//
// Modes:
//   - mock: the x-user-login header names the account directly.
//   - jwt:  a Bearer token issued by POST /auth/login carries the login; the
//     affectations are still reloaded here, never read from the token.
func AuthMiddleware(cfg *config.Config, sessions *auth.SessionBuilder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var login string

		switch cfg.Auth.Mode {
		case config.AuthModeMock:
			login = strings.TrimSpace(c.GetHeader(MockLoginHeader))
			if login == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Missing " + MockLoginHeader + " header",
				})
				return
			}
		case config.AuthModeJWT:
			header := c.GetHeader("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Missing bearer token",
				})
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := auth.ValidateJWT(token)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid token",
				})
				return
			}
			login = claims.Login
		default:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Unknown auth mode",
			})
			return
		}

		user, err := sessions.BuildByLogin(c.Request.Context(), login)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user",
			})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Unknown user",
			})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Set(UserIDKey, user.UserID)
		c.Set("auth_method", string(cfg.Auth.Mode))

		c.Next()
	}
}
