// Package api wires together all HTTP routes for the annuaire backend.
//
// Every business route lives under /api/v1 and runs behind the full middleware
// chain: security headers, rate limiting, request ids, metrics, authentication,
// permission and scope guards, then audit. Only /health, /version, and the
// login endpoint skip authentication.
package api

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/api/delegations"
	"github.com/univ-annuaire/univ-annuaire/internal/api/directory"
	"github.com/univ-annuaire/univ-annuaire/internal/api/exports"
	"github.com/univ-annuaire/univ-annuaire/internal/api/journal"
	"github.com/univ-annuaire/univ-annuaire/internal/api/orgchart"
	"github.com/univ-annuaire/univ-annuaire/internal/api/session"
	"github.com/univ-annuaire/univ-annuaire/internal/api/signalements"
	"github.com/univ-annuaire/univ-annuaire/internal/audit"
	"github.com/univ-annuaire/univ-annuaire/internal/auth"
	"github.com/univ-annuaire/univ-annuaire/internal/config"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
	"github.com/univ-annuaire/univ-annuaire/internal/middleware"
)

// BackgroundServices holds resources that must be stopped during graceful
// shutdown. The caller (cmd/server) calls Shutdown() after the HTTP server has
// drained.
type BackgroundServices struct {
	rateLimiters []*middleware.RateLimiter
	auditShipper *audit.FileShipper
}

// Shutdown stops background goroutines and closes the audit file.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	if bg.auditShipper != nil {
		if err := bg.auditShipper.Close(); err != nil {
			slog.Error("failed to close audit shipper", "error", err)
		}
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	sessions := auth.NewSessionBuilder(db)

	// Audit recorder: journal table always, file shipper when configured.
	var shipper *audit.FileShipper
	if cfg.Audit.FilePath != "" {
		var err error
		shipper, err = audit.NewFileShipper(&audit.FileConfig{
			Path:       cfg.Audit.FilePath,
			MaxSizeMB:  cfg.Audit.FileMaxSizeMB,
			MaxBackups: cfg.Audit.FileMaxBackups,
		})
		if err != nil {
			log.Fatalf("Failed to open audit file %s: %v", cfg.Audit.FilePath, err)
		}
	}
	var recorderShipper audit.Shipper
	if shipper != nil {
		recorderShipper = shipper
	}
	recorder := audit.NewRecorder(repositories.NewAuditRepository(db), recorderShipper)

	// Rate limiters. The auth limiter is deliberately tighter than the general
	// one so login cannot be brute forced at the general request rate.
	authRateLimiter := middleware.NewRateLimiter(middleware.AuthRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.Security.RateLimiting.RequestsPerMinute,
		BurstSize:         cfg.Security.RateLimiting.Burst,
		CleanupInterval:   5 * time.Minute,
	})

	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))

	router.GET("/health", healthCheckHandler(db))
	router.GET("/version", versionHandler())

	apiV1 := router.Group("/api/v1")
	{
		// Login is the only unauthenticated business endpoint.
		authGroup := apiV1.Group("/auth")
		if cfg.Security.RateLimiting.Enabled {
			authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		}
		authGroup.POST("/login", session.LoginHandler(db))

		authed := apiV1.Group("")
		if cfg.Security.RateLimiting.Enabled {
			authed.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		}
		authed.Use(middleware.AuthMiddleware(cfg, sessions))
		authed.Use(middleware.AuditMiddleware(recorder, &cfg.Audit))
		{
			authed.GET("/auth/me", session.MeHandler())

			anneesGroup := authed.Group("/annees")
			{
				anneesGroup.GET("", middleware.RequireRead, directory.ListAnneesHandler(db))
				anneesGroup.GET("/:id", middleware.RequireRead, directory.GetAnneeHandler(db))
				anneesGroup.POST("/:id/clone", middleware.RequireImport, directory.CloneAnneeHandler(db))
			}

			entitesGroup := authed.Group("/entites")
			entitesGroup.Use(middleware.RequireRead)
			{
				entitesGroup.GET("", directory.ListEntitesHandler(db))
				entitesGroup.GET("/:entiteId", middleware.EntityScopeGuard(), directory.GetEntiteHandler(db))
			}

			authed.GET("/roles", middleware.RequireRead, directory.ListRolesHandler(db))

			usersGroup := authed.Group("/users")
			{
				usersGroup.GET("", middleware.RequireRead, directory.ListUsersHandler(db))
				usersGroup.GET("/:id", middleware.RequireRead, directory.GetUserHandler(db))
				usersGroup.GET("/:id/affectations", middleware.RequireRead, directory.ListUserAffectationsHandler(db))
				usersGroup.POST("", middleware.RequireWrite, directory.CreateUserHandler(db))
				usersGroup.PUT("/:id", middleware.RequireWrite, directory.UpdateUserHandler(db))
				usersGroup.DELETE("/:id", middleware.RequireWrite, directory.DeleteUserHandler(db))
			}

			authed.POST("/affectations",
				middleware.RequireWrite,
				middleware.EntityScopeGuard(),
				middleware.YearScopeGuard(),
				directory.CreateAffectationHandler(db))

			orgsGroup := authed.Group("/organigrammes")
			{
				orgsGroup.GET("", middleware.RequireRead, middleware.YearScopeGuard(), orgchart.ListHandler(db))
				orgsGroup.GET("/latest", middleware.RequireRead, middleware.YearScopeGuard(), orgchart.LatestHandler(db))
				orgsGroup.GET("/:id", middleware.RequireRead, orgchart.GetHandler(db))
				orgsGroup.POST("/generate", middleware.RequireWrite, orgchart.GenerateHandler(db))
				orgsGroup.PATCH("/:id/freeze", middleware.RequireFreezeYear, orgchart.FreezeHandler(db))
			}

			delegationsGroup := authed.Group("/delegations")
			{
				delegationsGroup.GET("", middleware.RequireRead, delegations.ListHandler(db))
				delegationsGroup.POST("", middleware.RequireDelegate, middleware.EntityScopeGuard(), delegations.CreateHandler(db))
				delegationsGroup.PATCH("/:id/revoke", middleware.RequireDelegate, delegations.RevokeHandler(db))
			}

			signalementsGroup := authed.Group("/signalements")
			{
				signalementsGroup.GET("", middleware.RequireRead, signalements.ListHandler(db))
				signalementsGroup.POST("", middleware.RequireRead, signalements.CreateHandler(db))
				signalementsGroup.PATCH("/:id", middleware.RequireWrite, signalements.UpdateHandler(db))
			}

			authed.GET("/exports/responsables",
				middleware.RequireExport,
				middleware.YearScopeGuard(),
				exports.ResponsablesHandler(db))

			// The journal names people and what changed about them, so
			// reading it takes the same level as writing the directory.
			authed.GET("/audit", middleware.RequireWrite, journal.ListHandler(db))
		}
	}

	bg := &BackgroundServices{
		rateLimiters: []*middleware.RateLimiter{authRateLimiter, generalRateLimiter},
		auditShipper: shipper,
	}

	return router, bg
}

// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		// The global slog handler (text or json) is configured in
		// telemetry.SetupLogger from cfg.Logging.Format.
		requestID, _ := c.Get(middleware.RequestIDKey)
		slog.LogAttrs(
			c.Request.Context(),
			slog.LevelInfo,
			"http request",
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("query", query),
			slog.Int("status", c.Writer.Status()),
			slog.Int("size", c.Writer.Size()),
			slog.Duration("latency", latency),
			slog.String("ip", c.ClientIP()),
			slog.String("request_id", fmt.Sprintf("%v", requestID)),
			slog.String("user_agent", c.Request.UserAgent()),
		)
	}
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-User-Login")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
