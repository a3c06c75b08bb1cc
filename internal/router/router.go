// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/config"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/database"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/handlers"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/worker"
)

// Setup creates and configures the Gin router with all routes.
func Setup(db *database.DB, sessions *session.Store, registry *tools.Registry, pool *worker.Pool, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	h := handlers.NewHandler(db, sessions, registry, pool, cfg)
	rateLimiter := middleware.NewRateLimiter(cfg.SessionRateLimit)

	// --- Public Routes (no auth required) ---
	r.GET("/api/v1/health", h.HealthCheck)

	// Tool registry — the frontend renders tool pages from this
	r.GET("/api/v1/tools", h.ListTools)
	r.GET("/api/v1/tools/:name", h.GetTool)

	// Stateless text analysis (the word counter page)
	r.POST("/api/v1/text/metrics", h.TextMetrics)

	// Session creation is public; everything after it needs the token
	r.POST("/api/v1/sessions", h.CreateSession)

	// --- Session Routes (token-scoped) ---
	sess := r.Group("/api/v1/session")
	sess.Use(middleware.SessionAuth(sessions, cfg.JWTSecret))
	sess.Use(rateLimiter.RateLimit())
	{
		sess.GET("", h.GetSession)
		sess.POST("/reset", h.ResetSession)
		sess.DELETE("", h.DeleteSession)

		// Uploads
		sess.POST("/files", h.UploadFiles)

		// Collection mutations
		sess.DELETE("/items/:id", h.DeleteItem)
		sess.POST("/items/move", h.MoveItem)
		sess.POST("/items/:id/move", h.MoveItemAdjacent)
		sess.POST("/items/:id/rotate", h.RotateItem)

		// Processing
		sess.POST("/process", h.StartProcessing)
		sess.GET("/artifact", h.DownloadArtifact)
		sess.GET("/previews/:id", h.ServePreview)

		// Run history
		sess.GET("/runs", h.ListRuns)
		sess.GET("/runs/:id", h.GetRun)
	}

	return r
}
