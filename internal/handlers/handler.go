// Package handlers contains HTTP handler functions for the API.
//
// Go Pattern: Handlers in Gin receive a *gin.Context which provides:
// - Request data (params, query, body, headers)
// - Response methods (JSON, String, Status)
// - Middleware data (c.Get/c.Set)
//
// We group related handlers into a struct (Handler) that holds shared
// dependencies.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/config"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/database"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/worker"
)

// Handler holds shared dependencies for all HTTP handlers.
// Go Pattern: Dependency injection via struct fields. Instead of global
// variables or service locators, we pass dependencies explicitly.
// This makes testing easy — just create a Handler with test dependencies.
type Handler struct {
	DB       *database.DB
	Sessions *session.Store
	Tools    *tools.Registry
	Pool     *worker.Pool
	Cfg      *config.Config
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(db *database.DB, sessions *session.Store, registry *tools.Registry, pool *worker.Pool, cfg *config.Config) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sessions,
		Tools:    registry,
		Pool:     pool,
		Cfg:      cfg,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	// Check database connectivity
	dbStatus := "healthy"
	if err := h.DB.HealthCheck(c.Request.Context()); err != nil {
		dbStatus = "unhealthy: " + err.Error()
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:   "ok",
		Version:  "1.0.0",
		Database: dbStatus,
		Workers:  h.Pool.WorkerCount(),
		Sessions: h.Sessions.Len(),
	})
}
