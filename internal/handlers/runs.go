// runs.go handles run history endpoints.
//
// GET /api/v1/session/runs — Recent runs for this session
// GET /api/v1/session/runs/:id — One run record
//
// These are scoped to the authenticated session: the run table holds
// rows for every session, but a token only ever sees its own.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
)

// ListRuns returns recent runs for the session.
// GET /api/v1/session/runs?limit=20
func (h *Handler) ListRuns(c *gin.Context) {
	s := middleware.GetSession(c)

	limit := 20
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	runs, err := h.DB.ListToolRuns(c.Request.Context(), limit, s.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list runs",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun returns a single run record.
// GET /api/v1/session/runs/:id
func (h *Handler) GetRun(c *gin.Context) {
	s := middleware.GetSession(c)

	run, err := h.DB.GetToolRun(c.Request.Context(), c.Param("id"))
	if err != nil || run.SessionID != s.ID {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "run_not_found",
			Message: "No run with that id for this session",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.JSON(http.StatusOK, run)
}
