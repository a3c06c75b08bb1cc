// process.go handles starting a processing run.
//
// POST /api/v1/session/process — Queue the session's items for processing
//
// The handler answers 202 with a run id; the worker pool does the actual
// work and delivers the artifact back to the session. The page polls
// GET /api/v1/session until the state flips to "result" (or an error
// message appears).
package handlers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/worker"
)

// StartProcessing validates settings, snapshots the session, and queues a run.
// POST /api/v1/session/process
func (h *Handler) StartProcessing(c *gin.Context) {
	s := middleware.GetSession(c)

	tool, ok := h.Tools.Get(s.Tool)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "unknown_tool",
			Message: "The session's tool is no longer registered",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// An empty body means "all defaults" — only a malformed body is an error.
	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be JSON with an optional 'settings' object",
			Code:    http.StatusBadRequest,
		})
		return
	}

	settings, err := tool.ResolveSettings(req.Settings)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "invalid_settings",
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
		})
		return
	}

	gen, payload, err := s.BeginProcessing()
	if err != nil {
		switch err {
		case session.ErrProcessing:
			respondProcessing(c)
		case session.ErrNoItems:
			c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:   "no_items",
				Message: "Upload at least one file before processing",
				Code:    http.StatusUnprocessableEntity,
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "process_failed",
				Message: "Failed to start processing",
				Code:    http.StatusInternalServerError,
			})
		}
		return
	}

	names := make([]string, 0, len(payload.Items))
	for _, it := range payload.Items {
		names = append(names, it.Name)
	}
	if payload.SourceName != "" {
		names = []string{payload.SourceName}
	}

	run := &models.ToolRun{
		SessionID:     s.ID,
		Tool:          tool.Name,
		Status:        models.RunPending,
		ItemCount:     len(payload.Items),
		OriginalNames: strings.Join(names, ", "),
	}
	if err := h.DB.CreateToolRun(c.Request.Context(), run); err != nil {
		log.Printf("❌ Failed to create run record: %v", err)
		s.ApplyError(gen, "Failed to start processing. Please try again.")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "process_failed",
			Message: "Failed to record the processing run",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	job := worker.Job{
		RunID:      run.ID,
		SessionID:  s.ID,
		Generation: gen,
		Tool:       tool,
		Settings:   settings,
		Payload:    payload,
		CreatedAt:  run.CreatedAt,
	}
	if err := h.Pool.Submit(job); err != nil {
		s.ApplyError(gen, "The server is busy. Please try again in a moment.")
		run.Status = models.RunFailed
		run.ErrorMessage = err.Error()
		h.DB.UpdateToolRun(c.Request.Context(), run)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "queue_full",
			Message: "The processing queue is full. Try again shortly.",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	c.JSON(http.StatusAccepted, models.ProcessAccepted{
		RunID:  run.ID,
		Status: models.RunPending,
	})
}
