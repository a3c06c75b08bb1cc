// sessions.go handles session lifecycle endpoints.
//
// POST   /api/v1/sessions — Create a session for a tool (public)
// GET    /api/v1/session — Current session snapshot
// POST   /api/v1/session/reset — Release everything, back to Idle
// DELETE /api/v1/session — Tear the session down entirely
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
)

// CreateSession creates a new tool session and returns its bearer token.
// POST /api/v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must include a 'tool' field",
			Code:    http.StatusBadRequest,
		})
		return
	}

	tool, ok := h.Tools.Get(req.Tool)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "unknown_tool",
			Message: fmt.Sprintf("Unknown tool '%s'. Available: %s", req.Tool, strings.Join(h.Tools.Names(), ", ")),
			Code:    http.StatusNotFound,
		})
		return
	}

	s := h.Sessions.Create(tool.Name)

	token, err := middleware.GenerateSessionToken(s.ID, tool.Name, h.Cfg.JWTSecret, h.Cfg.SessionTTL)
	if err != nil {
		h.Sessions.Delete(s.ID)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "token_error",
			Message: "Failed to issue a session token",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusCreated, models.CreateSessionResponse{
		SessionID: s.ID,
		Tool:      tool.Name,
		Token:     token,
		Accepts:   tool.Accept,
		MaxFiles:  tool.MaxFiles,
	})
}

// GetSession returns the current session snapshot.
// GET /api/v1/session
func (h *Handler) GetSession(c *gin.Context) {
	s := middleware.GetSession(c)
	c.JSON(http.StatusOK, s.View())
}

// ResetSession releases all session resources and returns it to Idle.
// The session itself (and its token) stays valid.
// POST /api/v1/session/reset
func (h *Handler) ResetSession(c *gin.Context) {
	s := middleware.GetSession(c)
	s.Reset()
	c.JSON(http.StatusOK, s.View())
}

// DeleteSession tears the session down entirely.
// DELETE /api/v1/session
func (h *Handler) DeleteSession(c *gin.Context) {
	s := middleware.GetSession(c)
	h.Sessions.Delete(s.ID)
	c.Status(http.StatusNoContent)
}
