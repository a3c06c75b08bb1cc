// items.go handles collection mutations: remove, reorder, rotate.
//
// DELETE /api/v1/session/items/:id
// POST   /api/v1/session/items/move — index-to-index (drag and drop)
// POST   /api/v1/session/items/:id/move — one position up/down
// POST   /api/v1/session/items/:id/rotate
//
// All of these return 409 while a processing run is in flight: the worker
// snapshotted the item order, so mutating under it would lie to the user
// about what the result contains.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/collection"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/session"
)

// DeleteItem removes one item from the session.
// DELETE /api/v1/session/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	s := middleware.GetSession(c)

	removed, err := s.RemoveItem(c.Param("id"))
	if err != nil {
		respondProcessing(c)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "item_not_found",
			Message: "No item with that id in the session",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// MoveItem reorders by explicit indices.
// POST /api/v1/session/items/move
func (h *Handler) MoveItem(c *gin.Context) {
	s := middleware.GetSession(c)

	var req models.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must include 'from_index' and 'to_index'",
			Code:    http.StatusBadRequest,
		})
		return
	}

	if err := s.MoveItem(*req.FromIndex, *req.ToIndex); err != nil {
		if err == session.ErrProcessing {
			respondProcessing(c)
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_move",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// MoveItemAdjacent nudges an item one position up or down. Moving the first
// item up (or the last down) is a quiet no-op, like the arrow buttons.
// POST /api/v1/session/items/:id/move
func (h *Handler) MoveItemAdjacent(c *gin.Context) {
	s := middleware.GetSession(c)

	var req models.MoveAdjacentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Body must include 'direction': 'up' or 'down'",
			Code:    http.StatusBadRequest,
		})
		return
	}

	found, err := s.MoveItemAdjacent(c.Param("id"), collection.Direction(req.Direction))
	if err != nil {
		respondProcessing(c)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "item_not_found",
			Message: "No item with that id in the session",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// RotateItem advances an item's rotation by 90 degrees (wraps at 360).
// POST /api/v1/session/items/:id/rotate
func (h *Handler) RotateItem(c *gin.Context) {
	s := middleware.GetSession(c)

	found, err := s.RotateItem(c.Param("id"))
	if err != nil {
		respondProcessing(c)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "item_not_found",
			Message: "No item with that id in the session",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, s.View())
}

func respondProcessing(c *gin.Context) {
	c.JSON(http.StatusConflict, models.ErrorResponse{
		Error:   "processing_in_progress",
		Message: "A processing run is in progress. Wait for it to finish or reset the session.",
		Code:    http.StatusConflict,
	})
}
