// metrics.go handles the text analysis endpoint.
//
// POST /api/v1/text/metrics — Compute counts for a block of text
//
// This is stateless and public: the word counter page fires it on every
// keystroke (debounced client-side), so it bypasses sessions entirely.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/textmetrics"
)

// TextMetrics computes the metrics snapshot for submitted text.
// POST /api/v1/text/metrics
func (h *Handler) TextMetrics(c *gin.Context) {
	var req models.TextMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Request body must be JSON with a 'text' field",
			Code:    http.StatusBadRequest,
		})
		return
	}

	c.JSON(http.StatusOK, textmetrics.Compute(req.Text))
}
