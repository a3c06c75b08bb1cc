// download.go handles artifact download and preview serving.
//
// GET /api/v1/session/artifact — Download the result artifact
// GET /api/v1/session/previews/:id — Serve a preview image
//
// Downloading does not consume the artifact: the user can re-download
// until they reset the session, run the tool again, or the session
// expires.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/middleware"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
)

// DownloadArtifact streams the session's result artifact.
// GET /api/v1/session/artifact
func (h *Handler) DownloadArtifact(c *gin.Context) {
	s := middleware.GetSession(c)

	a := s.Artifact()
	if a == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "no_artifact",
			Message: "No result is available. Run the tool first.",
			Code:    http.StatusNotFound,
		})
		return
	}

	filename := sanitizeFilename(a.Filename)
	if filename == "" {
		filename = "result"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, a.ContentType, a.Data)
}

// ServePreview streams a preview image by its handle.
// GET /api/v1/session/previews/:id
func (h *Handler) ServePreview(c *gin.Context) {
	s := middleware.GetSession(c)

	p, ok := s.Previews().Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "preview_not_found",
			Message: "Preview not found or already released",
			Code:    http.StatusNotFound,
		})
		return
	}

	c.Data(http.StatusOK, p.ContentType, p.Data)
}

// sanitizeFilename removes characters that aren't safe for filenames.
func sanitizeFilename(name string) string {
	// Replace common unsafe characters
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	// Collapse multiple hyphens/spaces
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)

	// Limit length
	if len(name) > 100 {
		name = name[:100]
	}

	return name
}
