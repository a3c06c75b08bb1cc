// tools.go exposes the tool registry so the frontend can render tool
// pages (accepted types, option forms) from data instead of hardcoding.
//
// GET /api/v1/tools
// GET /api/v1/tools/:name
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/models"
	"github.com/Shimizu-Technology/pdf-toolkit-api/internal/tools"
)

// toolView is the public shape of a registry entry. Endpoints and local
// op names are internal wiring and stay out of the response.
type toolView struct {
	Name     string       `json:"name"`
	Title    string       `json:"title"`
	Mode     tools.Mode   `json:"mode"`
	Accept   []string     `json:"accept"`
	MaxFiles int          `json:"max_files,omitempty"`
	Options  []optionView `json:"options,omitempty"`
}

type optionView struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Default any      `json:"default,omitempty"`
	Enum    []string `json:"enum,omitempty"`
}

func newToolView(t *tools.Tool) toolView {
	v := toolView{
		Name:     t.Name,
		Title:    t.Title,
		Mode:     t.Mode,
		Accept:   t.Accept,
		MaxFiles: t.MaxFiles,
	}
	for _, o := range t.Options {
		v.Options = append(v.Options, optionView{
			Name:    o.Name,
			Type:    o.Type,
			Default: o.Default,
			Enum:    o.Enum,
		})
	}
	return v
}

// ListTools returns every registered tool.
// GET /api/v1/tools
func (h *Handler) ListTools(c *gin.Context) {
	views := make([]toolView, 0)
	for _, name := range h.Tools.Names() {
		if t, ok := h.Tools.Get(name); ok {
			views = append(views, newToolView(t))
		}
	}
	c.JSON(http.StatusOK, gin.H{"tools": views, "count": len(views)})
}

// GetTool returns one tool's metadata.
// GET /api/v1/tools/:name
func (h *Handler) GetTool(c *gin.Context) {
	t, ok := h.Tools.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "unknown_tool",
			Message: "No tool registered under that name",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, newToolView(t))
}
