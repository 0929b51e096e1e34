package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// listPresetsHandler handles GET /api/presets.
func (s *Server) listPresetsHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"presets": s.cfg.PresetRegistry.All(),
		"default": s.cfg.PresetRegistry.Default().ID,
	})
}
