package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/config"
)

// listPatternsHandler handles GET /api/patterns.
// An optional category query parameter narrows the listing.
func (s *Server) listPatternsHandler(c *echo.Context) error {
	var patterns []*config.PatternConfig
	if v := c.QueryParam("category"); v != "" {
		category := config.PatternCategory(v)
		if !category.IsValid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category: "+v)
		}
		patterns = s.cfg.PatternRegistry.ByCategory(category)
	} else {
		patterns = s.cfg.PatternRegistry.All()
	}

	return c.JSON(http.StatusOK, map[string]any{
		"patterns":   patterns,
		"categories": config.GetBuiltinConfig().Categories,
	})
}
