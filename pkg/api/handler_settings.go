package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// getSettingsHandler handles GET /api/settings.
func (s *Server) getSettingsHandler(c *echo.Context) error {
	settings, err := s.svcs.Settings.All(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"settings": settings})
}

// updateSettingsHandler handles POST /api/settings.
// Accepts either {"settings": {...}} or a bare key-value object.
func (s *Server) updateSettingsHandler(c *echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	values := body
	if nested, ok := body["settings"].(map[string]any); ok {
		values = nested
	}
	if len(values) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "settings object is required")
	}

	if err := s.svcs.Settings.Upsert(c.Request().Context(), values); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
