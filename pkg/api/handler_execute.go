package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// executeHandler handles POST /api/execute. Council execution streams over
// the WebSocket endpoint; the REST route only points callers there.
func (s *Server) executeHandler(c *echo.Context) error {
	return echo.NewHTTPError(http.StatusBadRequest,
		"use the WebSocket endpoint /ws/execute for council execution")
}
