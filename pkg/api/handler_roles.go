package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/services"
)

// listRolesHandler handles GET /api/roles.
// Returns built-in roles in palette order followed by custom roles.
func (s *Server) listRolesHandler(c *echo.Context) error {
	roles, err := s.svcs.Roles.List(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"roles": roles})
}

// createRoleHandler handles POST /api/roles.
func (s *Server) createRoleHandler(c *echo.Context) error {
	var req services.RoleInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	if req.Prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prompt field is required")
	}

	id, err := s.svcs.Roles.Create(c.Request().Context(), req)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, CreatedResponse{ID: id, Success: true})
}

// deleteRoleHandler handles DELETE /api/roles/:id.
// Built-in roles cannot be deleted; the service reports those as 403.
func (s *Server) deleteRoleHandler(c *echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "role id is required")
	}

	if err := s.svcs.Roles.Delete(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
