package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"
)

// listModelsHandler handles GET /api/models.
// Serves the cached catalog unless it is stale or refresh=true.
func (s *Server) listModelsHandler(c *echo.Context) error {
	refresh := false
	if v := c.QueryParam("refresh"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid refresh: must be a boolean")
		}
		refresh = b
	}

	catalog, err := s.svcs.Catalog.Models(c.Request().Context(), refresh)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, catalog)
}

// listFavouritesHandler handles GET /api/models/favourites.
func (s *Server) listFavouritesHandler(c *echo.Context) error {
	ids, err := s.svcs.Favourites.List(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(http.StatusOK, map[string]any{"favourites": ids})
}

// addFavouriteHandler handles POST /api/models/favourites.
func (s *Server) addFavouriteHandler(c *echo.Context) error {
	var req FavouriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ModelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "model_id field is required")
	}

	if err := s.svcs.Favourites.Add(c.Request().Context(), req.ModelID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// removeFavouriteHandler handles DELETE /api/models/favourites/*.
// Model ids carry a provider slash, so the route is a wildcard rather
// than a single path parameter.
func (s *Server) removeFavouriteHandler(c *echo.Context) error {
	modelID := c.Param("*")
	if modelID == "" {
		modelID = c.Param("modelID")
	}
	if modelID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "model id is required")
	}

	if err := s.svcs.Favourites.Remove(c.Request().Context(), modelID); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
