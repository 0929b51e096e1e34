package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/store"
)

// defaultHistoryLimit caps GET /api/history when the client does not ask
// for a specific page size.
const defaultHistoryLimit = 50

// listHistoryHandler handles GET /api/history.
func (s *Server) listHistoryHandler(c *echo.Context) error {
	limit := defaultHistoryLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit: must be a positive integer")
		}
		limit = n
	}

	conversations, err := s.svcs.History.List(c.Request().Context(), limit)
	if err != nil {
		return mapServiceError(err)
	}
	if conversations == nil {
		conversations = []store.Conversation{}
	}
	return c.JSON(http.StatusOK, map[string]any{"conversations": conversations})
}

// deleteConversationHandler handles DELETE /api/history/:conversationID.
// Removes the conversation together with its logs and decision tree.
func (s *Server) deleteConversationHandler(c *echo.Context) error {
	id := c.Param("conversationID")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation id is required")
	}

	if err := s.svcs.History.Delete(c.Request().Context(), id); err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
