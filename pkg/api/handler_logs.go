package api

import (
	"net/http"
	"strconv"

	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/store"
)

// roundFromQuery parses the optional round_number query parameter. Zero
// means all rounds.
func roundFromQuery(c *echo.Context) (int, error) {
	v := c.QueryParam("round_number")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid round_number: must be a positive integer")
	}
	return n, nil
}

// listLogsHandler handles GET /api/logs/:conversationID.
func (s *Server) listLogsHandler(c *echo.Context) error {
	id := c.Param("conversationID")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation id is required")
	}
	round, err := roundFromQuery(c)
	if err != nil {
		return err
	}

	logs, err := s.svcs.Logs.Logs(c.Request().Context(), id, round)
	if err != nil {
		return mapServiceError(err)
	}
	if logs == nil {
		logs = []store.ExecutionLog{}
	}
	return c.JSON(http.StatusOK, map[string]any{"logs": logs})
}

// listRoundsHandler handles GET /api/logs/:conversationID/rounds.
func (s *Server) listRoundsHandler(c *echo.Context) error {
	id := c.Param("conversationID")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation id is required")
	}

	rounds, err := s.svcs.Logs.Rounds(c.Request().Context(), id)
	if err != nil {
		return mapServiceError(err)
	}
	if rounds == nil {
		rounds = []int{}
	}
	return c.JSON(http.StatusOK, map[string]any{"rounds": rounds})
}

// decisionTreeHandler handles GET /api/logs/:conversationID/decision-tree.
func (s *Server) decisionTreeHandler(c *echo.Context) error {
	id := c.Param("conversationID")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation id is required")
	}
	round, err := roundFromQuery(c)
	if err != nil {
		return err
	}

	tree, err := s.svcs.Logs.DecisionTree(c.Request().Context(), id, round)
	if err != nil {
		return mapServiceError(err)
	}
	if tree == nil {
		tree = []store.Decision{}
	}
	return c.JSON(http.StatusOK, map[string]any{"tree": tree})
}
