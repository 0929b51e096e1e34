package api

import (
	"net/http"
	"strings"

	"github.com/coder/websocket"
	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/ratelimit"
)

// wsHandler handles GET /ws/execute: upgrades the connection and hands it
// to the session manager, which blocks until the socket closes.
func (s *Server) wsHandler(c *echo.Context) error {
	if s.sessions == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "WebSocket not available")
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: originPatterns(s.cfg.Server.CORSOrigins),
	})
	if err != nil {
		return err
	}

	clientID := ratelimit.ClientID(
		c.Request().Header.Get("X-Forwarded-For"),
		c.Request().RemoteAddr,
	)
	s.sessions.HandleConnection(c.Request().Context(), conn, clientID)
	return nil
}

// originPatterns strips schemes from the CORS allow list so it can gate
// the WebSocket handshake, which matches on host only.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o = strings.TrimSuffix(o, "/"); o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
