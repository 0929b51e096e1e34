// Package api exposes the HTTP and WebSocket surface: the REST routes
// for catalog, roles, patterns, presets, settings, and history, plus the
// /ws/execute endpoint that hands connections to the session manager.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/services"
	"github.com/curia-dev/curia/pkg/session"
)

// Services bundles the service-layer dependencies the handlers call.
type Services struct {
	Catalog    *services.CatalogService
	Favourites *services.FavouriteService
	Roles      *services.RoleService
	History    *services.HistoryService
	Logs       *services.LogService
	Settings   *services.SettingsService
}

// Server is the HTTP server. Handlers delegate to the service layer and
// map its errors to HTTP statuses; the WebSocket handler delegates to the
// session manager.
type Server struct {
	cfg      *config.Config
	svcs     Services
	sessions *session.Manager

	echo *echo.Echo
	http *http.Server
}

// NewServer builds the server and registers all routes.
func NewServer(cfg *config.Config, svcs Services, sessions *session.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		svcs:     svcs,
		sessions: sessions,
		echo:     echo.New(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo
	e.Use(corsMiddleware(s.cfg.Server.CORSOrigins))
	e.Use(securityHeaders())

	e.GET("/", s.healthHandler)

	e.GET("/api/models", s.listModelsHandler)
	e.GET("/api/models/favourites", s.listFavouritesHandler)
	e.POST("/api/models/favourites", s.addFavouriteHandler)
	e.DELETE("/api/models/favourites/*", s.removeFavouriteHandler)

	e.GET("/api/roles", s.listRolesHandler)
	e.POST("/api/roles", s.createRoleHandler)
	e.DELETE("/api/roles/:id", s.deleteRoleHandler)

	e.GET("/api/patterns", s.listPatternsHandler)
	e.GET("/api/presets", s.listPresetsHandler)

	e.GET("/api/settings", s.getSettingsHandler)
	e.POST("/api/settings", s.updateSettingsHandler)

	e.GET("/api/history", s.listHistoryHandler)
	e.DELETE("/api/history/:conversationID", s.deleteConversationHandler)
	e.GET("/api/logs/:conversationID", s.listLogsHandler)
	e.GET("/api/logs/:conversationID/rounds", s.listRoundsHandler)
	e.GET("/api/logs/:conversationID/decision-tree", s.decisionTreeHandler)

	e.POST("/api/execute", s.executeHandler)
	e.GET("/ws/execute", s.wsHandler)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP server listening", "addr", addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
