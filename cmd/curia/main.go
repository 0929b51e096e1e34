// Curia council server — serves the builder REST API and runs council
// executions over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/curia-dev/curia/pkg/api"
	"github.com/curia-dev/curia/pkg/budget"
	"github.com/curia-dev/curia/pkg/cache"
	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
	"github.com/curia-dev/curia/pkg/orchestrator"
	"github.com/curia-dev/curia/pkg/ratelimit"
	"github.com/curia-dev/curia/pkg/resilience"
	"github.com/curia-dev/curia/pkg/safety"
	"github.com/curia-dev/curia/pkg/services"
	"github.com/curia-dev/curia/pkg/session"
	"github.com/curia-dev/curia/pkg/store"
	"github.com/curia-dev/curia/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// Parse command-line flags
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./config"),
		"Path to configuration directory")
	flag.Parse()

	// Load .env file from config directory
	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		slog.Warn("Could not load .env file, continuing with existing environment",
			"path", envPath, "error", err)
	} else {
		slog.Info("Loaded environment", "path", envPath)
	}

	slog.Info("Starting Curia",
		"version", version.Full(),
		"config_dir", *configDir)

	ctx := context.Background()

	// 1. Initialize configuration
	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}
	stats := cfg.Stats()
	slog.Info("Configuration loaded",
		"models", stats.Models,
		"roles", stats.Roles,
		"patterns", stats.Patterns,
		"presets", stats.Presets)

	// 2. Validate the upstream API key before anything dials out
	apiKey := os.Getenv(cfg.Upstream.APIKeyEnv)
	if !safety.ValidateAPIKey(apiKey) {
		slog.Error("Upstream API key is missing or a placeholder",
			"env", cfg.Upstream.APIKeyEnv)
		os.Exit(1)
	}

	// 3. Open the store
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		slog.Error("Failed to open store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("Error closing store", "error", err)
		}
	}()
	slog.Info("Store opened", "path", cfg.Store.Path)

	// 4. Connect the response cache (Redis when configured, memory otherwise)
	responses := cache.Connect(ctx, os.Getenv(cfg.Cache.RedisURLEnv), cfg.Cache.TTL)
	queries := cache.NewQueryCache(responses)
	go responses.SweepLoop(ctx, time.Hour)

	// 5. Create the upstream client and budget accountant
	client := llm.NewOpenRouterClient(cfg.Upstream, apiKey)
	accountant := budget.NewAccountant(cfg.Budget.MaxBudget, cfg.ModelRegistry)

	if cfg.Cache.WarmOnStart {
		go cache.NewWarmer(responses, client).Warm(ctx, cfg.Defaults.CouncilModels)
	}

	// 6. Build the orchestrator
	orch := orchestrator.New(orchestrator.Deps{
		Config:     cfg,
		Client:     client,
		Responses:  responses,
		Queries:    queries,
		Accountant: accountant,
		Resilience: resilience.NewExecutor(client, cfg.Defaults.FallbackModels, resilience.ExecutorConfig{}),
		Partial:    resilience.PartialPolicy{},
		Sanitizer:  safety.NewSanitizer(),
		Redactor:   safety.NewRedactor(),
		Store:      st,
	})

	// 7. Session manager and rate limiting for the WebSocket surface
	limiter := ratelimit.NewLimiter(cfg.RateLimit)
	sessions := session.NewManager(session.Deps{
		Orchestrator: orch,
		Limiter:      limiter,
		Accountant:   accountant,
	})

	// 8. Services and HTTP server
	httpServer := api.NewServer(cfg, api.Services{
		Catalog:    services.NewCatalogService(st, llm.NewCatalogClient(cfg.Upstream)),
		Favourites: services.NewFavouriteService(st),
		Roles:      services.NewRoleService(st, cfg.RoleRegistry),
		History:    services.NewHistoryService(st),
		Logs:       services.NewLogService(st),
		Settings:   services.NewSettingsService(st),
	}, sessions)

	// 9. Start HTTP server (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.Start(addr); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			errCh <- err
		}
	}()

	slog.Info("Curia started successfully",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port)

	// 10. Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigCh:
		slog.Info("Shutdown signal received", "signal", sig)
	case err := <-errCh:
		slog.Error("Server error triggered shutdown", "error", err)
	}

	// 11. Graceful shutdown: drop live sessions, then drain HTTP
	sessions.CloseAll()
	slog.Info("WebSocket sessions closed")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
