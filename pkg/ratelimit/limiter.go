package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/curia-dev/curia/pkg/config"
)

// DenialKind names the typed rejection sent to a client over a limit.
type DenialKind string

const (
	DenialRateLimit       DenialKind = "rate_limit_client"
	DenialConnectionLimit DenialKind = "connection_limit_client"
)

// Denial describes a rejected request. A nil Denial means allowed.
type Denial struct {
	Kind    DenialKind
	Message string
}

// Stats is a snapshot of limiter state for diagnostics.
type Stats struct {
	TotalClientsTracked     int     `json:"total_clients_tracked"`
	TotalWebsocketClients   int     `json:"total_websocket_clients"`
	MaxRequests             int     `json:"max_requests"`
	WindowSeconds           int     `json:"window_seconds"`
	MaxCostPerHour          float64 `json:"max_cost_per_hour"`
	MaxWebsocketConnections int     `json:"max_websocket_connections"`
}

type requestRecord struct {
	at   time.Time
	cost float64
}

// Limiter tracks request rates, hourly spend, and live connections per
// hashed client id.
type Limiter struct {
	maxRequests    int
	window         time.Duration
	maxHourlyCost  float64
	maxConnections int

	mu          sync.Mutex
	requests    map[string][]requestRecord
	connections map[string]int
	now         func() time.Time
}

// NewLimiter builds a limiter from config. A nil cfg uses the defaults.
func NewLimiter(cfg *config.RateLimitConfig) *Limiter {
	if cfg == nil {
		cfg = config.DefaultRateLimitConfig()
	}
	l := &Limiter{
		maxRequests:    cfg.MaxRequests,
		window:         cfg.Window,
		maxHourlyCost:  cfg.MaxHourlyCost,
		maxConnections: cfg.MaxConcurrentWS,
		requests:       make(map[string][]requestRecord),
		connections:    make(map[string]int),
		now:            time.Now,
	}
	slog.Info("Rate limiter initialized",
		"max_requests", l.maxRequests,
		"window", l.window,
		"max_hourly_cost", l.maxHourlyCost,
		"max_connections", l.maxConnections)
	return l
}

// prune drops records older than the cost horizon. Cost records survive
// the full hour even though the request window is shorter.
func (l *Limiter) prune(clientID string, now time.Time) {
	horizon := l.window
	if time.Hour > horizon {
		horizon = time.Hour
	}
	cutoff := now.Add(-horizon)

	records := l.requests[clientID]
	kept := records[:0]
	for _, r := range records {
		if r.at.After(cutoff) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		delete(l.requests, clientID)
		return
	}
	l.requests[clientID] = kept
}

// CheckRequest admits and records one request, or explains the denial.
// estimatedCost is the projected spend in USD for the operation.
func (l *Limiter) CheckRequest(clientID string, estimatedCost float64) *Denial {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(clientID, now)

	windowCutoff := now.Add(-l.window)
	hourCutoff := now.Add(-time.Hour)
	count := 0
	var hourlyCost float64
	for _, r := range l.requests[clientID] {
		if r.at.After(windowCutoff) {
			count++
		}
		if r.at.After(hourCutoff) {
			hourlyCost += r.cost
		}
	}

	if count >= l.maxRequests {
		slog.Warn("Rate limit exceeded",
			"client", clientID, "requests", count, "max", l.maxRequests)
		return &Denial{
			Kind: DenialRateLimit,
			Message: fmt.Sprintf("Rate limit exceeded: %d requests per %ds",
				l.maxRequests, int(l.window.Seconds())),
		}
	}

	if hourlyCost+estimatedCost > l.maxHourlyCost {
		slog.Warn("Cost limit exceeded",
			"client", clientID,
			"hourly_cost", hourlyCost,
			"estimated_cost", estimatedCost,
			"max", l.maxHourlyCost)
		return &Denial{
			Kind:    DenialRateLimit,
			Message: fmt.Sprintf("Cost limit exceeded: $%.2f/hour", l.maxHourlyCost),
		}
	}

	l.requests[clientID] = append(l.requests[clientID], requestRecord{at: now, cost: estimatedCost})
	slog.Debug("Request allowed",
		"client", clientID, "requests", count+1, "cost", estimatedCost)
	return nil
}

// AcquireConnection admits one more concurrent connection for the client,
// or explains the denial. Admitted connections must be released.
func (l *Limiter) AcquireConnection(clientID string) *Denial {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.connections[clientID]
	if current >= l.maxConnections {
		slog.Warn("Connection limit exceeded",
			"client", clientID, "connections", current, "max", l.maxConnections)
		return &Denial{
			Kind: DenialConnectionLimit,
			Message: fmt.Sprintf("Too many concurrent WebSocket connections: max %d",
				l.maxConnections),
		}
	}
	l.connections[clientID] = current + 1
	slog.Info("WebSocket connection accepted",
		"client", clientID, "connections", current+1, "max", l.maxConnections)
	return nil
}

// ReleaseConnection returns a connection slot. Safe to call for a client
// with no tracked connections.
func (l *Limiter) ReleaseConnection(clientID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	remaining := l.connections[clientID] - 1
	if remaining <= 0 {
		remaining = 0
		delete(l.connections, clientID)
	} else {
		l.connections[clientID] = remaining
	}
	slog.Info("WebSocket connection released",
		"client", clientID, "remaining", remaining)
}

// Stats returns tracked client counts and the configured ceilings.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Stats{
		TotalClientsTracked:     len(l.requests),
		TotalWebsocketClients:   len(l.connections),
		MaxRequests:             l.maxRequests,
		WindowSeconds:           int(l.window.Seconds()),
		MaxCostPerHour:          l.maxHourlyCost,
		MaxWebsocketConnections: l.maxConnections,
	}
}
