// Package cache stores upstream responses and complete council results so
// repeated queries avoid paid API calls.
//
// Backend failures are logged and treated as misses. A broken cache slows
// the engine down; it must never fail a query.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/curia-dev/curia/pkg/llm"
)

// Backend is a TTL key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Name() string
}

// Stats is a point-in-time summary of cache effectiveness.
type Stats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Saves     int64   `json:"saves"`
	HitRate   float64 `json:"hit_rate"`
	CacheType string  `json:"cache_type"`
}

// ResponseCache caches upstream responses keyed by model + messages.
type ResponseCache struct {
	backend Backend
	ttl     time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	saves  atomic.Int64
}

// NewResponseCache builds a cache over the given backend.
func NewResponseCache(backend Backend, ttl time.Duration) *ResponseCache {
	return &ResponseCache{backend: backend, ttl: ttl}
}

// Connect picks the Redis backend when a URL is configured and reachable,
// and falls back to the in-memory backend otherwise.
func Connect(ctx context.Context, redisURL string, ttl time.Duration) *ResponseCache {
	if redisURL != "" {
		backend, err := NewRedisBackend(ctx, redisURL)
		if err == nil {
			slog.Info("Using Redis cache")
			return NewResponseCache(backend, ttl)
		}
		slog.Warn("Redis connection failed, using in-memory cache", "error", err)
	} else {
		slog.Info("Using in-memory cache")
	}
	return NewResponseCache(NewMemoryBackend(), ttl)
}

// Get looks up the cached payload for model + messages and unmarshals it
// into out. Returns false on miss, backend error, or a corrupt entry.
func (c *ResponseCache) Get(ctx context.Context, model string, messages []llm.Message, out any) bool {
	data, ok, err := c.backend.Get(ctx, Key(model, messages))
	if err != nil {
		slog.Error("Cache get error", "error", err)
	}
	if ok && err == nil {
		if err := json.Unmarshal(data, out); err != nil {
			slog.Error("Cache entry corrupt", "error", err)
		} else {
			c.hits.Add(1)
			slog.Debug("Cache hit", "model", model)
			return true
		}
	}

	c.misses.Add(1)
	slog.Debug("Cache miss", "model", model)
	return false
}

// Set caches a payload for model + messages. Returns false when the value
// could not be stored.
func (c *ResponseCache) Set(ctx context.Context, model string, messages []llm.Message, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("Cache marshal error", "error", err)
		return false
	}
	if err := c.backend.Set(ctx, Key(model, messages), data, c.ttl); err != nil {
		slog.Error("Cache set error", "error", err)
		return false
	}
	c.saves.Add(1)
	slog.Debug("Cached response", "model", model)
	return true
}

// SweepExpired purges expired entries from backends that hold them in
// process. Redis expires keys on its own.
func (c *ResponseCache) SweepExpired() {
	if sweeper, ok := c.backend.(interface{ Sweep() }); ok {
		sweeper.Sweep()
	}
}

// SweepLoop runs SweepExpired on the given interval until ctx is done.
// Expired entries are also dropped lazily on Get; the loop keeps a
// long-idle memory backend from holding dead entries indefinitely.
func (c *ResponseCache) SweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SweepExpired()
		}
	}
}

// Stats reports hit/miss/save counters and the backend in use.
func (c *ResponseCache) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = math.Round(float64(hits)/float64(total)*100*100) / 100
	}
	return Stats{
		Hits:      hits,
		Misses:    misses,
		Saves:     c.saves.Load(),
		HitRate:   hitRate,
		CacheType: c.backend.Name(),
	}
}
