package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/curia-dev/curia/pkg/council"
	"github.com/curia-dev/curia/pkg/llm"
)

// completeModel is the synthetic model id council-level bundles are keyed
// under, so they never collide with per-model response entries.
const completeModel = "council:complete"

// CouncilResult bundles the output of all three stages for replay on a
// repeated query.
type CouncilResult struct {
	Stage1   []council.Response `json:"stage1"`
	Stage2   []council.Ranking  `json:"stage2"`
	Stage3   *council.Response  `json:"stage3,omitempty"`
	Metadata map[string]any     `json:"metadata,omitempty"`
	CachedAt time.Time          `json:"cachedAt"`
}

// QueryCache caches complete council results keyed by the user query.
type QueryCache struct {
	cache *ResponseCache
}

// NewQueryCache wraps a response cache with council-level bundling.
func NewQueryCache(cache *ResponseCache) *QueryCache {
	return &QueryCache{cache: cache}
}

func queryMessages(query string) []llm.Message {
	return []llm.Message{llm.UserMessage(query)}
}

// Get returns the cached council result for a query, if present.
func (q *QueryCache) Get(ctx context.Context, query string) (*CouncilResult, bool) {
	var result CouncilResult
	if !q.cache.Get(ctx, completeModel, queryMessages(query), &result) {
		return nil, false
	}
	slog.Info("Found complete cached council result")
	return &result, true
}

// Set stores a complete council result for a query, stamping CachedAt.
func (q *QueryCache) Set(ctx context.Context, query string, result CouncilResult) bool {
	result.CachedAt = time.Now()
	return q.cache.Set(ctx, completeModel, queryMessages(query), result)
}
