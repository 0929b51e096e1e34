package cache

import (
	"context"
	"log/slog"

	"github.com/curia-dev/curia/pkg/llm"
)

// CommonQueries are pre-warmed at startup when warming is enabled.
var CommonQueries = []string{
	"What is the meaning of life?",
	"Explain quantum computing in simple terms",
	"How does machine learning work?",
	"What are the best practices for software development?",
}

// Warmer pre-fills the response cache with answers to common queries.
type Warmer struct {
	cache  *ResponseCache
	client llm.Client
}

// NewWarmer builds a warmer over the given cache and upstream client.
func NewWarmer(cache *ResponseCache, client llm.Client) *Warmer {
	return &Warmer{cache: cache, client: client}
}

// Warm requests every common query from every model not already cached.
// Call failures are logged and skipped.
func (w *Warmer) Warm(ctx context.Context, models []string) {
	slog.Info("Starting cache warming")

	for _, query := range CommonQueries {
		messages := queryMessages(query)
		for _, model := range models {
			if ctx.Err() != nil {
				slog.Warn("Cache warming interrupted", "error", ctx.Err())
				return
			}

			var existing llm.CallResult
			if w.cache.Get(ctx, model, messages, &existing) {
				continue
			}

			result, err := w.client.Call(ctx, llm.CallRequest{Model: model, Messages: messages})
			if err != nil {
				slog.Warn("Cache warm call failed", "model", model, "error", err)
				continue
			}
			w.cache.Set(ctx, model, messages, result)
		}
	}

	slog.Info("Cache warming complete")
}
