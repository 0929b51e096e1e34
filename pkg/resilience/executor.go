// Package resilience keeps council execution going through upstream
// failures with retries, fallback substitution, and partial-response
// policies.
package resilience

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"

	"github.com/curia-dev/curia/pkg/llm"
)

// Defaults applied by NewExecutor when the config leaves them zero.
const (
	defaultQuorum    = 3
	defaultRetries   = 2
	defaultBaseDelay = time.Second
)

// minValidContent is the shortest trimmed content accepted as a real answer.
const minValidContent = 10

// errorPatterns reject responses that are error text dressed up as content.
// Only the first 100 characters are checked.
var errorPatterns = []string{
	"error:",
	"failed to",
	"unable to",
	"rate limit",
	"quota exceeded",
}

// ExecutorConfig tunes retry and quorum behavior. Zero values fall back
// to the defaults.
type ExecutorConfig struct {
	Quorum    int
	Retries   int
	BaseDelay time.Duration
}

// Executor wraps upstream calls with retry and fallback substitution.
type Executor struct {
	client    llm.Client
	fallbacks []string
	quorum    int
	retries   int
	baseDelay time.Duration
}

// NewExecutor builds an executor over the given client and fallback pool.
func NewExecutor(client llm.Client, fallbacks []string, cfg ExecutorConfig) *Executor {
	if cfg.Quorum <= 0 {
		cfg.Quorum = defaultQuorum
	}
	if cfg.Retries <= 0 {
		cfg.Retries = defaultRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	return &Executor{
		client:    client,
		fallbacks: append([]string(nil), fallbacks...),
		quorum:    cfg.Quorum,
		retries:   cfg.Retries,
		baseDelay: cfg.BaseDelay,
	}
}

// Quorum returns the minimum valid response count before fallback
// substitution stops.
func (e *Executor) Quorum() int { return e.quorum }

func (e *Executor) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// CallWithRetry performs one upstream call with exponential backoff on
// failure. Sleeps are cancellable through ctx.
func (e *Executor) CallWithRetry(ctx context.Context, req llm.CallRequest) (*llm.CallResult, error) {
	bo := e.newBackOff()
	var lastErr error

	for attempt := 0; attempt <= e.retries; attempt++ {
		if attempt > 0 {
			delay := bo.NextBackOff()
			slog.Info("Retrying model call", "model", req.Model, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := e.client.Call(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err
		slog.Error("Model call failed", "model", req.Model, "attempt", attempt+1, "error", err)
	}

	slog.Error("All attempts failed", "model", req.Model, "attempts", e.retries+1)
	return nil, fmt.Errorf("all %d attempts failed for %s: %w", e.retries+1, req.Model, lastErr)
}

// Validate reports whether a response carries usable content rather than
// an empty body or error text.
func (e *Executor) Validate(result *llm.CallResult) bool {
	if result == nil {
		return false
	}
	content := strings.TrimSpace(result.Content)
	if utf8.RuneCountInString(content) < minValidContent {
		return false
	}

	head := strings.ToLower(result.Content)
	if len(head) > 100 {
		head = head[:100]
	}
	for _, pattern := range errorPatterns {
		if strings.Contains(head, pattern) {
			return false
		}
	}
	return true
}

// FallbackCandidates returns up to n reserve models not present in used.
// Callers substituting failed agents pass the models already dispatched so
// a fallback never repeats a primary.
func (e *Executor) FallbackCandidates(used map[string]bool, n int) []string {
	var candidates []string
	for _, m := range e.fallbacks {
		if used[m] {
			continue
		}
		candidates = append(candidates, m)
		if len(candidates) == n {
			break
		}
	}
	return candidates
}

type fanoutResult struct {
	model  string
	result *llm.CallResult
}

// fanOut queries all models concurrently, retrying each. Failed models
// map to nil.
func (e *Executor) fanOut(ctx context.Context, models []string, messages []llm.Message) map[string]*llm.CallResult {
	results := make(chan fanoutResult, len(models))
	var wg sync.WaitGroup

	for _, model := range models {
		wg.Add(1)
		go func(model string) {
			defer wg.Done()
			result, err := e.CallWithRetry(ctx, llm.CallRequest{Model: model, Messages: messages})
			if err != nil {
				results <- fanoutResult{model: model}
				return
			}
			results <- fanoutResult{model: model, result: result}
		}(model)
	}
	wg.Wait()
	close(results)

	out := make(map[string]*llm.CallResult, len(models))
	for r := range results {
		out[r.model] = r.result
	}
	return out
}

// ExecuteWithFallback queries all primaries in parallel, then substitutes
// unused fallback models until the quorum is met or fallbacks run out.
// The returned map holds only responses that passed validation.
func (e *Executor) ExecuteWithFallback(ctx context.Context, primaries []string, messages []llm.Message) map[string]*llm.CallResult {
	successful := make(map[string]*llm.CallResult)
	var failed []string

	slog.Info("Querying primary models", "count", len(primaries))
	for model, result := range e.fanOut(ctx, primaries, messages) {
		if e.Validate(result) {
			successful[model] = result
			slog.Info("Primary model succeeded", "model", model)
		} else {
			failed = append(failed, model)
			slog.Warn("Primary model failed", "model", model)
		}
	}

	if len(successful) >= e.quorum {
		slog.Info("Quorum met by primaries", "responses", len(successful))
		return successful
	}

	needed := e.quorum - len(successful)
	if len(failed) > 0 && needed > 0 {
		used := make(map[string]bool, len(primaries))
		for _, m := range primaries {
			used[m] = true
		}
		for m := range successful {
			used[m] = true
		}
		candidates := e.FallbackCandidates(used, needed)

		if len(candidates) > 0 {
			slog.Info("Dispatching fallback models", "models", candidates, "needed", needed)
			for model, result := range e.fanOut(ctx, candidates, messages) {
				if e.Validate(result) {
					successful[model] = result
					slog.Info("Fallback model succeeded", "model", model)
				}
			}
		}
	}

	if len(successful) < e.quorum {
		slog.Error("Quorum not met after fallbacks",
			"responses", len(successful), "required", e.quorum)
	}
	return successful
}
