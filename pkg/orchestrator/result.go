package orchestrator

import "github.com/curia-dev/curia/pkg/council"

// Typed error kinds carried by Result.ErrorKind when a run terminates
// before full completion. Work completed up to the termination point is
// kept in the result.
const (
	ErrorNoResponses           = "no_responses"
	ErrorInsufficientResponses = "insufficient_responses"
	ErrorBudgetExceeded        = "budget_exceeded"
)

// Options tune one Execute call. The zero value asks for a fresh
// conversation id, round 1, and query-cache use.
type Options struct {
	// ConversationID overrides the generated conversation id.
	ConversationID string

	// Round tags log and decision rows; zero means round 1.
	Round int

	// SkipCache bypasses the query-result cache in both directions.
	SkipCache bool

	// Events overrides the orchestrator's sink for this run. Streaming
	// sessions pass themselves here so frames reach the right socket.
	Events EventSink
}

// Result is the outcome of one council execution.
type Result struct {
	ConversationID string                  `json:"conversationId"`
	Title          string                  `json:"title,omitempty"`
	Stage1         []council.Response      `json:"stage1"`
	Stage2         []council.Ranking       `json:"stage2,omitempty"`
	Stage3         *council.Response       `json:"stage3,omitempty"`
	Aggregate      []council.AggregateRank `json:"aggregateRankings,omitempty"`
	Metadata       map[string]any          `json:"metadata"`
	TotalTokens    int                     `json:"totalTokens"`
	TotalCost      float64                 `json:"totalCost"`
	ErrorKind      string                  `json:"error,omitempty"`
}

// CacheHit reports whether the result was replayed from the query cache.
func (r *Result) CacheHit() bool {
	hit, _ := r.Metadata["cache_hit"].(bool)
	return hit
}
