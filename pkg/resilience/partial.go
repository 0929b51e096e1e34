package resilience

import (
	"log/slog"
	"unicode/utf8"

	"github.com/curia-dev/curia/pkg/council"
)

// defaultMinResponses is the floor below which execution aborts rather
// than synthesizing from too little material.
const defaultMinResponses = 2

// PartialPolicy decides how far execution may proceed when only some
// council members answered.
type PartialPolicy struct {
	// MinRequired is the smallest usable response count. Zero means the
	// default of 2.
	MinRequired int
}

func (p PartialPolicy) minRequired() int {
	if p.MinRequired <= 0 {
		return defaultMinResponses
	}
	return p.MinRequired
}

// CanProceed reports whether enough substantive responses survived
// Stage 1 to continue at all.
func (p PartialPolicy) CanProceed(responses []council.Response) bool {
	valid := 0
	for _, r := range responses {
		if utf8.RuneCountInString(r.Content) > minValidContent {
			valid++
		}
	}
	if valid < p.minRequired() {
		slog.Warn("Insufficient responses to proceed",
			"valid", valid, "required", p.minRequired())
		return false
	}
	return true
}

// AdjustForRanking filters Stage 1 responses for peer evaluation. Fewer
// than two responses make ranking meaningless, so the stage is skipped.
func (p PartialPolicy) AdjustForRanking(responses []council.Response) []council.Response {
	if len(responses) < 2 {
		slog.Warn("Too few responses for ranking, skipping peer evaluation",
			"responses", len(responses))
		return nil
	}
	adjusted := make([]council.Response, 0, len(responses))
	for _, r := range responses {
		if r.Model != "" && r.Content != "" {
			adjusted = append(adjusted, r)
		}
	}
	return adjusted
}
