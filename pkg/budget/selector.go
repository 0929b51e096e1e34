package budget

import (
	"log/slog"
	"strings"

	"github.com/curia-dev/curia/pkg/config"
)

// Complexity classifies how demanding a query looks.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

// Keyword lists checked against the lowercased query. Complex indicators
// win over simple ones; queries matching neither are medium.
var (
	simpleKeywords = []string{
		"what is", "when is", "who is", "where is",
		"define", "meaning of", "capital of", "how many",
	}
	complexKeywords = []string{
		"evaluate", "critique", "synthesize", "design",
		"architect", "optimize", "prove", "derive",
		"implement", "debug", "refactor",
	}
)

// tierModels is the model slate dispatched for each tier.
var tierModels = map[config.ModelTier][]string{
	config.ModelTierBudget: {
		"deepseek/deepseek-chat",
		"anthropic/claude-3.5-haiku",
		"openai/gpt-4o-mini",
		"google/gemini-1.5-flash",
	},
	config.ModelTierStandard: {
		"anthropic/claude-3.5-sonnet",
		"openai/gpt-4o",
		"google/gemini-1.5-pro",
		"deepseek/deepseek-chat",
	},
	config.ModelTierPremium: {
		"anthropic/claude-3.5-sonnet",
		"anthropic/claude-3-opus",
		"openai/gpt-4o",
		"google/gemini-1.5-pro",
	},
}

// Budget thresholds that force a cheaper tier.
const (
	tightBudget  = 0.5
	premiumFloor = 1.0
)

// AssessComplexity classifies a query by its indicator keywords.
func AssessComplexity(query string) Complexity {
	lower := strings.ToLower(query)
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			return ComplexityComplex
		}
	}
	for _, kw := range simpleKeywords {
		if strings.Contains(lower, kw) {
			return ComplexitySimple
		}
	}
	return ComplexityMedium
}

// SelectModels picks the model slate for a query given the remaining
// budget. A non-empty forceTier bypasses assessment and budget degradation.
func SelectModels(query string, budgetRemaining float64, forceTier config.ModelTier) []string {
	tier := forceTier
	if tier == "" {
		complexity := AssessComplexity(query)
		switch {
		case budgetRemaining < tightBudget:
			tier = config.ModelTierBudget
		case complexity == ComplexitySimple:
			tier = config.ModelTierBudget
		case complexity == ComplexityMedium:
			tier = config.ModelTierStandard
		default:
			tier = config.ModelTierPremium
		}
		if budgetRemaining < premiumFloor && tier == config.ModelTierPremium {
			tier = config.ModelTierStandard
		}
	}

	selected := append([]string(nil), tierModels[tier]...)
	slog.Info("Selected tier models for query",
		"tier", tier,
		"budget", round2(budgetRemaining),
		"models", selected)
	return selected
}
