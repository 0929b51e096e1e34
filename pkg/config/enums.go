package config

// ModelTier classifies models by average token cost.
type ModelTier string

const (
	ModelTierBudget   ModelTier = "budget"
	ModelTierStandard ModelTier = "standard"
	ModelTierPremium  ModelTier = "premium"
)

// IsValid checks if the model tier is valid
func (t ModelTier) IsValid() bool {
	switch t {
	case ModelTierBudget, ModelTierStandard, ModelTierPremium:
		return true
	}
	return false
}

// Tier boundaries on blended per-1K-token cost in USD.
const (
	premiumCostPer1K  = 0.01
	standardCostPer1K = 0.002
)

// TierForCost classifies a model by its blended per-1K-token cost.
// Models at or above $0.01/1K are premium, at or above $0.002/1K standard,
// everything cheaper is budget.
func TierForCost(avgCostPer1K float64) ModelTier {
	switch {
	case avgCostPer1K >= premiumCostPer1K:
		return ModelTierPremium
	case avgCostPer1K >= standardCostPer1K:
		return ModelTierStandard
	default:
		return ModelTierBudget
	}
}

// CouncilMode selects the model pool used when composing a council.
type CouncilMode string

const (
	CouncilModeBudget   CouncilMode = "budget"
	CouncilModeBalanced CouncilMode = "balanced"
	CouncilModePremium  CouncilMode = "premium"
)

// IsValid checks if the council mode is valid
func (m CouncilMode) IsValid() bool {
	switch m {
	case CouncilModeBudget, CouncilModeBalanced, CouncilModePremium:
		return true
	}
	return false
}

// PatternCategory groups reasoning patterns for the builder palette.
type PatternCategory string

const (
	PatternCategoryBasic         PatternCategory = "basic"
	PatternCategoryReasoning     PatternCategory = "reasoning"
	PatternCategoryAnalysis      PatternCategory = "analysis"
	PatternCategoryInvestigation PatternCategory = "investigation"
	PatternCategoryCreative      PatternCategory = "creative"
	PatternCategoryRisk          PatternCategory = "risk"
)

// IsValid checks if the pattern category is valid
func (c PatternCategory) IsValid() bool {
	switch c {
	case PatternCategoryBasic, PatternCategoryReasoning, PatternCategoryAnalysis,
		PatternCategoryInvestigation, PatternCategoryCreative, PatternCategoryRisk:
		return true
	}
	return false
}
