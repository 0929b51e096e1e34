// Package budget enforces per-conversation spend ceilings and picks model
// tiers that fit the remaining budget.
package budget

import (
	"log/slog"
	"math"
	"sync"

	"github.com/curia-dev/curia/pkg/config"
	"github.com/curia-dev/curia/pkg/llm"
)

// fallbackCostPer1K prices models missing from the registry.
const fallbackCostPer1K = 0.001

// defaultEstimateTokens approximates one council-stage exchange per model.
const defaultEstimateTokens = 2000

// CostInfo is the detailed breakdown for one tracked call.
type CostInfo struct {
	Model        string  `json:"model"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalTokens  int     `json:"total_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
	TotalCost    float64 `json:"total_cost"`
	ResponseTime float64 `json:"response_time"`
}

// ModelUsage accumulates per-model totals.
type ModelUsage struct {
	Count        int     `json:"count"`
	TotalTokens  int     `json:"total_tokens"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

// Summary reports spend against the ceiling.
type Summary struct {
	CurrentSpend        float64                `json:"current_spend"`
	BudgetLimit         float64                `json:"budget_limit"`
	RemainingBudget     float64                `json:"remaining_budget"`
	BudgetUsedPercent   float64                `json:"budget_used_percent"`
	QueriesCount        int                    `json:"queries_count"`
	ModelUsage          map[string]*ModelUsage `json:"model_usage"`
	AverageCostPerQuery float64                `json:"average_cost_per_query"`
}

// Accountant tracks spend against a ceiling for one conversation.
type Accountant struct {
	mu      sync.Mutex
	limit   float64
	spend   float64
	queries int
	usage   map[string]*ModelUsage
	models  *config.ModelRegistry
}

// NewAccountant builds an accountant with the given ceiling. The registry
// supplies per-model pricing; unknown models fall back to a flat rate.
func NewAccountant(limit float64, models *config.ModelRegistry) *Accountant {
	return &Accountant{
		limit:  limit,
		usage:  make(map[string]*ModelUsage),
		models: models,
	}
}

func (a *Accountant) pricing(model string) *config.ModelPricing {
	if a.models == nil {
		return nil
	}
	m, err := a.models.Get(model)
	if err != nil {
		return nil
	}
	return m.Pricing
}

func (a *Accountant) costPer1K(model string) float64 {
	if p := a.pricing(model); p != nil {
		return p.AvgCostPer1K()
	}
	return fallbackCostPer1K
}

// Estimate projects the cost of one exchange across the given models.
// A non-positive token count uses the default estimate.
func (a *Accountant) Estimate(models []string, estimatedTokens int) float64 {
	if estimatedTokens <= 0 {
		estimatedTokens = defaultEstimateTokens
	}
	total := 0.0
	for _, model := range models {
		total += float64(estimatedTokens) / 1000 * a.costPer1K(model)
	}
	return round4(total)
}

// CanProceed reports whether an operation with the estimated cost stays
// inside the ceiling. Exceeding it is logged.
func (a *Accountant) CanProceed(estimatedCost float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	wouldExceed := a.spend+estimatedCost > a.limit
	if wouldExceed {
		slog.Warn("Budget limit would be exceeded",
			"current", round2(a.spend),
			"estimated", round2(estimatedCost),
			"limit", a.limit)
	}
	return !wouldExceed
}

// Record tracks actual usage for one call and returns the breakdown.
// Models with registry pricing use split input/output rates; everything
// else uses the flat per-1K rate with an estimated 30/70 split.
func (a *Accountant) Record(model string, usage llm.Usage, responseTime float64) CostInfo {
	var inputCost, outputCost, cost float64
	if p := a.pricing(model); p != nil && (usage.PromptTokens > 0 || usage.CompletionTokens > 0) {
		inputCost = float64(usage.PromptTokens) / 1_000_000 * p.Input
		outputCost = float64(usage.CompletionTokens) / 1_000_000 * p.Output
		cost = inputCost + outputCost
	} else {
		cost = float64(usage.TotalTokens) / 1000 * a.costPer1K(model)
		inputCost = cost * 0.3
		outputCost = cost * 0.7
	}

	info := CostInfo{
		Model:        model,
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
		TotalTokens:  usage.TotalTokens,
		InputCost:    round6(inputCost),
		OutputCost:   round6(outputCost),
		TotalCost:    round6(cost),
		ResponseTime: responseTime,
	}
	if info.InputTokens == 0 {
		info.InputTokens = int(float64(usage.TotalTokens) * 0.3)
	}
	if info.OutputTokens == 0 {
		info.OutputTokens = int(float64(usage.TotalTokens) * 0.7)
	}
	if info.TotalTokens == 0 {
		info.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}

	a.mu.Lock()
	a.spend += cost
	a.queries++
	mu := a.usage[model]
	if mu == nil {
		mu = &ModelUsage{}
		a.usage[model] = mu
	}
	mu.Count++
	mu.TotalTokens += info.TotalTokens
	mu.InputTokens += info.InputTokens
	mu.OutputTokens += info.OutputTokens
	mu.TotalCost += cost
	spent := a.spend
	a.mu.Unlock()

	slog.Info("Tracked usage",
		"model", model,
		"tokens", info.TotalTokens,
		"cost", info.TotalCost,
		"total_spend", round4(spent))
	return info
}

// Remaining returns the unspent budget, floored at zero.
func (a *Accountant) Remaining() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return math.Max(0, a.limit-a.spend)
}

// Summary reports usage statistics for the conversation so far.
// The returned model usage map is a copy.
func (a *Accountant) Summary() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()

	usedPercent := 0.0
	if a.limit > 0 {
		usedPercent = round2(a.spend / a.limit * 100)
	}
	avg := 0.0
	if a.queries > 0 {
		avg = round4(a.spend / float64(a.queries))
	}

	usage := make(map[string]*ModelUsage, len(a.usage))
	for model, mu := range a.usage {
		copied := *mu
		usage[model] = &copied
	}

	return Summary{
		CurrentSpend:        round4(a.spend),
		BudgetLimit:         a.limit,
		RemainingBudget:     round4(math.Max(0, a.limit-a.spend)),
		BudgetUsedPercent:   usedPercent,
		QueriesCount:        a.queries,
		ModelUsage:          usage,
		AverageCostPerQuery: avg,
	}
}

// Reset clears all tracked spend for a fresh conversation.
func (a *Accountant) Reset() {
	a.mu.Lock()
	a.spend = 0
	a.queries = 0
	a.usage = make(map[string]*ModelUsage)
	a.mu.Unlock()
	slog.Info("Cost tracker reset")
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func round6(v float64) float64 { return math.Round(v*1000000) / 1000000 }
