package council

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/curia-dev/curia/pkg/config"
)

const (
	minAgents     = 2
	maxAgents     = 10
	defaultAgents = 5

	// estimateTokens is the assumed token volume of one model call when
	// planning cost; councilStages spreads it across all three stages.
	estimateTokens = 2000
	councilStages  = 3

	// fallbackCostPer1K prices models missing from the catalog.
	fallbackCostPer1K = 0.001
)

// Assignment pairs one model with the composition role it plays.
type Assignment struct {
	Model        string                  `json:"model"`
	Role         config.CompositionRole  `json:"role"`
	Capabilities *config.ModelCapability `json:"capabilities,omitempty"`
}

// Composition is a composed council plus its planning metadata.
type Composition struct {
	Agents        []Assignment `json:"agents"`
	Topology      Topology     `json:"topology"`
	EstimatedCost float64      `json:"estimated_cost"`
	AgentCount    int          `json:"agent_count"`
	RolesSummary  []string     `json:"roles_summary"`
}

// ComposeRequest selects the models for a composed council. An explicit
// Models list wins over AgentCount; with neither set the default
// five-model council is used.
type ComposeRequest struct {
	Models     []string           `json:"models,omitempty"`
	AgentCount int                `json:"agent_count,omitempty"`
	Mode       config.CouncilMode `json:"mode,omitempty"`
}

// Composer assembles councils from the built-in model pools and the
// priority-ordered composition roles.
type Composer struct {
	builtin *config.BuiltinConfig
}

// NewComposer creates a composer backed by the built-in catalogs.
func NewComposer() *Composer {
	return &Composer{builtin: config.GetBuiltinConfig()}
}

// Compose builds a council for the request: pick models, assign roles in
// priority order with the strongest models first, and attach the planning
// metadata.
func (c *Composer) Compose(req ComposeRequest) (*Composition, error) {
	mode := req.Mode
	if mode == "" {
		mode = config.CouncilModeBalanced
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown council mode %q", ErrInvalidConfig, mode)
	}

	var selected []string
	switch {
	case len(req.Models) > 0:
		selected = req.Models
	case req.AgentCount > 0:
		if req.AgentCount < minAgents || req.AgentCount > maxAgents {
			return nil, fmt.Errorf("%w: agent count %d out of range %d..%d",
				ErrInvalidConfig, req.AgentCount, minAgents, maxAgents)
		}
		selected = c.modelsForMode(req.AgentCount, mode)
	default:
		selected = c.builtin.CouncilModels
		if len(selected) > defaultAgents {
			selected = selected[:defaultAgents]
		}
	}

	agents := c.assignRoles(selected)
	comp := &Composition{Agents: agents}
	c.refresh(comp)

	slog.Info("Composed council",
		"agents", comp.AgentCount,
		"mode", mode,
		"estimated_cost", comp.EstimatedCost)
	return comp, nil
}

// AddAgent appends one agent, auto-selecting an unused model and role when
// none is given.
func (c *Composer) AddAgent(comp *Composition, model string) error {
	if len(comp.Agents) >= maxAgents {
		return fmt.Errorf("%w: at most %d agents", ErrInvalidConfig, maxAgents)
	}

	if model == "" {
		model = c.pickUnusedModel(comp)
	}
	role := c.pickUnusedRole(comp)

	comp.Agents = append(comp.Agents, Assignment{
		Model:        model,
		Role:         role,
		Capabilities: c.capabilities(model),
	})
	c.refresh(comp)

	slog.Info("Added council agent", "model", model, "role", role.DisplayName)
	return nil
}

// RemoveAgent drops the agent at index, keeping at least the minimum
// council size.
func (c *Composer) RemoveAgent(comp *Composition, index int) error {
	if len(comp.Agents) <= minAgents {
		return fmt.Errorf("%w: at least %d agents required", ErrInvalidConfig, minAgents)
	}
	if index < 0 || index >= len(comp.Agents) {
		return fmt.Errorf("%w: agent index %d out of range", ErrInvalidConfig, index)
	}

	removed := comp.Agents[index]
	comp.Agents = append(comp.Agents[:index], comp.Agents[index+1:]...)
	c.refresh(comp)

	slog.Info("Removed council agent", "model", removed.Model)
	return nil
}

// Council converts the composition into an executable edgeless council:
// every participant is a root and the chairman, when set, synthesizes over
// all Stage 1 responses.
func (comp *Composition) Council(chairmanModel string) *Config {
	cfg := &Config{Name: "Composed Council"}
	for i, agent := range comp.Agents {
		order := i + 1
		cfg.Nodes = append(cfg.Nodes, Node{
			ID:            fmt.Sprintf("agent_%d", order),
			Model:         agent.Model,
			DisplayName:   agent.Role.DisplayName,
			Role:          agent.Role.Name,
			SystemPrompt:  agent.Role.PromptModifier,
			SpeakingOrder: &order,
		})
	}
	if chairmanModel != "" {
		cfg.Nodes = append(cfg.Nodes, Node{
			ID:          "chairman",
			Model:       chairmanModel,
			DisplayName: "Chairman",
			Role:        "chairman",
			IsChairman:  true,
		})
	}
	return cfg
}

// assignRoles pairs models with roles: models sorted strongest first, roles
// taken in priority order, extras becoming additional perspectives.
func (c *Composer) assignRoles(models []string) []Assignment {
	roles := c.builtin.CompositionRoles
	sorted := c.sortByCapability(models)

	assignments := make([]Assignment, 0, len(sorted))
	for i, model := range sorted {
		var role config.CompositionRole
		if i < len(roles) {
			role = roles[i]
		} else {
			role = config.CompositionRole{
				Name:           fmt.Sprintf("additional_perspective_%d", i),
				DisplayName:    fmt.Sprintf("Additional Perspective %d", i-len(roles)+1),
				Description:    "Provides supplementary viewpoint",
				PromptModifier: "Provide a unique viewpoint that complements other responses.",
				Priority:       8 + i,
			}
		}
		assignments = append(assignments, Assignment{
			Model:        model,
			Role:         role,
			Capabilities: c.capabilities(model),
		})
	}
	return assignments
}

// sortByCapability orders models best first by a weighted capability score.
// Reasoning dominates because it drives the primary roles.
func (c *Composer) sortByCapability(models []string) []string {
	score := func(model string) float64 {
		caps, ok := c.builtin.Capabilities[model]
		if !ok {
			return 0.5*0.5 + 0.5*0.3 + 0.5*0.2
		}
		return caps.Reasoning*0.5 + caps.Accuracy*0.3 + caps.Creativity*0.2
	}

	sorted := make([]string, len(models))
	copy(sorted, models)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})
	return sorted
}

// modelsForMode picks count models from the mode's pool, cycling when the
// pool is smaller than the request.
func (c *Composer) modelsForMode(count int, mode config.CouncilMode) []string {
	var pool []string
	switch mode {
	case config.CouncilModeBudget:
		pool = c.builtin.BudgetModels
	case config.CouncilModePremium:
		pool = c.builtin.PremiumModels
	default:
		pool = c.builtin.CouncilModels
	}

	selected := make([]string, 0, count)
	for i := 0; i < count; i++ {
		selected = append(selected, pool[i%len(pool)])
	}
	return selected
}

// pickUnusedModel prefers a council-pool model not already seated, falling
// back to the first designated fallback model.
func (c *Composer) pickUnusedModel(comp *Composition) string {
	used := make(map[string]bool, len(comp.Agents))
	for _, a := range comp.Agents {
		used[a.Model] = true
	}
	for _, m := range c.builtin.CouncilModels {
		if !used[m] {
			return m
		}
	}
	return c.builtin.FallbackModels[0]
}

// pickUnusedRole returns the first default role not already assigned, or a
// generic additional perspective.
func (c *Composer) pickUnusedRole(comp *Composition) config.CompositionRole {
	used := make(map[string]bool, len(comp.Agents))
	for _, a := range comp.Agents {
		used[a.Role.Name] = true
	}
	for _, r := range c.builtin.CompositionRoles {
		if !used[r.Name] {
			return r
		}
	}
	return config.CompositionRole{
		Name:           fmt.Sprintf("additional_perspective_%d", len(comp.Agents)),
		DisplayName:    "Additional Perspective",
		Description:    "Supplementary viewpoint",
		PromptModifier: "Provide unique insights to complement other responses.",
		Priority:       10,
	}
}

func (c *Composer) capabilities(model string) *config.ModelCapability {
	caps, ok := c.builtin.Capabilities[model]
	if !ok {
		return nil
	}
	return &caps
}

// refresh recomputes the derived metadata after the agent set changes.
func (c *Composer) refresh(comp *Composition) {
	comp.AgentCount = len(comp.Agents)
	comp.Topology = TopologyFor(len(comp.Agents))
	comp.RolesSummary = comp.RolesSummary[:0]

	total := 0.0
	for _, a := range comp.Agents {
		comp.RolesSummary = append(comp.RolesSummary, a.Role.DisplayName)

		costPer1K := fallbackCostPer1K
		if m, ok := c.builtin.Models[a.Model]; ok && m.Pricing != nil {
			costPer1K = m.Pricing.AvgCostPer1K()
		}
		total += (estimateTokens / 1000.0) * costPer1K
	}
	comp.EstimatedCost = math.Round(total*councilStages*100) / 100
}
