package council

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curia-dev/curia/pkg/config"
)

func TestComposeDefault(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{})
	require.NoError(t, err)

	assert.Equal(t, 5, comp.AgentCount)
	assert.Equal(t, TopologyStar, comp.Topology)
	assert.InDelta(t, 0.12, comp.EstimatedCost, 0.001)

	// Models are seated strongest first; the council pool happens to
	// already be in capability order.
	models := make([]string, 0, len(comp.Agents))
	for _, a := range comp.Agents {
		models = append(models, a.Model)
	}
	assert.Equal(t, []string{
		"anthropic/claude-3.5-sonnet",
		"openai/gpt-4o",
		"google/gemini-1.5-pro",
		"deepseek/deepseek-chat",
		"meta-llama/llama-3.1-70b-instruct",
	}, models)

	assert.Equal(t, []string{
		"Primary Responder",
		"Devil's Advocate",
		"Fact Checker",
		"Creative Thinker",
		"Practical Advisor",
	}, comp.RolesSummary)

	require.NotNil(t, comp.Agents[0].Capabilities)
	assert.Equal(t, 0.95, comp.Agents[0].Capabilities.Reasoning)
}

func TestComposeBudgetMode(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{
		AgentCount: 3,
		Mode:       config.CouncilModeBudget,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, comp.AgentCount)
	assert.Equal(t, TopologyRing, comp.Topology)

	// gpt-4o-mini edges out haiku on the weighted capability score.
	models := []string{comp.Agents[0].Model, comp.Agents[1].Model, comp.Agents[2].Model}
	assert.Equal(t, []string{
		"openai/gpt-4o-mini",
		"anthropic/claude-3.5-haiku",
		"google/gemini-1.5-flash",
	}, models)
}

func TestComposePremiumModePoolCycles(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{
		AgentCount: 7,
		Mode:       config.CouncilModePremium,
	})
	require.NoError(t, err)

	assert.Equal(t, 7, comp.AgentCount)
	assert.Equal(t, TopologyMesh, comp.Topology)

	// The four-model premium pool cycles, so three models seat twice.
	counts := make(map[string]int)
	for _, a := range comp.Agents {
		counts[a.Model]++
	}
	assert.Equal(t, 2, counts["anthropic/claude-3.5-sonnet"])
	assert.Equal(t, 1, counts["anthropic/claude-3-opus"])

	// Opus has the best weighted score and takes the primary seat.
	assert.Equal(t, "anthropic/claude-3-opus", comp.Agents[0].Model)
	assert.Equal(t, "primary_responder", comp.Agents[0].Role.Name)
}

func TestComposeExplicitModels(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{
		Models: []string{"deepseek/deepseek-chat", "anthropic/claude-3.5-sonnet"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, comp.AgentCount)
	assert.Equal(t, TopologyRing, comp.Topology)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", comp.Agents[0].Model)
	assert.Equal(t, "deepseek/deepseek-chat", comp.Agents[1].Model)
}

func TestComposeExtrasBecomeAdditionalPerspectives(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{AgentCount: 10})
	require.NoError(t, err)

	require.Equal(t, 10, comp.AgentCount)

	ninth := comp.Agents[8].Role
	assert.Equal(t, "additional_perspective_8", ninth.Name)
	assert.Equal(t, "Additional Perspective 1", ninth.DisplayName)
	assert.Equal(t, 16, ninth.Priority)

	tenth := comp.Agents[9].Role
	assert.Equal(t, "additional_perspective_9", tenth.Name)
	assert.Equal(t, "Additional Perspective 2", tenth.DisplayName)
}

func TestComposeRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		req  ComposeRequest
	}{
		{"too few agents", ComposeRequest{AgentCount: 1}},
		{"too many agents", ComposeRequest{AgentCount: 11}},
		{"unknown mode", ComposeRequest{AgentCount: 3, Mode: config.CouncilMode("luxury")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposer().Compose(tt.req)
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestComposeUnknownModelGetsDefaultScore(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{
		Models: []string{"mystery/model-x", "anthropic/claude-3.5-sonnet"},
	})
	require.NoError(t, err)

	// Unknown models score 0.5 across the board and sort last.
	assert.Equal(t, "mystery/model-x", comp.Agents[1].Model)
	assert.Nil(t, comp.Agents[1].Capabilities)
}

func TestAddAgent(t *testing.T) {
	c := NewComposer()
	comp, err := c.Compose(ComposeRequest{})
	require.NoError(t, err)

	// All council-pool models are seated, so the fallback pool supplies
	// the sixth model and the next unused role is domain expert.
	require.NoError(t, c.AddAgent(comp, ""))

	assert.Equal(t, 6, comp.AgentCount)
	assert.Equal(t, TopologyMesh, comp.Topology)

	added := comp.Agents[5]
	assert.Equal(t, "anthropic/claude-3.5-haiku", added.Model)
	assert.Equal(t, "domain_expert", added.Role.Name)
	assert.Equal(t, "Domain Expert", comp.RolesSummary[5])
}

func TestAddAgentExplicitModel(t *testing.T) {
	c := NewComposer()
	comp, err := c.Compose(ComposeRequest{
		Models: []string{"openai/gpt-4o", "deepseek/deepseek-chat"},
	})
	require.NoError(t, err)

	require.NoError(t, c.AddAgent(comp, "google/gemini-1.5-pro"))
	assert.Equal(t, "google/gemini-1.5-pro", comp.Agents[2].Model)
	assert.Equal(t, "fact_checker", comp.Agents[2].Role.Name)
}

func TestAddAgentAtCapacity(t *testing.T) {
	c := NewComposer()
	comp, err := c.Compose(ComposeRequest{AgentCount: 10})
	require.NoError(t, err)

	err = c.AddAgent(comp, "")
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Equal(t, 10, comp.AgentCount)
}

func TestRemoveAgent(t *testing.T) {
	c := NewComposer()
	comp, err := c.Compose(ComposeRequest{})
	require.NoError(t, err)

	removed := comp.Agents[2].Model
	require.NoError(t, c.RemoveAgent(comp, 2))

	assert.Equal(t, 4, comp.AgentCount)
	assert.Equal(t, TopologyStar, comp.Topology)
	for _, a := range comp.Agents {
		assert.NotEqual(t, removed, a.Model)
	}
	assert.Len(t, comp.RolesSummary, 4)
}

func TestRemoveAgentGuards(t *testing.T) {
	c := NewComposer()

	atMinimum, err := c.Compose(ComposeRequest{
		Models: []string{"openai/gpt-4o", "deepseek/deepseek-chat"},
	})
	require.NoError(t, err)
	require.ErrorIs(t, c.RemoveAgent(atMinimum, 0), ErrInvalidConfig)

	comp, err := c.Compose(ComposeRequest{})
	require.NoError(t, err)
	require.ErrorIs(t, c.RemoveAgent(comp, 9), ErrInvalidConfig)
	require.ErrorIs(t, c.RemoveAgent(comp, -1), ErrInvalidConfig)
}

func TestCompositionCouncil(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{AgentCount: 3})
	require.NoError(t, err)

	cfg := comp.Council("anthropic/claude-3.5-sonnet")
	require.Len(t, cfg.Nodes, 4)

	plan, err := Compile(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"agent_1", "agent_2", "agent_3"}, plan.Order)
	require.NotNil(t, plan.Chairman)
	assert.Equal(t, "chairman", plan.Chairman.ID)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", plan.Chairman.Model)

	// Composed participants carry their role prompt as the override.
	first := plan.Participant("agent_1")
	assert.Equal(t, "primary_responder", first.Role)
	assert.Contains(t, first.SystemPrompt, "PRIMARY RESPONDER")
}

func TestCompositionCouncilWithoutChairman(t *testing.T) {
	comp, err := NewComposer().Compose(ComposeRequest{AgentCount: 2})
	require.NoError(t, err)

	cfg := comp.Council("")
	require.Len(t, cfg.Nodes, 2)

	plan, err := Compile(cfg)
	require.NoError(t, err)
	assert.Nil(t, plan.Chairman)
}
