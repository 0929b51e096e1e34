package council

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func TestConfigWireFormat(t *testing.T) {
	payload := `{
		"name": "Research Council",
		"nodes": [
			{
				"id": "node_1",
				"model": "anthropic/claude-3.5-sonnet",
				"displayName": "Primary",
				"role": "responder",
				"reasoningPattern": "chain_of_thought",
				"systemPrompt": "Answer carefully.",
				"temperature": 0.4,
				"speakingOrder": 1
			},
			{
				"id": "node_2",
				"model": "openai/gpt-4o",
				"isChairman": true
			}
		],
		"edges": [
			{"id": "e1", "source": "node_1", "target": "node_2"}
		]
	}`

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(payload), &cfg))

	assert.Equal(t, "Research Council", cfg.Name)
	require.Len(t, cfg.Nodes, 2)

	n := cfg.Nodes[0]
	assert.Equal(t, "node_1", n.ID)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", n.Model)
	assert.Equal(t, "Primary", n.DisplayName)
	assert.Equal(t, "responder", n.Role)
	assert.Equal(t, "chain_of_thought", n.Pattern)
	assert.Equal(t, "Answer carefully.", n.SystemPrompt)
	require.NotNil(t, n.Temperature)
	assert.Equal(t, 0.4, *n.Temperature)
	assert.Equal(t, 1, n.OrderHint())
	assert.False(t, n.IsChairman)

	assert.True(t, cfg.Nodes[1].IsChairman)

	require.Len(t, cfg.Edges, 1)
	assert.Equal(t, "node_1", cfg.Edges[0].Source)
	assert.Equal(t, "node_2", cfg.Edges[0].Target)
}

func TestNodeDefaults(t *testing.T) {
	n := &Node{ID: "n1", Model: "openai/gpt-4o"}

	assert.Equal(t, 99, n.OrderHint(), "unset speaking order sorts last")
	assert.Equal(t, "Unknown", n.Display())
	assert.Equal(t, 0.7, n.TemperatureOr(0.7))

	n.SpeakingOrder = intp(0)
	assert.Equal(t, 0, n.OrderHint(), "explicit zero is a valid hint")

	n.DisplayName = "Fact Checker"
	assert.Equal(t, "Fact Checker", n.Display())

	n.Temperature = floatp(0.2)
	assert.Equal(t, 0.2, n.TemperatureOr(0.7))
}

func TestConfigDisplayName(t *testing.T) {
	assert.Equal(t, "Council", (&Config{}).DisplayName())
	assert.Equal(t, "My Panel", (&Config{Name: "My Panel"}).DisplayName())
}

func TestTopologyFor(t *testing.T) {
	tests := []struct {
		agents int
		want   Topology
	}{
		{2, TopologyRing},
		{3, TopologyRing},
		{4, TopologyStar},
		{5, TopologyStar},
		{6, TopologyMesh},
		{10, TopologyMesh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TopologyFor(tt.agents), "agents=%d", tt.agents)
	}
}
