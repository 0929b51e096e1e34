// Package council defines the domain types of a council run: participant
// nodes, the directed edges between them, the compiled execution plan, and
// preset-based council composition.
package council

// defaultOrderHint sorts nodes without an explicit speaking order last.
const defaultOrderHint = 99

// Node is one participant in a council graph. Field names follow the
// builder wire format.
type Node struct {
	ID            string   `json:"id"`
	Model         string   `json:"model"`
	DisplayName   string   `json:"displayName,omitempty"`
	Role          string   `json:"role,omitempty"`
	Pattern       string   `json:"reasoningPattern,omitempty"`
	SystemPrompt  string   `json:"systemPrompt,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	SpeakingOrder *int     `json:"speakingOrder,omitempty"`
	Provider      string   `json:"provider,omitempty"`
	IsChairman    bool     `json:"isChairman,omitempty"`
}

// OrderHint returns the speaking-order tiebreak, defaulting to 99 when unset.
func (n *Node) OrderHint() int {
	if n.SpeakingOrder == nil {
		return defaultOrderHint
	}
	return *n.SpeakingOrder
}

// Display returns the node's display name, or "Unknown" when unset.
func (n *Node) Display() string {
	if n.DisplayName == "" {
		return "Unknown"
	}
	return n.DisplayName
}

// TemperatureOr returns the node's sampling temperature, or fallback when unset.
func (n *Node) TemperatureOr(fallback float64) float64 {
	if n.Temperature == nil {
		return fallback
	}
	return *n.Temperature
}

// Edge is a directed connection from one council node to another.
type Edge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// Config is a council definition as supplied by a client: a name plus the
// node and edge sets. The engine treats it as read-only once execution
// begins.
type Config struct {
	Name  string `json:"name,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// DisplayName returns the council's name, or "Council" when unset.
func (c *Config) DisplayName() string {
	if c.Name == "" {
		return "Council"
	}
	return c.Name
}

// Response is the validated output of one node for one stage. Immutable
// once recorded. Tokens is the upstream's total count; the prompt and
// completion splits are kept for cost accounting.
type Response struct {
	NodeID           string  `json:"nodeId"`
	Model            string  `json:"model"`
	Content          string  `json:"content"`
	PromptTokens     int     `json:"promptTokens,omitempty"`
	CompletionTokens int     `json:"completionTokens,omitempty"`
	Tokens           int     `json:"tokens"`
	Cost             float64 `json:"cost"`
	DurationMS       int64   `json:"durationMs,omitempty"`
}

// Ranking is one evaluator's ordered preference over anonymous response
// labels, plus the raw reply it was parsed from.
type Ranking struct {
	NodeID  string   `json:"nodeId"`
	Model   string   `json:"model,omitempty"`
	Labels  []string `json:"rankings"`
	RawText string   `json:"reasoning,omitempty"`
	Tokens  int      `json:"tokens,omitempty"`
	Cost    float64  `json:"cost,omitempty"`
}

// AggregateRank is one node's averaged Stage 2 placement. Lower mean
// positions rank better.
type AggregateRank struct {
	NodeID       string  `json:"nodeId"`
	Label        string  `json:"label,omitempty"`
	MeanPosition float64 `json:"meanPosition"`
	Votes        int     `json:"votes"`
}

// Topology describes how a composed council is wired.
type Topology string

const (
	TopologyRing Topology = "ring"
	TopologyStar Topology = "star"
	TopologyMesh Topology = "mesh"
)

// TopologyFor picks a wiring shape for a council of n agents: ring up to
// three, star up to five, mesh beyond.
func TopologyFor(n int) Topology {
	switch {
	case n <= 3:
		return TopologyRing
	case n <= 5:
		return TopologyStar
	default:
		return TopologyMesh
	}
}
