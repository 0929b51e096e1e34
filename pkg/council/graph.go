package council

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// ErrInvalidConfig reports a council configuration that cannot be executed.
var ErrInvalidConfig = errors.New("invalid council config")

// Plan is the compiled form of a council graph: node lookup, adjacency in
// both directions, and a deterministic participant execution order. The
// chairman is kept out of Order and scheduled separately in Stage 3.
type Plan struct {
	Config   *Config
	Nodes    map[string]*Node
	Incoming map[string][]string
	Outgoing map[string][]string
	Order    []string
	Chairman *Node
}

// Participant returns the node for id, or nil when id is unknown.
func (p *Plan) Participant(id string) *Node {
	return p.Nodes[id]
}

// Upstream returns the ids of nodes with an edge pointing at id.
func (p *Plan) Upstream(id string) []string {
	return p.Incoming[id]
}

// Compile validates cfg and builds its execution plan. Order is computed
// with Kahn's algorithm over all nodes, popping the lowest speaking-order
// hint first and breaking ties by node id. A cyclic graph falls back to a
// plain speaking-order sort with a logged warning.
func Compile(cfg *Config) (*Plan, error) {
	if cfg == nil || len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("%w: no nodes", ErrInvalidConfig)
	}

	nodes := make(map[string]*Node, len(cfg.Nodes))
	var chairman *Node
	for i := range cfg.Nodes {
		n := &cfg.Nodes[i]
		if n.ID == "" {
			return nil, fmt.Errorf("%w: node without id", ErrInvalidConfig)
		}
		if _, ok := nodes[n.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidConfig, n.ID)
		}
		nodes[n.ID] = n
		if n.IsChairman {
			if chairman != nil {
				return nil, fmt.Errorf("%w: more than one chairman", ErrInvalidConfig)
			}
			chairman = n
		}
	}

	incoming := make(map[string][]string)
	outgoing := make(map[string][]string)
	seen := make(map[[2]string]bool, len(cfg.Edges))
	for _, e := range cfg.Edges {
		if _, ok := nodes[e.Source]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown node %q", ErrInvalidConfig, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return nil, fmt.Errorf("%w: edge references unknown node %q", ErrInvalidConfig, e.Target)
		}
		if e.Source == e.Target {
			return nil, fmt.Errorf("%w: self-loop on node %q", ErrInvalidConfig, e.Source)
		}
		key := [2]string{e.Source, e.Target}
		if seen[key] {
			continue
		}
		seen[key] = true
		outgoing[e.Source] = append(outgoing[e.Source], e.Target)
		incoming[e.Target] = append(incoming[e.Target], e.Source)
	}

	order := executionOrder(cfg, nodes, incoming, outgoing)

	// The chairman never speaks in Stage 1.
	if chairman != nil {
		filtered := order[:0]
		for _, id := range order {
			if id != chairman.ID {
				filtered = append(filtered, id)
			}
		}
		order = filtered
	}

	return &Plan{
		Config:   cfg,
		Nodes:    nodes,
		Incoming: incoming,
		Outgoing: outgoing,
		Order:    order,
		Chairman: chairman,
	}, nil
}

// executionOrder runs Kahn's algorithm over every node. When the result
// misses nodes a cycle is present and the order degrades to the speaking
// order alone.
func executionOrder(cfg *Config, nodes map[string]*Node, incoming, outgoing map[string][]string) []string {
	inDegree := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))
	for id := range nodes {
		inDegree[id] = len(incoming[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		sortByHint(queue, nodes)
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, target := range outgoing[current] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if len(order) != len(nodes) {
		slog.Warn("Cycle detected in council edges, falling back to speaking order",
			"council", cfg.DisplayName())
		order = order[:0]
		for id := range nodes {
			order = append(order, id)
		}
		sortByHint(order, nodes)
	}
	return order
}

// sortByHint orders node ids by ascending speaking-order hint, then id.
func sortByHint(ids []string, nodes map[string]*Node) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := nodes[ids[i]], nodes[ids[j]]
		if a.OrderHint() != b.OrderHint() {
			return a.OrderHint() < b.OrderHint()
		}
		return ids[i] < ids[j]
	})
}
