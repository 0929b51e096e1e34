package config

import (
	"fmt"
	"sync"
)

// PatternConfig describes a reasoning pattern applicable to a council node.
// The prefix shapes the node's system prompt, the suffix is appended to the
// user query to scaffold the expected response structure.
type PatternConfig struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	Description  string          `yaml:"description" json:"description"`
	Icon         string          `yaml:"icon" json:"icon"`
	Category     PatternCategory `yaml:"category" json:"category"`
	BestFor      []string        `yaml:"best_for" json:"best_for"`
	Temperature  float64         `yaml:"temperature" json:"temperature"`
	PromptPrefix string          `yaml:"prompt_prefix" json:"prompt_prefix"`
	PromptSuffix string          `yaml:"prompt_suffix" json:"prompt_suffix"`
}

// ApplyToSystemPrompt layers the pattern prefix onto a base system prompt.
// The standard pattern (empty prefix) leaves the base prompt untouched.
func (p *PatternConfig) ApplyToSystemPrompt(base string) string {
	if p.PromptPrefix == "" {
		return base
	}
	if base == "" {
		return p.PromptPrefix
	}
	return base + "\n\n" + p.PromptPrefix
}

// ApplyToQuery appends the pattern suffix to the user query.
func (p *PatternConfig) ApplyToQuery(query string) string {
	return query + p.PromptSuffix
}

// CategoryInfo holds pattern category display metadata.
type CategoryInfo struct {
	ID          PatternCategory `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
}

// PatternRegistry stores reasoning patterns in memory with thread-safe access.
// Registration order is preserved for palette listings.
type PatternRegistry struct {
	patterns map[string]*PatternConfig
	order    []string
	mu       sync.RWMutex
}

// NewPatternRegistry creates a new pattern registry preserving the given order
func NewPatternRegistry(patterns map[string]*PatternConfig, order []string) *PatternRegistry {
	copied := make(map[string]*PatternConfig, len(patterns))
	for k, v := range patterns {
		copied[k] = v
	}
	orderCopy := make([]string, len(order))
	copy(orderCopy, order)
	return &PatternRegistry{
		patterns: copied,
		order:    orderCopy,
	}
}

// Get retrieves a pattern configuration by ID (thread-safe)
func (r *PatternRegistry) Get(id string) (*PatternConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pattern, exists := r.patterns[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPatternNotFound, id)
	}
	return pattern, nil
}

// GetOrStandard retrieves a pattern by ID, falling back to the standard
// pattern for unknown or empty IDs. Execution never fails on a bad pattern.
func (r *PatternRegistry) GetOrStandard(id string) *PatternConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if pattern, exists := r.patterns[id]; exists {
		return pattern
	}
	return r.patterns["standard"]
}

// All returns pattern configurations in registration order (thread-safe, returns copy)
func (r *PatternRegistry) All() []*PatternConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*PatternConfig, 0, len(r.order))
	for _, id := range r.order {
		if pattern, exists := r.patterns[id]; exists {
			result = append(result, pattern)
		}
	}
	return result
}

// ByCategory returns patterns in the given category, in registration order.
func (r *PatternRegistry) ByCategory(category PatternCategory) []*PatternConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*PatternConfig
	for _, id := range r.order {
		if pattern, exists := r.patterns[id]; exists && pattern.Category == category {
			result = append(result, pattern)
		}
	}
	return result
}

// Has checks if a pattern exists in the registry (thread-safe)
func (r *PatternRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.patterns[id]
	return exists
}

// Len returns the number of patterns in the registry (thread-safe)
func (r *PatternRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patterns)
}
