package config

import (
	"fmt"
	"sync"
)

// PresetConfig defines a ready-made council composition selectable by ID.
// Roles reference composition role names in priority order.
type PresetConfig struct {
	ID            string      `yaml:"id" json:"id"`
	Name          string      `yaml:"name" json:"name"`
	Description   string      `yaml:"description" json:"description"`
	Icon          string      `yaml:"icon" json:"icon"`
	AgentCount    int         `yaml:"agent_count" json:"agent_count"`
	Roles         []string    `yaml:"roles" json:"roles"`
	Mode          CouncilMode `yaml:"mode" json:"mode"`
	EstimatedCost float64     `yaml:"estimated_cost" json:"estimated_cost"`
}

// PresetRegistry stores council presets in memory with thread-safe access.
// Registration order is preserved for palette listings.
type PresetRegistry struct {
	presets   map[string]*PresetConfig
	order     []string
	defaultID string
	mu        sync.RWMutex
}

// NewPresetRegistry creates a new preset registry preserving the given order
func NewPresetRegistry(presets map[string]*PresetConfig, order []string, defaultID string) *PresetRegistry {
	copied := make(map[string]*PresetConfig, len(presets))
	for k, v := range presets {
		copied[k] = v
	}
	orderCopy := make([]string, len(order))
	copy(orderCopy, order)
	return &PresetRegistry{
		presets:   copied,
		order:     orderCopy,
		defaultID: defaultID,
	}
}

// Get retrieves a preset configuration by ID (thread-safe)
func (r *PresetRegistry) Get(id string) (*PresetConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	preset, exists := r.presets[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	return preset, nil
}

// Default returns the default preset, falling back to the first registered one.
func (r *PresetRegistry) Default() *PresetConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if preset, exists := r.presets[r.defaultID]; exists {
		return preset
	}
	if len(r.order) > 0 {
		return r.presets[r.order[0]]
	}
	return nil
}

// All returns preset configurations in registration order (thread-safe, returns copy)
func (r *PresetRegistry) All() []*PresetConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*PresetConfig, 0, len(r.order))
	for _, id := range r.order {
		if preset, exists := r.presets[id]; exists {
			result = append(result, preset)
		}
	}
	return result
}

// Has checks if a preset exists in the registry (thread-safe)
func (r *PresetRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.presets[id]
	return exists
}

// Len returns the number of presets in the registry (thread-safe)
func (r *PresetRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.presets)
}
