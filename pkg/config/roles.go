package config

import (
	"fmt"
	"sync"
)

// RoleConfig describes a role selectable in the council builder palette.
// The prompt becomes the node's system prompt unless the builder overrides it.
type RoleConfig struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
	Prompt      string `yaml:"prompt" json:"prompt"`
}

// CompositionRole defines an assignment slot used when composing councils
// automatically from a preset. Lower priority fills first.
type CompositionRole struct {
	Name           string `yaml:"name" json:"name"`
	DisplayName    string `yaml:"display_name" json:"display_name"`
	Description    string `yaml:"description" json:"description"`
	PromptModifier string `yaml:"prompt_modifier" json:"prompt_modifier"`
	Priority       int    `yaml:"priority" json:"priority"`
}

// RoleRegistry stores role configurations in memory with thread-safe access.
// Registration order is preserved for palette listings.
type RoleRegistry struct {
	roles map[string]*RoleConfig
	order []string
	mu    sync.RWMutex
}

// NewRoleRegistry creates a new role registry preserving the given order
func NewRoleRegistry(roles map[string]*RoleConfig, order []string) *RoleRegistry {
	copied := make(map[string]*RoleConfig, len(roles))
	for k, v := range roles {
		copied[k] = v
	}
	orderCopy := make([]string, len(order))
	copy(orderCopy, order)
	return &RoleRegistry{
		roles: copied,
		order: orderCopy,
	}
}

// Get retrieves a role configuration by ID (thread-safe)
func (r *RoleRegistry) Get(id string) (*RoleConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, exists := r.roles[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrRoleNotFound, id)
	}
	return role, nil
}

// All returns role configurations in registration order (thread-safe, returns copy)
func (r *RoleRegistry) All() []*RoleConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*RoleConfig, 0, len(r.order))
	for _, id := range r.order {
		if role, exists := r.roles[id]; exists {
			result = append(result, role)
		}
	}
	return result
}

// Has checks if a role exists in the registry (thread-safe)
func (r *RoleRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.roles[id]
	return exists
}

// Len returns the number of roles in the registry (thread-safe)
func (r *RoleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roles)
}
