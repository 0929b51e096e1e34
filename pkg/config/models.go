package config

import (
	"fmt"
	"sort"
	"sync"
)

// ModelPricing holds per-million-token prices in USD.
type ModelPricing struct {
	Input  float64 `yaml:"input" json:"input"`
	Output float64 `yaml:"output" json:"output"`
}

// AvgCostPer1K returns the blended per-1K-token cost used for estimates.
func (p ModelPricing) AvgCostPer1K() float64 {
	return (p.Input + p.Output) / 2000
}

// ModelCapability scores a model for role assignment (higher is better).
type ModelCapability struct {
	Reasoning  float64 `yaml:"reasoning" json:"reasoning"`
	Creativity float64 `yaml:"creativity" json:"creativity"`
	Accuracy   float64 `yaml:"accuracy" json:"accuracy"`
}

// ModelConfig describes a model available to council builders.
type ModelConfig struct {
	ID            string        `yaml:"id" json:"id"`
	Name          string        `yaml:"name" json:"name"`
	Provider      string        `yaml:"provider" json:"provider"`
	Tier          ModelTier     `yaml:"tier" json:"tier"`
	ContextLength int           `yaml:"context_length,omitempty" json:"context_length,omitempty"`
	Pricing       *ModelPricing `yaml:"pricing,omitempty" json:"pricing,omitempty"`
}

// ProviderInfo holds provider display metadata for the builder UI.
type ProviderInfo struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// ModelRegistry stores model configurations in memory with thread-safe access
type ModelRegistry struct {
	models map[string]*ModelConfig
	mu     sync.RWMutex
}

// NewModelRegistry creates a new model registry
func NewModelRegistry(models map[string]*ModelConfig) *ModelRegistry {
	// Defensive copy to prevent external mutation
	copied := make(map[string]*ModelConfig, len(models))
	for k, v := range models {
		copied[k] = v
	}
	return &ModelRegistry{
		models: copied,
	}
}

// Get retrieves a model configuration by ID (thread-safe)
func (r *ModelRegistry) Get(id string) (*ModelConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, id)
	}
	return model, nil
}

// GetAll returns all model configurations (thread-safe, returns copy)
func (r *ModelRegistry) GetAll() map[string]*ModelConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]*ModelConfig, len(r.models))
	for k, v := range r.models {
		result[k] = v
	}
	return result
}

// Has checks if a model exists in the registry (thread-safe)
func (r *ModelRegistry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.models[id]
	return exists
}

// Len returns the number of models in the registry (thread-safe)
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// IDs returns a sorted list of all registered model IDs.
func (r *ModelRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Pricing returns per-million-token pricing for a model, or nil when unknown.
func (r *ModelRegistry) Pricing(id string) *ModelPricing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	model, exists := r.models[id]
	if !exists {
		return nil
	}
	return model.Pricing
}
