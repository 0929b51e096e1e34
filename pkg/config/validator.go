package config

import (
	"fmt"
)

// ConfigValidator validates configuration comprehensively with clear error messages
type ConfigValidator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration
func NewValidator(cfg *Config) *ConfigValidator {
	return &ConfigValidator{cfg: cfg}
}

// ValidateAll performs comprehensive validation (fail-fast - stops at first error)
func (v *ConfigValidator) ValidateAll() error {
	// Validate in order: models → roles → patterns → presets → system settings
	// This ensures dependencies are validated before dependents

	if err := v.validateModels(); err != nil {
		return fmt.Errorf("model validation failed: %w", err)
	}

	if err := v.validateRoles(); err != nil {
		return fmt.Errorf("role validation failed: %w", err)
	}

	if err := v.validatePatterns(); err != nil {
		return fmt.Errorf("pattern validation failed: %w", err)
	}

	if err := v.validatePresets(); err != nil {
		return fmt.Errorf("preset validation failed: %w", err)
	}

	if err := v.validateDefaults(); err != nil {
		return fmt.Errorf("defaults validation failed: %w", err)
	}

	if err := v.validateSystem(); err != nil {
		return fmt.Errorf("system validation failed: %w", err)
	}

	return nil
}

func (v *ConfigValidator) validateModels() error {
	for id, model := range v.cfg.ModelRegistry.GetAll() {
		if model.Name == "" {
			return NewValidationError("model", id, "name", fmt.Errorf("%w", ErrMissingRequiredField))
		}

		if model.Tier != "" && !model.Tier.IsValid() {
			return NewValidationError("model", id, "tier", fmt.Errorf("invalid tier: %s", model.Tier))
		}

		if model.Pricing != nil {
			if model.Pricing.Input < 0 || model.Pricing.Output < 0 {
				return NewValidationError("model", id, "pricing", fmt.Errorf("prices must not be negative"))
			}
		}
	}

	return nil
}

func (v *ConfigValidator) validateRoles() error {
	for _, role := range v.cfg.RoleRegistry.All() {
		if role.Name == "" {
			return NewValidationError("role", role.ID, "name", fmt.Errorf("%w", ErrMissingRequiredField))
		}

		if role.Prompt == "" {
			return NewValidationError("role", role.ID, "prompt", fmt.Errorf("%w", ErrMissingRequiredField))
		}
	}

	return nil
}

func (v *ConfigValidator) validatePatterns() error {
	registry := v.cfg.PatternRegistry

	// The standard pattern is the execution fallback and must exist
	if !registry.Has("standard") {
		return NewValidationError("pattern", "standard", "", fmt.Errorf("standard pattern is required"))
	}

	for _, pattern := range registry.All() {
		if pattern.Name == "" {
			return NewValidationError("pattern", pattern.ID, "name", fmt.Errorf("%w", ErrMissingRequiredField))
		}

		if !pattern.Category.IsValid() {
			return NewValidationError("pattern", pattern.ID, "category", fmt.Errorf("invalid category: %s", pattern.Category))
		}

		if pattern.Temperature < 0 || pattern.Temperature > 2 {
			return NewValidationError("pattern", pattern.ID, "temperature", fmt.Errorf("must be between 0 and 2"))
		}
	}

	return nil
}

func (v *ConfigValidator) validatePresets() error {
	builtin := GetBuiltinConfig()

	compositionRoles := make(map[string]bool, len(builtin.CompositionRoles))
	for _, role := range builtin.CompositionRoles {
		compositionRoles[role.Name] = true
	}

	for _, preset := range v.cfg.PresetRegistry.All() {
		if preset.Name == "" {
			return NewValidationError("preset", preset.ID, "name", fmt.Errorf("%w", ErrMissingRequiredField))
		}

		if preset.AgentCount < 2 || preset.AgentCount > 10 {
			return NewValidationError("preset", preset.ID, "agent_count", fmt.Errorf("must be between 2 and 10"))
		}

		if !preset.Mode.IsValid() {
			return NewValidationError("preset", preset.ID, "mode", fmt.Errorf("invalid mode: %s", preset.Mode))
		}

		for _, roleName := range preset.Roles {
			if !compositionRoles[roleName] {
				return NewValidationError("preset", preset.ID, "roles", fmt.Errorf("composition role '%s' not found", roleName))
			}
		}

		if preset.EstimatedCost < 0 {
			return NewValidationError("preset", preset.ID, "estimated_cost", fmt.Errorf("must not be negative"))
		}
	}

	return nil
}

func (v *ConfigValidator) validateDefaults() error {
	d := v.cfg.Defaults

	if d.ChairmanModel == "" {
		return NewValidationError("defaults", "defaults", "chairman_model", fmt.Errorf("%w", ErrMissingRequiredField))
	}

	if len(d.CouncilModels) == 0 {
		return NewValidationError("defaults", "defaults", "council_models", fmt.Errorf("at least one council model required"))
	}

	if d.Temperature != nil && (*d.Temperature < 0 || *d.Temperature > 2) {
		return NewValidationError("defaults", "defaults", "temperature", fmt.Errorf("must be between 0 and 2"))
	}

	if d.Preset != "" && !v.cfg.PresetRegistry.Has(d.Preset) {
		return NewValidationError("defaults", "defaults", "preset", fmt.Errorf("preset '%s' not found", d.Preset))
	}

	return nil
}

func (v *ConfigValidator) validateSystem() error {
	if v.cfg.Server.Port < 1 || v.cfg.Server.Port > 65535 {
		return NewValidationError("system", "server", "port", fmt.Errorf("must be between 1 and 65535"))
	}

	if v.cfg.Upstream.BaseURL == "" {
		return NewValidationError("system", "upstream", "base_url", fmt.Errorf("%w", ErrMissingRequiredField))
	}

	if v.cfg.Upstream.RequestTimeout <= 0 {
		return NewValidationError("system", "upstream", "request_timeout", fmt.Errorf("must be positive"))
	}

	if v.cfg.Budget.MaxBudget <= 0 {
		return NewValidationError("system", "budget", "max_budget", fmt.Errorf("must be positive"))
	}

	if v.cfg.Cache.TTL <= 0 {
		return NewValidationError("system", "cache", "ttl", fmt.Errorf("must be positive"))
	}

	if v.cfg.RateLimit.MaxRequests < 1 {
		return NewValidationError("system", "rate_limit", "max_requests", fmt.Errorf("must be at least 1"))
	}

	if v.cfg.RateLimit.Window <= 0 {
		return NewValidationError("system", "rate_limit", "window", fmt.Errorf("must be positive"))
	}

	if v.cfg.RateLimit.MaxConcurrentWS < 1 {
		return NewValidationError("system", "rate_limit", "max_concurrent_ws", fmt.Errorf("must be at least 1"))
	}

	if v.cfg.Store.Path == "" {
		return NewValidationError("system", "store", "path", fmt.Errorf("%w", ErrMissingRequiredField))
	}

	return nil
}
