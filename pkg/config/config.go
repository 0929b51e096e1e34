package config

// Config is the umbrella configuration object that encapsulates
// all registries, defaults, and configuration state.
// This is the primary object returned by Initialize() and used throughout the application.
type Config struct {
	configDir string // Configuration directory path (for reference)

	// System-wide defaults
	Defaults *Defaults

	// Infrastructure settings
	Server    *ServerConfig
	Upstream  *UpstreamConfig
	Budget    *BudgetConfig
	Cache     *CacheConfig
	RateLimit *RateLimitConfig
	Store     *StoreConfig

	// Component registries
	ModelRegistry   *ModelRegistry
	RoleRegistry    *RoleRegistry
	PatternRegistry *PatternRegistry
	PresetRegistry  *PresetRegistry
}

// Initialize is defined in loader.go

// Stats contains statistics about loaded configuration
type Stats struct {
	Models   int
	Roles    int
	Patterns int
	Presets  int
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() Stats {
	s := Stats{}
	if c.ModelRegistry != nil {
		s.Models = c.ModelRegistry.Len()
	}
	if c.RoleRegistry != nil {
		s.Roles = c.RoleRegistry.Len()
	}
	if c.PatternRegistry != nil {
		s.Patterns = c.PatternRegistry.Len()
	}
	if c.PresetRegistry != nil {
		s.Presets = c.PresetRegistry.Len()
	}
	return s
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetModel retrieves a model configuration by ID.
// This is a convenience method that wraps ModelRegistry.Get().
func (c *Config) GetModel(id string) (*ModelConfig, error) {
	return c.ModelRegistry.Get(id)
}

// GetRole retrieves a role configuration by ID.
// This is a convenience method that wraps RoleRegistry.Get().
func (c *Config) GetRole(id string) (*RoleConfig, error) {
	return c.RoleRegistry.Get(id)
}

// GetPattern retrieves a reasoning pattern by ID.
// This is a convenience method that wraps PatternRegistry.Get().
func (c *Config) GetPattern(id string) (*PatternConfig, error) {
	return c.PatternRegistry.Get(id)
}

// GetPreset retrieves a council preset by ID.
// This is a convenience method that wraps PresetRegistry.Get().
func (c *Config) GetPreset(id string) (*PresetConfig, error) {
	return c.PresetRegistry.Get(id)
}

// AllModelIDs returns a sorted list of all registered model IDs.
func (c *Config) AllModelIDs() []string {
	return c.ModelRegistry.IDs()
}
