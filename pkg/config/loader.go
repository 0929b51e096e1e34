package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// CuriaYAMLConfig represents the complete curia.yaml file structure
type CuriaYAMLConfig struct {
	System   *SystemYAMLConfig        `yaml:"system"`
	Models   map[string]ModelConfig   `yaml:"models"`
	Roles    map[string]RoleConfig    `yaml:"roles"`
	Patterns map[string]PatternConfig `yaml:"patterns"`
	Presets  map[string]PresetConfig  `yaml:"presets"`
	Defaults *Defaults                `yaml:"defaults"`
}

// SystemYAMLConfig groups system-wide infrastructure settings.
type SystemYAMLConfig struct {
	Server    *ServerConfig    `yaml:"server"`
	Upstream  *UpstreamConfig  `yaml:"upstream"`
	Budget    *BudgetConfig    `yaml:"budget"`
	Cache     *CacheConfig     `yaml:"cache"`
	RateLimit *RateLimitConfig `yaml:"rate_limit"`
	Store     *StoreConfig     `yaml:"store"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load curia.yaml from configDir (optional, built-ins apply without it)
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined configurations
//  5. Build in-memory registries
//  6. Resolve infrastructure settings (defaults → YAML → environment)
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	// 1. Load configuration files
	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Validate all configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"models", stats.Models,
		"roles", stats.Roles,
		"patterns", stats.Patterns,
		"presets", stats.Presets)

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{
		configDir: configDir,
	}

	// 1. Load curia.yaml (contains system settings, models, roles, patterns, presets, defaults)
	curiaConfig, err := loader.loadCuriaYAML()
	if err != nil {
		return nil, NewLoadError("curia.yaml", err)
	}

	// 2. Get built-in configuration
	builtin := GetBuiltinConfig()

	// 3. Merge built-in + user-defined components (user overrides built-in)
	models := mergeModels(builtin.Models, curiaConfig.Models)
	roles, roleOrder := mergeRoles(builtin.Roles, builtin.RoleOrder, curiaConfig.Roles)
	patterns, patternOrder := mergePatterns(builtin.Patterns, builtin.PatternOrder, curiaConfig.Patterns)
	presets, presetOrder := mergePresets(builtin.Presets, builtin.PresetOrder, curiaConfig.Presets)

	// 4. Build registries
	modelRegistry := NewModelRegistry(models)
	roleRegistry := NewRoleRegistry(roles, roleOrder)
	patternRegistry := NewPatternRegistry(patterns, patternOrder)
	presetRegistry := NewPresetRegistry(presets, presetOrder, builtin.DefaultPreset)

	// 5. Resolve defaults (YAML overrides built-in)
	defaults := resolveDefaults(curiaConfig.Defaults, builtin)

	// 6. Resolve infrastructure settings (defaults → YAML → environment)
	serverCfg, err := resolveServerConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}
	upstreamCfg, err := resolveUpstreamConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}
	budgetCfg, err := resolveBudgetConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}
	cacheCfg, err := resolveCacheConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}
	rateLimitCfg, err := resolveRateLimitConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}
	storeCfg, err := resolveStoreConfig(curiaConfig.System)
	if err != nil {
		return nil, err
	}

	return &Config{
		configDir:       configDir,
		Defaults:        defaults,
		Server:          serverCfg,
		Upstream:        upstreamCfg,
		Budget:          budgetCfg,
		Cache:           cacheCfg,
		RateLimit:       rateLimitCfg,
		Store:           storeCfg,
		ModelRegistry:   modelRegistry,
		RoleRegistry:    roleRegistry,
		PatternRegistry: patternRegistry,
		PresetRegistry:  presetRegistry,
	}, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand environment variables using {{.VAR}} template syntax
	// Note: ExpandEnv passes through original data on parse/execution errors,
	// allowing YAML parser to handle the content (or fail with clearer error message)
	data = ExpandEnv(data)

	// Parse YAML
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

// loadCuriaYAML loads curia.yaml. A missing file is not an error: the server
// runs on built-ins plus environment variables alone.
func (l *configLoader) loadCuriaYAML() (*CuriaYAMLConfig, error) {
	var config CuriaYAMLConfig

	// Initialize maps to avoid nil maps
	config.Models = make(map[string]ModelConfig)
	config.Roles = make(map[string]RoleConfig)
	config.Patterns = make(map[string]PatternConfig)
	config.Presets = make(map[string]PresetConfig)

	if err := l.loadYAML("curia.yaml", &config); err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			slog.Info("No curia.yaml found, using built-in configuration")
			return &config, nil
		}
		return nil, err
	}

	return &config, nil
}

// resolveDefaults resolves system-wide defaults, filling unset values from
// the built-in configuration.
func resolveDefaults(defaults *Defaults, builtin *BuiltinConfig) *Defaults {
	if defaults == nil {
		defaults = &Defaults{}
	}

	if defaults.ChairmanModel == "" {
		defaults.ChairmanModel = builtin.ChairmanModel
	}
	if len(defaults.CouncilModels) == 0 {
		defaults.CouncilModels = append([]string(nil), builtin.CouncilModels...)
	}
	if len(defaults.FallbackModels) == 0 {
		defaults.FallbackModels = append([]string(nil), builtin.FallbackModels...)
	}
	if defaults.TitleModel == "" {
		defaults.TitleModel = builtin.TitleModel
	}
	if defaults.Temperature == nil {
		t := 0.7
		defaults.Temperature = &t
	}
	if defaults.Preset == "" {
		defaults.Preset = builtin.DefaultPreset
	}

	return defaults
}

// resolveServerConfig resolves server configuration, applying defaults and
// the PORT, HOST, and CORS_ORIGINS environment variables.
func resolveServerConfig(sys *SystemYAMLConfig) (*ServerConfig, error) {
	cfg := DefaultServerConfig()
	if sys != nil && sys.Server != nil {
		if err := mergo.Merge(cfg, sys.Server, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge server config: %w", err)
		}
	}

	cfg.Host = envString("HOST", cfg.Host)
	cfg.Port = envInt("PORT", cfg.Port)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitAndTrim(origins)
	}

	return cfg, nil
}

// resolveUpstreamConfig resolves upstream configuration, applying defaults
// and the OPENROUTER_BASE_URL environment variable.
func resolveUpstreamConfig(sys *SystemYAMLConfig) (*UpstreamConfig, error) {
	cfg := DefaultUpstreamConfig()
	if sys != nil && sys.Upstream != nil {
		if err := mergo.Merge(cfg, sys.Upstream, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge upstream config: %w", err)
		}
	}

	cfg.BaseURL = envString("OPENROUTER_BASE_URL", cfg.BaseURL)

	return cfg, nil
}

// resolveBudgetConfig resolves budget configuration, applying defaults and
// the MAX_BUDGET environment variable.
func resolveBudgetConfig(sys *SystemYAMLConfig) (*BudgetConfig, error) {
	cfg := DefaultBudgetConfig()
	if sys != nil && sys.Budget != nil {
		if err := mergo.Merge(cfg, sys.Budget, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge budget config: %w", err)
		}
	}

	cfg.MaxBudget = envFloat("MAX_BUDGET", cfg.MaxBudget)

	return cfg, nil
}

// resolveCacheConfig resolves cache configuration, applying defaults and the
// CACHE_TTL_SECONDS environment variable.
func resolveCacheConfig(sys *SystemYAMLConfig) (*CacheConfig, error) {
	cfg := DefaultCacheConfig()
	if sys != nil && sys.Cache != nil {
		if err := mergo.Merge(cfg, sys.Cache, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge cache config: %w", err)
		}
	}

	if seconds := os.Getenv("CACHE_TTL_SECONDS"); seconds != "" {
		if n, err := strconv.Atoi(seconds); err == nil && n > 0 {
			cfg.TTL = time.Duration(n) * time.Second
		} else {
			slog.Warn("Invalid CACHE_TTL_SECONDS, using default",
				"value", seconds,
				"default", cfg.TTL)
		}
	}

	return cfg, nil
}

// resolveRateLimitConfig resolves rate limit configuration, applying defaults.
func resolveRateLimitConfig(sys *SystemYAMLConfig) (*RateLimitConfig, error) {
	cfg := DefaultRateLimitConfig()
	if sys != nil && sys.RateLimit != nil {
		if err := mergo.Merge(cfg, sys.RateLimit, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge rate limit config: %w", err)
		}
	}

	return cfg, nil
}

// resolveStoreConfig resolves store configuration, applying defaults and the
// CURIA_DB environment variable.
func resolveStoreConfig(sys *SystemYAMLConfig) (*StoreConfig, error) {
	cfg := DefaultStoreConfig()
	if sys != nil && sys.Store != nil {
		if err := mergo.Merge(cfg, sys.Store, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge store config: %w", err)
		}
	}

	cfg.Path = envString("CURIA_DB", cfg.Path)

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Invalid integer environment variable, using default",
			"variable", key,
			"value", v,
			"default", fallback)
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("Invalid float environment variable, using default",
			"variable", key,
			"value", v,
			"default", fallback)
		return fallback
	}
	return f
}

func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
