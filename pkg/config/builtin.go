package config

import (
	"sync"
)

// BuiltinConfig holds all built-in configuration data.
// This provides default models, roles, reasoning patterns, presets, and the
// model pools used for council composition.
type BuiltinConfig struct {
	Models           map[string]ModelConfig
	Providers        map[string]ProviderInfo
	Capabilities     map[string]ModelCapability
	Roles            map[string]RoleConfig
	RoleOrder        []string
	CompositionRoles []CompositionRole
	Patterns         map[string]PatternConfig
	PatternOrder     []string
	Categories       []CategoryInfo
	Presets          map[string]PresetConfig
	PresetOrder      []string
	StaticCatalog    []ModelConfig

	// Model pools for composition and resilience
	CouncilModels  []string
	BudgetModels   []string
	PremiumModels  []string
	FallbackModels []string

	ChairmanModel string
	TitleModel    string
	DefaultPreset string
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration (thread-safe, lazy-initialized)
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(initBuiltinConfig)
	return builtinConfig
}

func initBuiltinConfig() {
	roles, roleOrder := initBuiltinRoles()
	patterns, patternOrder := initBuiltinPatterns()
	presets, presetOrder := initBuiltinPresets()

	builtinConfig = &BuiltinConfig{
		Models:           initBuiltinModels(),
		Providers:        initBuiltinProviders(),
		Capabilities:     initBuiltinCapabilities(),
		Roles:            roles,
		RoleOrder:        roleOrder,
		CompositionRoles: initBuiltinCompositionRoles(),
		Patterns:         patterns,
		PatternOrder:     patternOrder,
		Categories:       initBuiltinCategories(),
		Presets:          presets,
		PresetOrder:      presetOrder,
		StaticCatalog:    initStaticCatalog(),
		CouncilModels: []string{
			"anthropic/claude-3.5-sonnet",
			"openai/gpt-4o",
			"google/gemini-1.5-pro",
			"deepseek/deepseek-chat",
			"meta-llama/llama-3.1-70b-instruct",
		},
		BudgetModels: []string{
			"anthropic/claude-3.5-haiku",
			"openai/gpt-4o-mini",
			"google/gemini-1.5-flash",
			"deepseek/deepseek-chat",
		},
		PremiumModels: []string{
			"anthropic/claude-3.5-sonnet",
			"openai/gpt-4o",
			"google/gemini-1.5-pro",
			"anthropic/claude-3-opus",
		},
		FallbackModels: []string{
			"anthropic/claude-3.5-haiku",
			"openai/gpt-4o-mini",
			"deepseek/deepseek-chat",
		},
		ChairmanModel: "anthropic/claude-3.5-sonnet",
		TitleModel:    "google/gemini-1.5-flash",
		DefaultPreset: "balanced",
	}
}
