package config

// Defaults contains system-wide default configurations
// These values are used when specific components don't specify their own values
type Defaults struct {
	// Chairman model used when a council config has no chairman node
	ChairmanModel string `yaml:"chairman_model,omitempty"`

	// Council member models for headless execution and balanced composition
	CouncilModels []string `yaml:"council_models,omitempty"`

	// Fallback models tried when primaries fail
	FallbackModels []string `yaml:"fallback_models,omitempty"`

	// Model used for conversation title generation
	TitleModel string `yaml:"title_model,omitempty"`

	// Sampling temperature default for nodes without one
	Temperature *float64 `yaml:"temperature,omitempty"`

	// Preset chosen when a request names none
	Preset string `yaml:"preset,omitempty"`
}
