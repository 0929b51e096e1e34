package config

// initBuiltinModels returns the priced model catalog. Prices are per million
// tokens in USD and drive cost accounting whenever the upstream catalog has
// no figure for a model.
func initBuiltinModels() map[string]ModelConfig {
	models := map[string]ModelConfig{
		// Anthropic
		"anthropic/claude-3.5-sonnet": {
			Name:     "Claude 3.5 Sonnet",
			Provider: "anthropic",
			Pricing:  &ModelPricing{Input: 3.0, Output: 15.0},
		},
		"anthropic/claude-3.5-haiku": {
			Name:     "Claude 3.5 Haiku",
			Provider: "anthropic",
			Pricing:  &ModelPricing{Input: 0.25, Output: 1.25},
		},
		"anthropic/claude-3-opus": {
			Name:     "Claude 3 Opus",
			Provider: "anthropic",
			Pricing:  &ModelPricing{Input: 15.0, Output: 75.0},
		},
		// OpenAI
		"openai/gpt-4o": {
			Name:     "GPT-4o",
			Provider: "openai",
			Pricing:  &ModelPricing{Input: 2.5, Output: 10.0},
		},
		"openai/gpt-4o-mini": {
			Name:     "GPT-4o Mini",
			Provider: "openai",
			Pricing:  &ModelPricing{Input: 0.15, Output: 0.6},
		},
		"openai/gpt-4-turbo": {
			Name:     "GPT-4 Turbo",
			Provider: "openai",
			Pricing:  &ModelPricing{Input: 10.0, Output: 30.0},
		},
		// Google
		"google/gemini-1.5-pro": {
			Name:     "Gemini 1.5 Pro",
			Provider: "google",
			Pricing:  &ModelPricing{Input: 1.25, Output: 5.0},
		},
		"google/gemini-1.5-flash": {
			Name:     "Gemini 1.5 Flash",
			Provider: "google",
			Pricing:  &ModelPricing{Input: 0.075, Output: 0.3},
		},
		// DeepSeek
		"deepseek/deepseek-chat": {
			Name:     "DeepSeek Chat",
			Provider: "deepseek",
			Pricing:  &ModelPricing{Input: 0.14, Output: 0.28},
		},
		// Meta
		"meta-llama/llama-3.1-70b-instruct": {
			Name:     "Llama 3.1 70B",
			Provider: "meta-llama",
			Pricing:  &ModelPricing{Input: 0.52, Output: 0.75},
		},
		"meta-llama/llama-3.1-8b-instruct": {
			Name:     "Llama 3.1 8B",
			Provider: "meta-llama",
			Pricing:  &ModelPricing{Input: 0.055, Output: 0.055},
		},
	}

	// Fill derived fields from the map key and pricing
	for id, m := range models {
		m.ID = id
		m.Tier = TierForCost(m.Pricing.AvgCostPer1K())
		models[id] = m
	}
	return models
}

func initBuiltinProviders() map[string]ProviderInfo {
	return map[string]ProviderInfo{
		"anthropic":  {Name: "Anthropic", Color: "#D4A574"},
		"openai":     {Name: "OpenAI", Color: "#10A37F"},
		"google":     {Name: "Google", Color: "#4285F4"},
		"deepseek":   {Name: "DeepSeek", Color: "#5B6EE1"},
		"meta-llama": {Name: "Meta", Color: "#0668E1"},
	}
}

// initBuiltinCapabilities returns capability scores used to match models to
// roles during automatic composition (higher is better).
func initBuiltinCapabilities() map[string]ModelCapability {
	return map[string]ModelCapability{
		// Anthropic
		"anthropic/claude-3.5-sonnet": {Reasoning: 0.95, Creativity: 0.90, Accuracy: 0.94},
		"anthropic/claude-3.5-haiku":  {Reasoning: 0.85, Creativity: 0.82, Accuracy: 0.86},
		"anthropic/claude-3-opus":     {Reasoning: 0.96, Creativity: 0.88, Accuracy: 0.95},
		// OpenAI
		"openai/gpt-4o":      {Reasoning: 0.94, Creativity: 0.92, Accuracy: 0.93},
		"openai/gpt-4o-mini": {Reasoning: 0.85, Creativity: 0.84, Accuracy: 0.85},
		"openai/gpt-4-turbo": {Reasoning: 0.92, Creativity: 0.90, Accuracy: 0.91},
		// Google
		"google/gemini-1.5-pro":   {Reasoning: 0.91, Creativity: 0.86, Accuracy: 0.90},
		"google/gemini-1.5-flash": {Reasoning: 0.83, Creativity: 0.80, Accuracy: 0.84},
		// DeepSeek
		"deepseek/deepseek-chat": {Reasoning: 0.90, Creativity: 0.85, Accuracy: 0.89},
		// Meta
		"meta-llama/llama-3.1-70b-instruct": {Reasoning: 0.88, Creativity: 0.86, Accuracy: 0.87},
		"meta-llama/llama-3.1-8b-instruct":  {Reasoning: 0.78, Creativity: 0.76, Accuracy: 0.77},
	}
}

// initStaticCatalog returns the model list served when the upstream catalog
// is unreachable and nothing is cached.
func initStaticCatalog() []ModelConfig {
	return []ModelConfig{
		// Anthropic Claude 4.5 series
		{ID: "anthropic/claude-opus-4.5", Name: "Claude Opus 4.5", Provider: "anthropic", Tier: ModelTierPremium},
		{ID: "anthropic/claude-sonnet-4.5", Name: "Claude Sonnet 4.5", Provider: "anthropic", Tier: ModelTierStandard},
		{ID: "anthropic/claude-haiku-4.5", Name: "Claude Haiku 4.5", Provider: "anthropic", Tier: ModelTierBudget},
		// OpenAI GPT-5 series
		{ID: "openai/gpt-5.2", Name: "GPT-5.2", Provider: "openai", Tier: ModelTierStandard},
		{ID: "openai/gpt-5.2-pro", Name: "GPT-5.2 Pro", Provider: "openai", Tier: ModelTierPremium},
		{ID: "openai/gpt-5.2-chat", Name: "ChatGPT 5.2", Provider: "openai", Tier: ModelTierStandard},
		// Google Gemini
		{ID: "google/gemini-3-pro-preview", Name: "Gemini 3 Pro", Provider: "google", Tier: ModelTierPremium},
		{ID: "google/gemini-2.5-flash-preview-09-2025", Name: "Gemini 2.5 Flash", Provider: "google", Tier: ModelTierBudget},
		// DeepSeek v3.2
		{ID: "deepseek/deepseek-v3.2", Name: "DeepSeek V3.2", Provider: "deepseek", Tier: ModelTierBudget},
		{ID: "deepseek/deepseek-v3.2-speciale", Name: "DeepSeek V3.2 Speciale", Provider: "deepseek", Tier: ModelTierStandard},
		// Meta Llama via NVIDIA
		{ID: "nvidia/llama-3.3-nemotron-super-49b-v1.5", Name: "Llama 3.3 49B", Provider: "meta", Tier: ModelTierBudget},
	}
}
