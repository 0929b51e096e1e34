package config

// mergeModels merges built-in and user-defined model configurations.
// User-defined models override built-in models with the same ID.
func mergeModels(builtinModels map[string]ModelConfig, userModels map[string]ModelConfig) map[string]*ModelConfig {
	result := make(map[string]*ModelConfig)

	// First, add built-in models
	for id, model := range builtinModels {
		modelCopy := model
		result[id] = &modelCopy
	}

	// Then, override with user-defined models (or add new ones)
	for id, userModel := range userModels {
		modelCopy := userModel
		if modelCopy.ID == "" {
			modelCopy.ID = id
		}
		// Derive the tier from pricing when the user gave neither
		if modelCopy.Tier == "" && modelCopy.Pricing != nil {
			modelCopy.Tier = TierForCost(modelCopy.Pricing.AvgCostPer1K())
		}
		result[id] = &modelCopy
	}

	return result
}

// mergeRoles merges built-in and user-defined role configurations.
// User-defined roles override built-in roles with the same ID; new roles are
// appended to the palette order.
func mergeRoles(builtinRoles map[string]RoleConfig, builtinOrder []string, userRoles map[string]RoleConfig) (map[string]*RoleConfig, []string) {
	result := make(map[string]*RoleConfig)
	order := make([]string, len(builtinOrder))
	copy(order, builtinOrder)

	// First, add built-in roles
	for id, role := range builtinRoles {
		roleCopy := role
		result[id] = &roleCopy
	}

	// Then, override with user-defined roles (or add new ones)
	for id, userRole := range userRoles {
		roleCopy := userRole
		if roleCopy.ID == "" {
			roleCopy.ID = id
		}
		if _, exists := result[id]; !exists {
			order = append(order, id)
		}
		result[id] = &roleCopy
	}

	return result, order
}

// mergePatterns merges built-in and user-defined reasoning patterns.
// User-defined patterns override built-in patterns with the same ID; new
// patterns are appended to the palette order.
func mergePatterns(builtinPatterns map[string]PatternConfig, builtinOrder []string, userPatterns map[string]PatternConfig) (map[string]*PatternConfig, []string) {
	result := make(map[string]*PatternConfig)
	order := make([]string, len(builtinOrder))
	copy(order, builtinOrder)

	// First, add built-in patterns
	for id, pattern := range builtinPatterns {
		patternCopy := pattern
		result[id] = &patternCopy
	}

	// Then, override with user-defined patterns (or add new ones)
	for id, userPattern := range userPatterns {
		patternCopy := userPattern
		if patternCopy.ID == "" {
			patternCopy.ID = id
		}
		if _, exists := result[id]; !exists {
			order = append(order, id)
		}
		result[id] = &patternCopy
	}

	return result, order
}

// mergePresets merges built-in and user-defined council presets.
// User-defined presets override built-in presets with the same ID; new
// presets are appended to the palette order.
func mergePresets(builtinPresets map[string]PresetConfig, builtinOrder []string, userPresets map[string]PresetConfig) (map[string]*PresetConfig, []string) {
	result := make(map[string]*PresetConfig)
	order := make([]string, len(builtinOrder))
	copy(order, builtinOrder)

	// First, add built-in presets
	for id, preset := range builtinPresets {
		presetCopy := preset
		result[id] = &presetCopy
	}

	// Then, override with user-defined presets (or add new ones)
	for id, userPreset := range userPresets {
		presetCopy := userPreset
		if presetCopy.ID == "" {
			presetCopy.ID = id
		}
		if _, exists := result[id]; !exists {
			order = append(order, id)
		}
		result[id] = &presetCopy
	}

	return result, order
}
