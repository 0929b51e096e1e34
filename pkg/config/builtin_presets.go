package config

// initBuiltinPresets returns the ready-made council presets. Cost estimates
// assume roughly 2K tokens per model across all three stages.
func initBuiltinPresets() (map[string]PresetConfig, []string) {
	presets := []PresetConfig{
		{
			ID:          "fast",
			Name:        "Fast",
			Description: "Quick responses using budget-friendly models. Best for simple questions.",
			Icon:        "⚡",
			AgentCount:  3,
			Roles: []string{
				"primary_responder",
				"fact_checker",
				"practical_advisor",
			},
			Mode:          CouncilModeBudget,
			EstimatedCost: 0.01,
		},
		{
			ID:          "balanced",
			Name:        "Balanced",
			Description: "Mix of frontier models for well-rounded analysis. Default choice.",
			Icon:        "⚖️",
			AgentCount:  5,
			Roles: []string{
				"primary_responder",
				"devils_advocate",
				"fact_checker",
				"creative_thinker",
				"practical_advisor",
			},
			Mode:          CouncilModeBalanced,
			EstimatedCost: 0.12,
		},
		{
			ID:          "deep",
			Name:        "Deep Analysis",
			Description: "Premium models with comprehensive coverage for complex questions.",
			Icon:        "🔍",
			AgentCount:  7,
			Roles: []string{
				"primary_responder",
				"devils_advocate",
				"fact_checker",
				"creative_thinker",
				"practical_advisor",
				"domain_expert",
				"synthesizer",
			},
			Mode:          CouncilModePremium,
			EstimatedCost: 0.35,
		},
	}

	byID := make(map[string]PresetConfig, len(presets))
	order := make([]string, 0, len(presets))
	for _, preset := range presets {
		byID[preset.ID] = preset
		order = append(order, preset.ID)
	}
	return byID, order
}
