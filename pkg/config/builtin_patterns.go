package config

// initBuiltinPatterns returns the reasoning pattern catalog. Temperatures are
// tuned per pattern: lower for precision work, higher for creative modes.
func initBuiltinPatterns() (map[string]PatternConfig, []string) {
	patterns := []PatternConfig{
		{
			ID:           "standard",
			Name:         "Standard",
			Description:  "Direct response without specific reasoning structure",
			Icon:         "💬",
			Category:     PatternCategoryBasic,
			BestFor:      []string{"Simple questions", "Quick responses", "Factual queries"},
			Temperature:  0.7,
			PromptPrefix: "",
			PromptSuffix: "",
		},
		{
			ID:           "chain_of_thought",
			Name:         "Chain of Thought",
			Description:  "Step-by-step reasoning that shows the thinking process",
			Icon:         "🔗",
			Category:     PatternCategoryReasoning,
			BestFor:      []string{"Complex problems", "Math", "Logic puzzles", "Multi-step tasks"},
			Temperature:  0.4,
			PromptPrefix: "Think through this step-by-step. Show your reasoning process clearly before arriving at your conclusion.",
			PromptSuffix: "\n\nLet's approach this step by step:\n1.",
		},
		{
			ID:           "tree_of_thoughts",
			Name:         "Tree of Thoughts",
			Description:  "Explores multiple reasoning paths and evaluates each branch",
			Icon:         "🌳",
			Category:     PatternCategoryReasoning,
			BestFor:      []string{"Strategic decisions", "Complex problems with multiple solutions", "Planning"},
			Temperature:  0.6,
			PromptPrefix: "Consider multiple possible approaches to this problem. For each approach, explore the implications and evaluate its merits before selecting the best path.",
			PromptSuffix: "\n\nPossible approaches:\n- Approach A:\n- Approach B:\n- Approach C:\n\nEvaluation and best path:",
		},
		{
			ID:           "react",
			Name:         "ReAct",
			Description:  "Reasoning and Acting - interleaves thinking with action steps",
			Icon:         "⚡",
			Category:     PatternCategoryReasoning,
			BestFor:      []string{"Task execution", "Problem solving with actions", "Research tasks"},
			Temperature:  0.5,
			PromptPrefix: "Use the ReAct pattern: alternate between Thought (your reasoning), Action (what you would do), and Observation (what you learn). Continue until you reach a conclusion.",
			PromptSuffix: "\n\nThought 1: Let me analyze this...\nAction 1: \nObservation 1: ",
		},
		{
			ID:           "research",
			Name:         "Research Mode",
			Description:  "Thorough investigation with source consideration and evidence gathering",
			Icon:         "🔬",
			Category:     PatternCategoryInvestigation,
			BestFor:      []string{"Fact-finding", "In-depth analysis", "Verification tasks"},
			Temperature:  0.3,
			PromptPrefix: "Approach this as a thorough research task. Consider multiple sources of information, evaluate credibility, identify gaps in knowledge, and clearly distinguish between established facts, likely conclusions, and speculation.",
			PromptSuffix: "\n\nResearch findings:\n- Key facts:\n- Evidence:\n- Confidence level:\n- Knowledge gaps:",
		},
		{
			ID:           "self_consistency",
			Name:         "Self-Consistency",
			Description:  "Generates multiple independent solutions and finds consensus",
			Icon:         "🎯",
			Category:     PatternCategoryReasoning,
			BestFor:      []string{"Ambiguous problems", "Verification", "High-stakes decisions"},
			Temperature:  0.5,
			PromptPrefix: "Generate three independent analyses of this problem, then identify where they agree and disagree. Your final answer should reflect the consensus while noting any significant disagreements.",
			PromptSuffix: "\n\nAnalysis 1:\nAnalysis 2:\nAnalysis 3:\n\nConsensus:",
		},
		{
			ID:           "first_principles",
			Name:         "First Principles",
			Description:  "Breaks down problems to fundamental truths and builds up from there",
			Icon:         "🧱",
			Category:     PatternCategoryReasoning,
			BestFor:      []string{"Innovation", "Challenging assumptions", "Root cause analysis"},
			Temperature:  0.4,
			PromptPrefix: "Apply first principles thinking. Break this down to its most fundamental truths, question all assumptions, and rebuild your understanding from the ground up.",
			PromptSuffix: "\n\nFundamental truths:\n1.\nAssumptions to question:\n-\nRebuilt understanding:",
		},
		{
			ID:           "socratic",
			Name:         "Socratic Method",
			Description:  "Uses questioning to explore ideas and uncover assumptions",
			Icon:         "❓",
			Category:     PatternCategoryAnalysis,
			BestFor:      []string{"Deep exploration", "Teaching", "Uncovering hidden assumptions"},
			Temperature:  0.6,
			PromptPrefix: "Use the Socratic method. Ask probing questions to explore this topic deeply, challenge assumptions, and guide toward deeper understanding through inquiry.",
			PromptSuffix: "\n\nKey questions to explore:\n1. What do we assume?\n2. What evidence supports this?\n3. What are the implications?",
		},
		{
			ID:           "mece",
			Name:         "MECE Framework",
			Description:  "Mutually Exclusive, Collectively Exhaustive - structured comprehensive analysis",
			Icon:         "📊",
			Category:     PatternCategoryAnalysis,
			BestFor:      []string{"Business problems", "Categorization", "Comprehensive coverage"},
			Temperature:  0.4,
			PromptPrefix: "Structure your analysis using the MECE principle (Mutually Exclusive, Collectively Exhaustive). Ensure all categories are distinct with no overlap, and together cover all possibilities.",
			PromptSuffix: "\n\nMECE Categories:\n1. [Category A - distinct area]\n2. [Category B - no overlap with A]\n3. [Category C - remaining coverage]\n\nAnalysis by category:",
		},
		{
			ID:           "analogical",
			Name:         "Analogical Reasoning",
			Description:  "Draws parallels from similar situations or domains",
			Icon:         "🔄",
			Category:     PatternCategoryCreative,
			BestFor:      []string{"Novel problems", "Cross-domain insights", "Creative solutions"},
			Temperature:  0.8,
			PromptPrefix: "Use analogical reasoning. Find relevant parallels from other domains, situations, or fields that can illuminate this problem. Draw insights from these analogies.",
			PromptSuffix: "\n\nRelevant analogies:\n1. This is similar to...\n2. In another domain...\n\nInsights from analogies:",
		},
		{
			ID:           "contrarian",
			Name:         "Contrarian Analysis",
			Description:  "Deliberately argues against conventional wisdom",
			Icon:         "🔀",
			Category:     PatternCategoryAnalysis,
			BestFor:      []string{"Risk assessment", "Challenging groupthink", "Stress testing ideas"},
			Temperature:  0.7,
			PromptPrefix: "Take a contrarian view. Deliberately argue against the conventional wisdom or obvious answer. Find weaknesses, counterexamples, and alternative perspectives that others might miss.",
			PromptSuffix: "\n\nConventional view:\nContrarian perspective:\nKey counterarguments:\nHidden risks:",
		},
		{
			ID:           "pros_cons",
			Name:         "Pros & Cons",
			Description:  "Balanced analysis of advantages and disadvantages",
			Icon:         "⚖️",
			Category:     PatternCategoryAnalysis,
			BestFor:      []string{"Decision making", "Trade-off analysis", "Balanced evaluation"},
			Temperature:  0.5,
			PromptPrefix: "Provide a balanced analysis of pros and cons. Consider multiple stakeholder perspectives and weight the relative importance of each factor.",
			PromptSuffix: "\n\nPros:\n1.\n2.\n\nCons:\n1.\n2.\n\nWeighted assessment:",
		},
		{
			ID:           "hypothesis_driven",
			Name:         "Hypothesis-Driven",
			Description:  "Forms hypotheses and tests them against evidence",
			Icon:         "🧪",
			Category:     PatternCategoryInvestigation,
			BestFor:      []string{"Scientific questions", "Debugging", "Root cause analysis"},
			Temperature:  0.4,
			PromptPrefix: "Use hypothesis-driven thinking. Form clear hypotheses, identify what evidence would support or refute each, and systematically evaluate them.",
			PromptSuffix: "\n\nHypothesis 1:\n- Evidence for:\n- Evidence against:\n\nHypothesis 2:\n- Evidence for:\n- Evidence against:\n\nMost supported hypothesis:",
		},
		{
			ID:           "premortem",
			Name:         "Pre-mortem Analysis",
			Description:  "Imagines future failure and works backward to prevent it",
			Icon:         "🔮",
			Category:     PatternCategoryRisk,
			BestFor:      []string{"Risk mitigation", "Project planning", "Strategy validation"},
			Temperature:  0.6,
			PromptPrefix: "Conduct a pre-mortem analysis. Imagine this has failed spectacularly in the future. What went wrong? Work backward to identify risks and preventive measures.",
			PromptSuffix: "\n\nImagined failure scenario:\nWhat went wrong:\n1.\n2.\n\nPreventive measures:",
		},
		{
			ID:           "red_team",
			Name:         "Red Team",
			Description:  "Adversarial thinking to find vulnerabilities",
			Icon:         "🔴",
			Category:     PatternCategoryRisk,
			BestFor:      []string{"Security analysis", "Stress testing", "Finding weaknesses"},
			Temperature:  0.7,
			PromptPrefix: "Think like a red team. Your job is to find every possible weakness, vulnerability, and way this could fail or be exploited. Be thorough and adversarial.",
			PromptSuffix: "\n\nVulnerabilities identified:\n1.\n2.\n\nAttack vectors:\nMitigation recommendations:",
		},
		{
			ID:           "steelman",
			Name:         "Steelman",
			Description:  "Presents the strongest possible version of an argument",
			Icon:         "💪",
			Category:     PatternCategoryAnalysis,
			BestFor:      []string{"Fair debate", "Understanding opposing views", "Intellectual honesty"},
			Temperature:  0.5,
			PromptPrefix: "Use steelmanning. Present the strongest possible version of each perspective, even those you might disagree with. Give every viewpoint its best defense.",
			PromptSuffix: "\n\nStrongest case for perspective A:\nStrongest case for perspective B:\nMost defensible position:",
		},
	}

	byID := make(map[string]PatternConfig, len(patterns))
	order := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		byID[pattern.ID] = pattern
		order = append(order, pattern.ID)
	}
	return byID, order
}

func initBuiltinCategories() []CategoryInfo {
	return []CategoryInfo{
		{ID: PatternCategoryBasic, Name: "Basic", Description: "Standard response modes"},
		{ID: PatternCategoryReasoning, Name: "Reasoning", Description: "Structured thinking patterns"},
		{ID: PatternCategoryAnalysis, Name: "Analysis", Description: "Analytical frameworks"},
		{ID: PatternCategoryInvestigation, Name: "Investigation", Description: "Research and discovery modes"},
		{ID: PatternCategoryCreative, Name: "Creative", Description: "Creative and lateral thinking"},
		{ID: PatternCategoryRisk, Name: "Risk", Description: "Risk assessment and adversarial thinking"},
	}
}
