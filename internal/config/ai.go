package config

import "slices"

// AI names a draft backend provider.
type AI string

const (
	AIGemini    AI = "gemini"
	AIAnthropic AI = "anthropic"
)

type Model string

const (
	ModelGeminiV25Pro       Model = "gemini-2.5-pro"
	ModelGeminiV25Flash     Model = "gemini-2.5-flash"
	ModelGeminiV25FlashLite Model = "gemini-2.5-flash-lite"

	ModelClaudeSonnet45 Model = "claude-sonnet-4-5"
	ModelClaudeHaiku45  Model = "claude-haiku-4-5"
)

// providerModels lists known models per provider, default first.
var providerModels = map[AI][]Model{
	AIGemini:    {ModelGeminiV25Flash, ModelGeminiV25Pro, ModelGeminiV25FlashLite},
	AIAnthropic: {ModelClaudeSonnet45, ModelClaudeHaiku45},
}

func SupportedAIs() []AI {
	return []AI{AIGemini, AIAnthropic}
}

func ModelsForAI(ai AI) []Model {
	return slices.Clone(providerModels[ai])
}

func DefaultModelForAI(ai AI) Model {
	if models := providerModels[ai]; len(models) > 0 {
		return models[0]
	}
	return ""
}

func IsSupportedAI(ai AI) bool {
	_, ok := providerModels[ai]
	return ok
}

// ResolvedModel is the configured model, or the provider's default when none
// is set. Unknown model names are passed through so newer models work without
// a release.
func (c AIConfig) ResolvedModel() string {
	if c.Model != "" {
		return c.Model
	}
	return string(DefaultModelForAI(c.Provider))
}

// IsKnownModel reports whether the configured model is one listed for its
// provider.
func (c AIConfig) IsKnownModel() bool {
	return slices.Contains(providerModels[c.Provider], Model(c.ResolvedModel()))
}
