// Package llm wraps the Gemini API used to generate profile improvement suggestions.
package llm

import "os"

// ModelTier selects a model by cost and capability.
type ModelTier string

const (
	// TierLite is for short, single-section tips
	TierLite ModelTier = "lite"
	// TierStandard is for suggestions that need the whole profile in context
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// ModelEnvVar overrides the standard-tier model name.
const ModelEnvVar = "GEMINI_MODEL"

// Config holds the model configuration for suggestion generation
type Config struct {
	Provider        Provider
	Models          map[ModelTier]string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the default Gemini configuration.
// GEMINI_MODEL, when set, replaces the standard-tier model.
func DefaultConfig() *Config {
	cfg := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature:     0.4,
		MaxOutputTokens: 1024,
	}
	if model := os.Getenv(ModelEnvVar); model != "" {
		cfg.Models[TierStandard] = model
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
