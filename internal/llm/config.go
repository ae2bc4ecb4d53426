// Package llm is the client for the generative model: model tiers, sampling
// parameters, structured-output schemas and typed upstream errors.
package llm

// ModelTier selects a model by the latency/quality trade-off a flow needs
type ModelTier string

const (
	// TierLite serves interactive lookups: autocomplete suggestions, exam info
	TierLite ModelTier = "lite"
	// TierStandard serves the primary flows: assessment and pathway generation
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider, the only one supported
const ProviderGemini Provider = "gemini"

// Config maps tiers to model names for one provider
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
	}
}

// GetModel returns the model name for a given tier, falling back to the standard tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	return c.Models[TierStandard]
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

// Pinned returns a new Config that uses model for every tier.
// An empty model returns c unchanged.
func (c *Config) Pinned(model string) *Config {
	if model == "" {
		return c
	}
	pinned := c
	for _, tier := range []ModelTier{TierLite, TierStandard} {
		pinned = pinned.WithModel(tier, model)
	}
	return pinned
}
