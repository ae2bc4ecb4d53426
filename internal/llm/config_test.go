package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
}

func TestGetModel_FallsBackToStandard(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierStandard: "standard-model", TierLite: ""},
	}

	assert.Equal(t, "standard-model", config.GetModel(TierLite))
	assert.Equal(t, "standard-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierLite))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierLite, "custom-model")

	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", newConfig.GetModel(TierStandard))
}

func TestPinned(t *testing.T) {
	config := DefaultConfig()

	pinned := config.Pinned("gemini-2.5-flash-preview-09-2025")
	assert.Equal(t, "gemini-2.5-flash-preview-09-2025", pinned.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash-preview-09-2025", pinned.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))

	assert.Same(t, config, config.Pinned(""))
}
