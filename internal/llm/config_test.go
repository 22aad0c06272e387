package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_Tiers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)

	want := map[ModelTier]string{
		TierLite:     "gemini-2.5-flash-lite",
		TierStandard: "gemini-2.5-flash",
		TierAdvanced: "gemini-2.5-pro",
	}
	for tier, model := range want {
		assert.Equal(t, model, cfg.GetModel(tier), "tier %s", tier)
	}
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-6)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.BaseDelay)
}

func TestGetModel_FallbackChain(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"exact tier", map[ModelTier]string{TierAdvanced: "pro"}, TierAdvanced, "pro"},
		{"missing tier uses standard", map[ModelTier]string{TierStandard: "flash", TierLite: "lite"}, TierAdvanced, "flash"},
		{"only lite configured", map[ModelTier]string{TierLite: "lite"}, "scoring", "lite"},
		{"nothing configured", map[ModelTier]string{}, TierStandard, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, cfg.GetModel(tt.tier))
		})
	}
}

func TestWithModel_DoesNotMutateReceiver(t *testing.T) {
	base := DefaultConfig()
	matching := base.WithModel(TierAdvanced, "gemini-exp-matcher")

	assert.Equal(t, "gemini-2.5-pro", base.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-exp-matcher", matching.GetModel(TierAdvanced))
	assert.Equal(t, base.GetModel(TierStandard), matching.GetModel(TierStandard))
	assert.Equal(t, base.MaxRetries, matching.MaxRetries)
}
