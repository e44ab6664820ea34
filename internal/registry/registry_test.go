package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/store"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/registry"
)

func TestBuildOrdersByPriority(t *testing.T) {
	// Seed categories out of priority order; the snapshot must reorder them.
	ts := store.NewMemoryTermStore(map[string][]core.Term{
		"Marketing Spam": {{Text: "act now", Confidence: 0.7}},
		"Phishing":       {{Text: "verify your account", Confidence: 0.95}},
		"Gambling Spam":  {{Text: "casino", Confidence: 0.8}},
	}, []string{"Marketing Spam", "Phishing", "Gambling Spam"})

	reg, err := registry.Build(context.Background(), ts, nil, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, reg.Len())

	specs := reg.Specs()
	assert.Equal(t, core.CategoryPhishing, specs[0].Category)
	assert.Equal(t, core.CategoryGambling, specs[1].Category)
	assert.Equal(t, core.CategoryMarketingSpam, specs[2].Category)
}

func TestBuildSkipsUnknownAndFailingCategories(t *testing.T) {
	ts := store.NewMemoryTermStore(map[string][]core.Term{
		"Phishing":                 {{Text: "verify your account", Confidence: 0.95}},
		"Not A Category":           {{Text: "whatever", Confidence: 0.5}},
		registry.UniversalCategory: {{Text: "winner", Confidence: 0.5}},
	}, []string{"Phishing", "Not A Category", registry.UniversalCategory})

	reg, err := registry.Build(context.Background(), ts, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, core.CategoryPhishing, reg.Specs()[0].Category)
	require.Len(t, reg.Universal(), 1)
	assert.Equal(t, "winner", reg.Universal()[0].Text)
}

func TestBuildDefaultStore(t *testing.T) {
	reg, err := registry.Build(context.Background(), store.NewDefaultTermStore(), nil, zap.NewNop())
	require.NoError(t, err)
	assert.Greater(t, reg.Len(), 5)
	assert.NotEmpty(t, reg.Universal())
}

func TestNormalizeThreshold(t *testing.T) {
	assert.InDelta(t, 0.7, registry.NormalizeThreshold(0.7), 1e-9)
	assert.InDelta(t, 0.7, registry.NormalizeThreshold(70), 1e-9)
	assert.InDelta(t, 0.85, registry.NormalizeThreshold(85), 1e-9)
	assert.Zero(t, registry.NormalizeThreshold(-0.3))
	assert.Zero(t, registry.NormalizeThreshold(0))
}

func TestThresholdFallbackChain(t *testing.T) {
	ts := store.NewMemoryTermStore(map[string][]core.Term{
		"Phishing":      {{Text: "verify your account", Confidence: 0.95}},
		"Gambling Spam": {{Text: "casino", Confidence: 0.8}},
	}, []string{"Phishing", "Gambling Spam"})

	reg, err := registry.Build(context.Background(), ts, map[string]float64{
		"Phishing": 90, // percentage form
	}, zap.NewNop())
	require.NoError(t, err)

	assert.InDelta(t, 0.9, reg.Threshold(core.CategoryPhishing, 0.6), 1e-9)
	assert.InDelta(t, 0.6, reg.Threshold(core.CategoryGambling, 0.6), 1e-9)
	assert.InDelta(t, registry.DefaultThreshold, reg.Threshold(core.CategoryGambling, 0), 1e-9)
}

func TestHandleSwap(t *testing.T) {
	ts := store.NewMemoryTermStore(map[string][]core.Term{
		"Phishing": {{Text: "verify your account", Confidence: 0.95}},
	}, []string{"Phishing"})
	first, err := registry.Build(context.Background(), ts, nil, zap.NewNop())
	require.NoError(t, err)

	h := registry.NewHandle(first)
	assert.Same(t, first, h.Current())

	ts.SetTerms("Gambling Spam", []core.Term{{Text: "casino", Confidence: 0.8}})
	second, err := registry.Build(context.Background(), ts, nil, zap.NewNop())
	require.NoError(t, err)

	h.Swap(second)
	assert.Same(t, second, h.Current())
	assert.Equal(t, 2, h.Current().Len())
}
