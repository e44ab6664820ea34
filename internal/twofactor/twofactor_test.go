package twofactor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/store"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/prefix"
	"github.com/mikey/mailsift/internal/signals"
)

func newTestClassifier() *Classifier {
	logger := zap.NewNop()
	domains := domaincheck.NewOracle(store.NewMemoryDomainStore([]string{
		"kohls.com",
		"amazon.com",
	}), logger)
	return NewClassifier(prefix.NewValidator(nil), domains, logger)
}

func TestEvaluateBothFactorsPass(t *testing.T) {
	c := newTestClassifier()
	sig := signals.Build("offers@kohls.com", "Weekend sale", "Save big this weekend")

	out := c.Evaluate(context.Background(), sig)

	assert.Equal(t, DecisionPromotional, out.Decision)
	assert.Equal(t, core.CategoryPromotional, out.Category)
	assert.InDelta(t, 0.95, out.Confidence, 1e-9)
	assert.Equal(t, "business prefix 'offers' on legitimate domain", out.Reason)
}

func TestEvaluateConfidenceCap(t *testing.T) {
	logger := zap.NewNop()
	domains := domaincheck.NewOracle(store.NewMemoryDomainStore([]string{"acme.com"}), logger)
	c := NewClassifier(prefix.NewValidator(map[string]float64{"vip": 0.99}), domains, logger)

	out := c.Evaluate(context.Background(), signals.Build("vip@acme.com", "", ""))
	assert.Equal(t, DecisionPromotional, out.Decision)
	assert.InDelta(t, 1.0, out.Confidence, 1e-9)
}

func TestEvaluatePrefixSpoofing(t *testing.T) {
	c := newTestClassifier()
	sig := signals.Build("marketing@scam-domain.tk", "Make money fast", "bitcoin trading")

	out := c.Evaluate(context.Background(), sig)

	assert.Equal(t, DecisionRouteContent, out.Decision)
	assert.Equal(t, "prefix spoofing suspected: 'marketing' on unverified domain", out.Reason)
}

func TestEvaluateDomainOnly(t *testing.T) {
	c := newTestClassifier()
	ctx := context.Background()

	// A dotted personal name on a trusted domain is promotional.
	out := c.Evaluate(ctx, signals.Build("jane.doe@kohls.com", "", ""))
	assert.Equal(t, DecisionPromotional, out.Decision)
	assert.InDelta(t, 0.65, out.Confidence, 1e-9)
	assert.Equal(t, "personal or department mailbox on legitimate domain", out.Reason)

	// A short alphabetic handle also passes.
	out = c.Evaluate(ctx, signals.Build("press@kohls.com", "", ""))
	assert.Equal(t, DecisionPromotional, out.Decision)

	// Any mailbox on an exactly-known domain passes.
	out = c.Evaluate(ctx, signals.Build("blastcampaign99x@amazon.com", "", ""))
	assert.Equal(t, DecisionPromotional, out.Decision)
}

func TestEvaluateUnrecognizedMailboxOnSubdomain(t *testing.T) {
	c := newTestClassifier()

	// Legitimate via subdomain walk-up but not exactly known, and the local
	// part is neither dotted nor short: route to content.
	out := c.Evaluate(context.Background(), signals.Build("blastcampaign99x@mail.kohls.com", "", ""))
	assert.Equal(t, DecisionRouteContent, out.Decision)
	assert.Equal(t, "unrecognized mailbox name on legitimate domain", out.Reason)
}

func TestEvaluateBothFactorsFail(t *testing.T) {
	c := newTestClassifier()

	out := c.Evaluate(context.Background(), signals.Build("randomword@nowhere.net", "", ""))
	assert.Equal(t, DecisionRouteContent, out.Decision)
	assert.Equal(t, "both factors failed", out.Reason)
}

func TestEvaluateGibberishShortCircuits(t *testing.T) {
	c := newTestClassifier()

	// Gibberish local parts skip the truth table even on trusted domains.
	out := c.Evaluate(context.Background(), signals.Build("x9382736453829105@kohls.com", "", ""))
	assert.Equal(t, DecisionRouteContent, out.Decision)
	assert.Equal(t, "gibberish sender local part", out.Reason)
}
