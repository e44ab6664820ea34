package classifier

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/adapters/models"
	"github.com/mikey/mailsift/internal/adapters/store"
	"github.com/mikey/mailsift/internal/brand"
	"github.com/mikey/mailsift/internal/content"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/ensemble"
	"github.com/mikey/mailsift/internal/prefix"
	"github.com/mikey/mailsift/internal/registry"
	"github.com/mikey/mailsift/internal/twofactor"
)

type recordingSink struct {
	mu      sync.Mutex
	records []*core.VerdictRecord
}

func (s *recordingSink) Record(_ context.Context, rec *core.VerdictRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

type stubAuth struct {
	whitelisted   bool
	authenticated bool
}

func (a stubAuth) IsWhitelistedSender(string) bool       { return a.whitelisted }
func (a stubAuth) Authenticated(*core.EmailSignal) bool  { return a.authenticated }

func newTestClassifier(t *testing.T, mutate func(*Params)) *Classifier {
	t.Helper()
	logger := zap.NewNop()

	reg, err := registry.Build(context.Background(), store.NewDefaultTermStore(), nil, logger)
	require.NoError(t, err)
	handle := registry.NewHandle(reg)

	oracle := domaincheck.NewOracle(store.NewDefaultDomainStore(), logger)
	brands := brand.NewDetector(oracle, logger)
	matcher := content.NewMatcher(handle, oracle, brands, logger)
	twoFactor := twofactor.NewClassifier(prefix.NewValidator(nil), oracle, logger)
	combiner := ensemble.NewCombiner(map[string]float64{"keyword": 0.3}, 0.85, 0.65, nil, logger)

	p := Params{
		Matcher:   matcher,
		Oracle:    oracle,
		TwoFactor: twoFactor,
		Brands:    brands,
		Combiner:  combiner,
		Protected: store.NewMemoryProtectedStore(nil, nil, nil),
		Models:    []core.ScoringModel{models.NewKeywordModel(matcher, 0.7)},
		Capabilities: Capabilities{
			TwoFactor:         true,
			SubdomainDetector: true,
			Ensemble:          true,
		},
		Threshold:        0.7,
		RelaxedThreshold: 0.5,
		Logger:           logger,
	}
	if mutate != nil {
		mutate(&p)
	}
	return New(p)
}

func TestClassifyInvalidSender(t *testing.T) {
	c := newTestClassifier(t, nil)

	v := c.Classify(context.Background(), "not-an-email", "Hello", "World")
	assert.Equal(t, core.CategoryInvalidEmail, v.Category)
	assert.Zero(t, v.Confidence)
	assert.Equal(t, core.ActionDelete, v.Action)
	assert.Equal(t, core.ConfidenceLow, v.Level)
	assert.NotEmpty(t, v.ProcessingID)
}

func TestClassifyDeterministic(t *testing.T) {
	c := newTestClassifier(t, nil)
	ctx := context.Background()

	emails := []struct{ sender, subject, body string }{
		{"offers@kohls.com", "Weekend savings", "Save 30% this weekend in store"},
		{"marketing@scam-domain.tk", "Make money fast", "bitcoin trading with guaranteed returns"},
		{"amazon-deals@fake-amazon.tk", "Your Amazon order", "verify your amazon order immediately"},
		{"jane@localclub.net", "Practice", "see you at practice tomorrow"},
	}
	for _, e := range emails {
		first := c.Classify(ctx, e.sender, e.subject, e.body)
		second := c.Classify(ctx, e.sender, e.subject, e.body)
		assert.Equal(t, first.Category, second.Category, e.sender)
		assert.Equal(t, first.Confidence, second.Confidence, e.sender)
		assert.Equal(t, first.Action, second.Action, e.sender)
		assert.Equal(t, first.Reasoning, second.Reasoning, e.sender)
	}
}

func TestClassifyProtectedPatternWins(t *testing.T) {
	c := newTestClassifier(t, func(p *Params) {
		p.Protected = store.NewMemoryProtectedStore(
			[]string{"offers@sketchy-casino.tk"}, nil, nil)
	})

	// Even blatant spam content loses to a protected sender.
	v := c.Classify(context.Background(),
		"offers@sketchy-casino.tk", "Casino jackpot", "casino jackpot winner, act now")
	assert.Equal(t, core.CategoryNotSpam, v.Category)
	assert.InDelta(t, 1.0, v.Confidence, 1e-9)
	assert.Equal(t, core.ActionPreserve, v.Action)
	assert.Contains(t, v.Reason(), "protected pattern")
}

func TestClassifyCarveOuts(t *testing.T) {
	c := newTestClassifier(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		sender  string
		subject string
		body    string
		want    core.Category
	}{
		{
			name:    "transactional",
			sender:  "orders@shop.example.net",
			subject: "Your order has shipped",
			body:    "tracking number enclosed",
			want:    core.CategoryTransactional,
		},
		{
			name:    "account notification",
			sender:  "security@webapp.example.net",
			subject: "Password reset requested",
			body:    "use this verification code within 10 minutes",
			want:    core.CategoryAccountNotification,
		},
		{
			name:    "community",
			sender:  "updates@forum.example.net",
			subject: "Someone mentioned you",
			body:    "you have a new follower",
			want:    core.CategoryCommunity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := c.Classify(ctx, tt.sender, tt.subject, tt.body)
			assert.Equal(t, tt.want, v.Category)
			assert.InDelta(t, 0.95, v.Confidence, 1e-9)
			assert.Equal(t, core.ActionPreserve, v.Action)
		})
	}
}

func TestClassifyTwoFactorPromotional(t *testing.T) {
	c := newTestClassifier(t, nil)

	v := c.Classify(context.Background(),
		"offers@kohls.com", "Weekend savings", "Save 30% this weekend in store")
	assert.Equal(t, core.CategoryPromotional, v.Category)
	assert.InDelta(t, 0.95, v.Confidence, 1e-9)
	assert.Equal(t, core.ActionPreserve, v.Action)
	assert.Equal(t, core.ConfidenceHigh, v.Level)
	assert.Contains(t, v.Reason(), "business prefix 'offers' on legitimate domain")
}

func TestClassifyPrefixSpoofRoutesToContent(t *testing.T) {
	c := newTestClassifier(t, nil)

	// Recognized prefix on an unverified throwaway domain: the promotional
	// shortcut is denied and the content route convicts it.
	v := c.Classify(context.Background(),
		"marketing@scam-domain.tk", "Make money fast", "bitcoin trading with guaranteed returns")
	assert.Equal(t, core.CategoryFinancialInvestment, v.Category)
	assert.Equal(t, core.ActionDelete, v.Action)
	assert.Contains(t, v.Reason(), "prefix spoofing suspected")
	assert.Contains(t, v.Reason(), "content match")
}

func TestClassifyBrandImpersonationEscalatesToPhishing(t *testing.T) {
	c := newTestClassifier(t, nil)

	v := c.Classify(context.Background(),
		"amazon-deals@fake-amazon.tk", "Your Amazon order", "verify your amazon order immediately")
	assert.Equal(t, core.CategoryPhishing, v.Category)
	assert.Equal(t, core.ActionDelete, v.Action)
	assert.Contains(t, v.Reason(), "credential-harvesting wording escalated impersonation to phishing")
}

func TestClassifyEncodedSubject(t *testing.T) {
	c := newTestClassifier(t, nil)

	v := c.Classify(context.Background(),
		"info@randomsender.net", "=?utf-8?B?ZnJlZSBtb25leQ==?=", "")
	assert.Equal(t, core.CategoryMarketingSpam, v.Category)
	assert.InDelta(t, 0.8, v.Confidence, 1e-9)
	assert.Equal(t, core.ActionDelete, v.Action)
}

func TestClassifyEnsembleFallback(t *testing.T) {
	c := newTestClassifier(t, nil)

	// Neutral text on an unknown domain reaches the statistical ensemble,
	// which clears it.
	v := c.Classify(context.Background(),
		"jane@localclub.net", "Practice", "see you at practice tomorrow")
	assert.Equal(t, core.CategoryNotSpam, v.Category)
	assert.Equal(t, core.ActionPreserve, v.Action)
}

func TestClassifySpoofedWhitelist(t *testing.T) {
	c := newTestClassifier(t, func(p *Params) {
		p.Auth = stubAuth{whitelisted: true, authenticated: false}
	})

	v := c.Classify(context.Background(),
		"jane@localclub.net", "Practice", "see you at practice tomorrow")
	assert.Equal(t, core.CategorySpoofedWhitelist, v.Category)
	assert.InDelta(t, 0.95, v.Confidence, 1e-9)
	assert.Equal(t, core.ActionDelete, v.Action)
}

func TestClassifyRequireHighConfidence(t *testing.T) {
	c := newTestClassifier(t, func(p *Params) {
		p.RequireHigh = true
	})

	// A medium-confidence spam verdict is downgraded to preserve.
	v := c.Classify(context.Background(),
		"amazon-deals@fake-amazon.tk", "Your Amazon order", "verify your amazon order immediately")
	assert.True(t, v.Category.IsSpam())
	assert.NotEqual(t, core.ConfidenceHigh, v.Level)
	assert.Equal(t, core.ActionPreserve, v.Action)
	assert.Contains(t, v.Reason(), "confidence below deletion policy, preserving")
}

func TestClassifyRecordsVerdicts(t *testing.T) {
	sink := &recordingSink{}
	c := newTestClassifier(t, func(p *Params) {
		p.Results = sink
	})

	v := c.Classify(context.Background(),
		"offers@kohls.com", "Weekend savings", "Save 30% this weekend in store")

	require.Len(t, sink.records, 1)
	rec := sink.records[0]
	assert.Equal(t, "offers@kohls.com", rec.Sender)
	assert.Equal(t, v.Category.String(), rec.Category)
	assert.Equal(t, v.Action.String(), rec.Action)
	assert.Equal(t, v.ProcessingID, rec.ProcessingID)
}

func TestAlternativesExcludePrimary(t *testing.T) {
	c := newTestClassifier(t, nil)

	alts := c.Alternatives(context.Background(),
		"marketing@scam-domain.tk", "Make money fast", "bitcoin trading with guaranteed returns",
		3, []core.Category{core.CategoryFinancialInvestment})
	require.Len(t, alts, 3)
	for _, alt := range alts {
		assert.NotEqual(t, core.CategoryFinancialInvestment, alt.Category)
	}
}

func TestClassifyAllPreservesOrder(t *testing.T) {
	c := newTestClassifier(t, nil)

	emails := []Email{
		{Sender: "offers@kohls.com", Subject: "Weekend savings", Body: "Save 30% this weekend"},
		{Sender: "not-an-email", Subject: "x", Body: "y"},
		{Sender: "marketing@scam-domain.tk", Subject: "Make money fast", Body: "bitcoin trading with guaranteed returns"},
	}

	verdicts := c.ClassifyAll(context.Background(), emails, 2)
	require.Len(t, verdicts, 3)
	assert.Equal(t, core.CategoryPromotional, verdicts[0].Category)
	assert.Equal(t, core.CategoryInvalidEmail, verdicts[1].Category)
	assert.Equal(t, core.CategoryFinancialInvestment, verdicts[2].Category)
}
