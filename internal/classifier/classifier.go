// Package classifier runs the full classification cascade over one email. The
// cascade is strictly ordered and short-circuits on the first terminal step;
// every optional enrichment degrades to "no signal" on failure so that a
// broken collaborator never aborts a classification.
package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/brand"
	"github.com/mikey/mailsift/internal/content"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/ensemble"
	"github.com/mikey/mailsift/internal/signals"
	"github.com/mikey/mailsift/internal/twofactor"
)

// Capabilities are the optional cascade components, resolved once at
// construction time instead of probed during steady-state operation.
type Capabilities struct {
	TwoFactor         bool
	SubdomainDetector bool
	LogicalClassifier bool
	Ensemble          bool
}

// privilegedCategories are terminal straight off the content route without
// running the legacy cascade.
var privilegedCategories = map[core.Category]bool{
	core.CategoryPromotional:         true,
	core.CategoryPhishing:            true,
	core.CategoryFinancialInvestment: true,
	core.CategoryHealthMedical:       true,
}

// Classifier is the top-level orchestrator.
type Classifier struct {
	matcher   *content.Matcher
	oracle    *domaincheck.Oracle
	twoFactor *twofactor.Classifier
	brands    *brand.Detector
	combiner  *ensemble.Combiner

	protected core.ProtectedStore
	models    []core.ScoringModel
	fastPath  core.ScoringModel
	auth      core.AuthVerifier
	results   core.ResultSink

	caps             Capabilities
	threshold        float64
	relaxedThreshold float64
	requireHigh      bool
	logger           *zap.Logger
}

// Params collects the orchestrator's collaborators. Protected, FastPath, Auth
// and Results may be nil; Models may be empty (the cascade then degrades to
// keyword-only classification).
type Params struct {
	Matcher   *content.Matcher
	Oracle    *domaincheck.Oracle
	TwoFactor *twofactor.Classifier
	Brands    *brand.Detector
	Combiner  *ensemble.Combiner

	Protected core.ProtectedStore
	Models    []core.ScoringModel
	FastPath  core.ScoringModel
	Auth      core.AuthVerifier
	Results   core.ResultSink

	Capabilities     Capabilities
	Threshold        float64
	RelaxedThreshold float64
	RequireHigh      bool
	Logger           *zap.Logger
}

// New creates the orchestrator.
func New(p Params) *Classifier {
	return &Classifier{
		matcher:          p.Matcher,
		oracle:           p.Oracle,
		twoFactor:        p.TwoFactor,
		brands:           p.Brands,
		combiner:         p.Combiner,
		protected:        p.Protected,
		models:           p.Models,
		fastPath:         p.FastPath,
		auth:             p.Auth,
		results:          p.Results,
		caps:             p.Capabilities,
		threshold:        p.Threshold,
		relaxedThreshold: p.RelaxedThreshold,
		requireHigh:      p.RequireHigh,
		logger:           p.Logger,
	}
}

// Classify runs the cascade over one email and always returns a verdict. The
// only hard failure is a malformed sender address.
func (c *Classifier) Classify(ctx context.Context, sender, subject, body string) *core.Verdict {
	v := &core.Verdict{
		AnalyzedAt:   time.Now(),
		ProcessingID: uuid.NewString(),
	}

	sig := signals.Build(sender, subject, body)
	if sig.Domain == "" || sig.LocalPart == "" {
		v.Category = core.CategoryInvalidEmail
		v.Confidence = 0.0
		v.Action = core.ActionDelete
		v.Level = core.ConfidenceLow
		v.AddReason("sender address is missing or malformed")
		c.record(ctx, sender, subject, v)
		return v
	}

	verdict := c.classifySignal(ctx, sig, v)
	c.record(ctx, sender, subject, verdict)
	return verdict
}

func (c *Classifier) classifySignal(ctx context.Context, sig *core.EmailSignal, v *core.Verdict) *core.Verdict {
	text := sig.Text()

	// Protected patterns win over everything else, including whitelist spoof
	// detection further down.
	if c.protected != nil {
		matched, pattern, err := c.protected.Match(ctx, sig.Sender, sig.Domain, sig.Subject)
		if err != nil {
			c.logger.Warn("Protected-pattern lookup failed",
				zap.Error(err), zap.String("sender", sig.Sender))
		} else if matched {
			v.AddReason("matched protected pattern: " + pattern)
			return c.finish(v, core.CategoryNotSpam, 1.0)
		}
	}

	if ok, kw := content.IsCommunity(sig.Subject, sig.Body); ok {
		v.AddReason("community email keyword: " + kw)
		return c.finish(v, core.CategoryCommunity, 0.95)
	}
	if ok, kw := content.IsTransactional(sig.Subject, sig.Body); ok {
		v.AddReason("transactional keyword: " + kw)
		return c.finish(v, core.CategoryTransactional, 0.95)
	}
	if ok, kw := content.IsAccountNotification(sig.Subject, sig.Body); ok {
		v.AddReason("account notification keyword: " + kw)
		return c.finish(v, core.CategoryAccountNotification, 0.95)
	}
	if ok, kw := content.IsSubscriptionManagement(sig.Subject, sig.Body); ok {
		v.AddReason("subscription management keyword: " + kw)
		return c.finish(v, core.CategorySubscriptionManagement, 0.95)
	}

	if c.caps.LogicalClassifier && c.fastPath != nil {
		if cat, conf, ok := c.tryFastPath(ctx, sig); ok {
			if conf >= 0.7 {
				v.AddReason("fast-path model decision: " + cat.String())
				return c.finish(v, cat, conf)
			}
			c.logger.Debug("Fast-path model below confidence floor, continuing",
				zap.String("category", cat.String()),
				zap.Float64("confidence", conf))
		}
	}

	if c.caps.TwoFactor {
		outcome, ok := c.tryTwoFactor(ctx, sig)
		if ok {
			v.AddReason(outcome.Reason)
			if outcome.Decision == twofactor.DecisionPromotional {
				return c.finish(v, core.CategoryPromotional, outcome.Confidence)
			}
		}
	}

	// Content route. A confident match in a privileged category is terminal
	// without the legacy cascade.
	boost := c.matcher.DisplayBoost(sig.DisplayName)
	if best, ok := c.matcher.FindBestCategory(text, c.threshold, boost); ok {
		if best.Confidence >= 0.8 || privilegedCategories[best.Category] {
			v.AddReason("content match: " + strings.Join(best.MatchedTerms, ", "))
			return c.finish(v, c.escalate(best.Category, text, v), best.Confidence)
		}
	}

	return c.legacyCascade(ctx, sig, text, v)
}

// legacyCascade is the ordered fallback chain of raw keyword, domain, brand
// and emoji checks. Each step is terminal on its first match.
func (c *Classifier) legacyCascade(ctx context.Context, sig *core.EmailSignal, text string, v *core.Verdict) *core.Verdict {
	if signals.LooksEncoded(sig.Subject) {
		v.AddReason("subject carries encoded or mojibake payload")
		return c.finish(v, core.CategoryMarketingSpam, 0.8)
	}

	suspicious := c.oracle.IsSuspicious(sig.Domain, sig.Provider)
	complexSub, subReason := c.trySubdomainComplexity(ctx, sig)
	complexName, nameReason := signals.DisplayNameComplexity(sig.DisplayName)

	threshold := c.threshold
	if suspicious || complexSub || complexName {
		threshold = c.relaxedThreshold
		switch {
		case suspicious:
			v.AddReason("suspicious domain relaxed the match threshold")
		case complexSub:
			v.AddReason("subdomain complexity relaxed the match threshold: " + subReason)
		default:
			v.AddReason("display-name complexity relaxed the match threshold: " + nameReason)
		}
	}

	legit := c.oracle.IsLegitimate(ctx, sig.Domain)

	boost := c.matcher.DisplayBoost(sig.DisplayName)
	if best, ok := c.matcher.FindBestCategory(text, threshold, boost); ok {
		conf := best.Confidence
		highPriority := best.Category.Priority() >= 0 &&
			best.Category.Priority() <= core.CategoryFinancialInvestment.Priority()
		if legit && !(highPriority && conf >= 0.6) {
			conf /= 2
			v.AddReason("legitimate domain dampened content confidence")
		}
		if conf >= threshold {
			v.AddReason("content match: " + strings.Join(best.MatchedTerms, ", "))
			return c.finish(v, c.escalate(best.Category, text, v), conf)
		}
	}

	if cat, hit, evidence := c.brands.Detect(ctx, sig.Sender, sig.Domain, sig.Provider, suspicious); hit {
		v.AddReason(evidence)
		if escalated := c.escalate(cat, text, v); escalated == core.CategoryPhishing {
			return c.finish(v, escalated, 0.9)
		}
		return c.finish(v, cat, 0.8)
	}

	if legit {
		v.AddReason("legitimate domain with no spam signal")
		return c.finish(v, core.CategoryPromotional, 0.6)
	}

	for _, cat := range []core.Category{
		core.CategoryFinancialInvestment,
		core.CategoryGambling,
		core.CategoryLegalCompensation,
	} {
		if conf, terms := c.matcher.MatchCategory(text, cat); conf >= c.relaxedThreshold {
			v.AddReason("category keyword match: " + strings.Join(terms, ", "))
			return c.finish(v, cat, conf)
		}
	}

	if suspicious || domaincheck.HasSuspiciousTLD(sig.Domain) {
		v.AddReason("suspicious domain pattern")
		return c.finish(v, core.CategoryMarketingSpam, 0.6)
	}

	if signals.CountEmojis(sig.Subject)+signals.CountEmojis(sig.DisplayName) >= 3 {
		v.AddReason("emoji-heavy subject or display name")
		return c.finish(v, core.CategoryMarketingSpam, 0.65)
	}

	if conf, terms := c.matcher.MatchUniversal(text); conf >= content.UniversalFallbackThreshold {
		v.AddReason("universal spam indicators: " + strings.Join(terms, ", "))
		return c.finish(v, core.CategoryMarketingSpam, conf)
	}

	if c.caps.Ensemble && len(c.models) > 0 {
		return c.ensembleVerdict(ctx, sig, legit, v)
	}

	if legit {
		v.AddReason("no spam signal, legitimate domain")
		return c.finish(v, core.CategoryPromotional, 0.4)
	}
	v.AddReason("no spam signal, unknown domain")
	return c.finish(v, core.CategoryMarketingSpam, 0.3)
}

// ensembleVerdict lets the statistical models decide when every heuristic came
// up empty, then applies the business-rule overrides.
func (c *Classifier) ensembleVerdict(ctx context.Context, sig *core.EmailSignal, legit bool, v *core.Verdict) *core.Verdict {
	votes := c.combiner.Collect(ctx, sig, c.models)
	res := c.combiner.Combine(votes)

	o := ensemble.Overrides{
		LegitimateDomain:      legit,
		RequireHighConfidence: c.requireHigh,
	}
	if c.auth != nil && c.auth.IsWhitelistedSender(sig.Sender) {
		o.WhitelistedSender = true
		o.Authenticated = c.auth.Authenticated(sig)
	}
	action := c.combiner.Apply(&res, o)

	v.Category = res.Category
	v.Confidence = res.SpamProbability
	v.Level = res.Level
	v.Action = action
	for _, r := range res.Reasons {
		v.AddReason(r)
	}
	return v
}

// escalate upgrades Brand Impersonation to Phishing when the text also
// solicits credentials or urgent action. Impersonation alone is a necessary
// but not sufficient phishing signal.
func (c *Classifier) escalate(cat core.Category, text string, v *core.Verdict) core.Category {
	if cat == core.CategoryBrandImpersonation && brand.HasCredentialBait(text) {
		v.AddReason("credential-harvesting wording escalated impersonation to phishing")
		return core.CategoryPhishing
	}
	return cat
}

// finish stamps category, confidence, level and action on the verdict. The
// deletion policy override applies here for heuristic verdicts; ensemble
// verdicts run it inside the override chain instead.
func (c *Classifier) finish(v *core.Verdict, cat core.Category, conf float64) *core.Verdict {
	v.Category = cat
	v.Confidence = conf
	v.Level = levelFor(conf)
	v.Action = core.ActionFor(cat)
	if c.requireHigh && v.Action == core.ActionDelete && v.Level != core.ConfidenceHigh {
		v.Action = core.ActionPreserve
		v.AddReason("confidence below deletion policy, preserving")
	}
	return v
}

func levelFor(conf float64) core.ConfidenceLevel {
	switch {
	case conf >= 0.8:
		return core.ConfidenceHigh
	case conf >= 0.5:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// Alternatives ranks the runner-up classifications for the feedback flow.
func (c *Classifier) Alternatives(ctx context.Context, sender, subject, body string, limit int, exclude []core.Category) []core.CategoryMatch {
	sig := signals.Build(sender, subject, body)
	return c.matcher.RankAlternatives(ctx, sig, c.threshold, limit, exclude)
}

func (c *Classifier) tryFastPath(ctx context.Context, sig *core.EmailSignal) (cat core.Category, conf float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Fast-path model panicked, treating as no signal",
				zap.Any("panic", r))
			ok = false
		}
	}()

	pred, err := c.fastPath.Predict(ctx, sig)
	if err != nil {
		c.logger.Warn("Fast-path model failed, treating as no signal", zap.Error(err))
		return core.CategoryUnknown, 0, false
	}
	parsed := pred.Label
	if parsed == core.CategoryUnknown {
		if pred.IsSpam {
			parsed = core.CategoryMarketingSpam
		} else {
			parsed = core.CategoryNotSpam
		}
	}
	conf = pred.SpamProbability
	if !pred.IsSpam {
		conf = 1 - pred.SpamProbability
	}
	return parsed, conf, true
}

func (c *Classifier) tryTwoFactor(ctx context.Context, sig *core.EmailSignal) (out twofactor.Outcome, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Two-factor evaluation panicked, treating as no signal",
				zap.Any("panic", r))
			ok = false
		}
	}()
	return c.twoFactor.Evaluate(ctx, sig), true
}

func (c *Classifier) trySubdomainComplexity(ctx context.Context, sig *core.EmailSignal) (flagged bool, reason string) {
	if !c.caps.SubdomainDetector {
		return false, ""
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("Subdomain complexity check panicked, treating as no signal",
				zap.Any("panic", r))
			flagged = false
		}
	}()
	return c.oracle.SubdomainComplexity(ctx, sig.Domain, sig.Provider)
}

func (c *Classifier) record(ctx context.Context, sender, subject string, v *core.Verdict) {
	if c.results == nil {
		return
	}
	rec := &core.VerdictRecord{
		Timestamp:    v.AnalyzedAt,
		Sender:       sender,
		Subject:      subject,
		Category:     v.Category.String(),
		Action:       v.Action.String(),
		Confidence:   v.Confidence,
		Reasoning:    v.Reason(),
		ProcessingID: v.ProcessingID,
	}
	if err := c.results.Record(ctx, rec); err != nil {
		c.logger.Warn("Failed to record verdict", zap.Error(err),
			zap.String("processing_id", v.ProcessingID))
	}
}
