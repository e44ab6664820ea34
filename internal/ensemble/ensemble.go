// Package ensemble combines the votes of heterogeneous scoring models into a
// single weighted spam decision.
package ensemble

import (
	"context"

	"github.com/mikey/mailsift/internal/core"
	"go.uber.org/zap"
)

// DefaultWeight applies to models without a configured weight.
const DefaultWeight = 0.3

// Result is the combined ensemble decision before and after the business-rule
// overrides.
type Result struct {
	Category        core.Category
	SpamProbability float64
	Level           core.ConfidenceLevel
	Votes           []core.EnsembleVote
	Reasons         []string
	// ActiveWeights are the renormalized weights of the models that actually
	// voted. They always sum to 1 when any vote exists.
	ActiveWeights map[string]float64
}

// Combiner holds ensemble weights, level boundaries and override policy.
type Combiner struct {
	weights             map[string]float64
	highLevel           float64
	mediumLevel         float64
	marketingCategories map[core.Category]bool
	logger              *zap.Logger
}

// NewCombiner creates a combiner. Weights map model names to vote weights;
// high and medium bound the confidence levels (anything below medium is LOW);
// marketingCategories lists the labels exempt from legitimate-domain
// dampening (legitimate companies still send junk).
func NewCombiner(weights map[string]float64, high, medium float64, marketingCategories []string, logger *zap.Logger) *Combiner {
	marketing := make(map[core.Category]bool, len(marketingCategories))
	for _, name := range marketingCategories {
		if c, ok := core.ParseCategory(name); ok {
			marketing[c] = true
		}
	}
	if len(marketing) == 0 {
		marketing[core.CategoryMarketingSpam] = true
		marketing[core.CategoryPromotional] = true
	}
	return &Combiner{
		weights:             weights,
		highLevel:           high,
		mediumLevel:         medium,
		marketingCategories: marketing,
		logger:              logger,
	}
}

// Collect gathers one vote per available model. A model that errors abstains;
// the ensemble never blocks on a missing model.
func (c *Combiner) Collect(ctx context.Context, sig *core.EmailSignal, models []core.ScoringModel) []core.EnsembleVote {
	votes := make([]core.EnsembleVote, 0, len(models))
	for _, m := range models {
		pred, err := m.Predict(ctx, sig)
		if err != nil {
			c.logger.Warn("Model abstained from ensemble vote",
				zap.String("model", m.Name()),
				zap.Error(err))
			continue
		}
		label := pred.Label
		if label == core.CategoryUnknown {
			if pred.IsSpam {
				label = core.CategoryMarketingSpam
			} else {
				label = core.CategoryNotSpam
			}
		}
		votes = append(votes, core.EnsembleVote{
			Model:       m.Name(),
			Label:       label,
			Probability: pred.SpamProbability,
		})
	}
	return votes
}

func (c *Combiner) weightFor(model string) float64 {
	if w, ok := c.weights[model]; ok && w > 0 {
		return w
	}
	return DefaultWeight
}

// Combine reduces votes to one decision. Weights are renormalized over the
// models that voted; spam probability is the weighted mass of every vote not
// labeled Not Spam; the winning label is the weight-majority category with
// ties broken by first occurrence.
func (c *Combiner) Combine(votes []core.EnsembleVote) Result {
	if len(votes) == 0 {
		return Result{Category: core.CategoryNotSpam, Level: core.ConfidenceLow}
	}

	totalWeight := 0.0
	for _, v := range votes {
		totalWeight += c.weightFor(v.Model)
	}

	active := make(map[string]float64, len(votes))
	labelWeight := make(map[core.Category]float64)
	labelOrder := make([]core.Category, 0, len(votes))
	spamMass := 0.0
	for _, v := range votes {
		w := c.weightFor(v.Model) / totalWeight
		active[v.Model] = w
		if _, seen := labelWeight[v.Label]; !seen {
			labelOrder = append(labelOrder, v.Label)
		}
		labelWeight[v.Label] += w
		if v.Label != core.CategoryNotSpam {
			spamMass += w * v.Probability
		}
	}

	winner := labelOrder[0]
	for _, l := range labelOrder {
		if labelWeight[l] > labelWeight[winner] {
			winner = l
		}
	}

	level := c.level(labelWeight[winner], spamMass)
	return Result{
		Category:        winner,
		SpamProbability: spamMass,
		Level:           level,
		Votes:           votes,
		ActiveWeights:   active,
	}
}

func (c *Combiner) level(winnerShare, spamProbability float64) core.ConfidenceLevel {
	if winnerShare > 0.6 {
		return core.ConfidenceHigh
	}
	switch {
	case spamProbability >= c.highLevel:
		return core.ConfidenceHigh
	case spamProbability >= c.mediumLevel:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// Overrides are the post-combination business rules, applied in fixed order.
type Overrides struct {
	// WhitelistedSender with passed authentication forces WHITELISTED; with
	// failed authentication it forces SPOOFED_WHITELIST. The second arm
	// protects against spoofing a trusted address.
	WhitelistedSender bool
	Authenticated     bool
	// LegitimateDomain halves the spam probability unless the label is a
	// marketing category.
	LegitimateDomain bool
	// RequireHighConfidence forces PRESERVE whenever the confidence level is
	// not HIGH, regardless of category.
	RequireHighConfidence bool
}

// Apply mutates the result per the override rules and returns the action.
func (c *Combiner) Apply(res *Result, o Overrides) core.Action {
	if o.WhitelistedSender {
		if o.Authenticated {
			res.Category = core.CategoryWhitelisted
			res.SpamProbability = 0.1
			res.Level = core.ConfidenceHigh
			res.Reasons = append(res.Reasons, "sender on authenticated whitelist")
		} else {
			res.Category = core.CategorySpoofedWhitelist
			res.SpamProbability = 0.95
			res.Level = core.ConfidenceHigh
			res.Reasons = append(res.Reasons, "whitelisted sender failed authentication")
		}
	}

	if o.LegitimateDomain && !c.marketingCategories[res.Category] {
		res.SpamProbability /= 2
		res.Reasons = append(res.Reasons, "legitimate domain dampened spam probability")
	}

	action := core.ActionFor(res.Category)
	if o.RequireHighConfidence && res.Level != core.ConfidenceHigh {
		action = core.ActionPreserve
		res.Reasons = append(res.Reasons, "confidence below deletion policy, preserving")
	}
	return action
}
