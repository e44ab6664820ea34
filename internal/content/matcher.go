// Package content scores free text against the spam category registry using
// weighted keyword matching, and ranks alternative classifications for the
// feedback-correction flow.
package content

import (
	"context"
	"sort"
	"strings"

	"github.com/mikey/mailsift/internal/brand"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/registry"
	"go.uber.org/zap"
)

// UniversalFallbackThreshold is the minimum generic-indicator confidence that
// turns an otherwise unmatched text into Marketing Spam.
const UniversalFallbackThreshold = 0.3

// Matcher scans text against the current category registry snapshot.
type Matcher struct {
	handle *registry.Handle
	oracle *domaincheck.Oracle
	brands *brand.Detector
	logger *zap.Logger
}

// NewMatcher creates a content matcher. The oracle and brand detector feed
// the pseudo-categories of the alternatives ranking; both may be nil for a
// pure keyword matcher.
func NewMatcher(handle *registry.Handle, oracle *domaincheck.Oracle, brands *brand.Detector, logger *zap.Logger) *Matcher {
	return &Matcher{handle: handle, oracle: oracle, brands: brands, logger: logger}
}

// scanTerms runs one category's term list over lowercased text. Confidence is
// the strongest matched term's confidence plus a small bonus per extra match,
// capped at 1.0. Matched terms keep scan order.
func scanTerms(lower string, terms []core.Term) (float64, []string) {
	var matched []string
	best := 0.0
	for _, t := range terms {
		if t.Text == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(t.Text)) {
			matched = append(matched, t.Text)
			if t.Confidence > best {
				best = t.Confidence
			}
		}
	}
	if len(matched) == 0 {
		return 0, nil
	}
	conf := best + 0.05*float64(len(matched)-1)
	if conf > 1.0 {
		conf = 1.0
	}
	return conf, matched
}

// MatchCategory scores a single category against text.
func (m *Matcher) MatchCategory(text string, cat core.Category) (float64, []string) {
	lower := strings.ToLower(text)
	for _, spec := range m.handle.Current().Specs() {
		if spec.Category == cat {
			return scanTerms(lower, spec.Terms)
		}
	}
	return 0, nil
}

// MatchUniversal scores the generic spam indicator list against text.
func (m *Matcher) MatchUniversal(text string) (float64, []string) {
	return scanTerms(strings.ToLower(text), m.handle.Current().Universal())
}

// DisplayBoost scans a display name against every category and returns the
// per-category confidences. FindBestCategory blends these into the content
// confidence.
func (m *Matcher) DisplayBoost(displayName string) map[core.Category]float64 {
	if strings.TrimSpace(displayName) == "" {
		return nil
	}
	lower := strings.ToLower(displayName)
	boost := make(map[core.Category]float64)
	for _, spec := range m.handle.Current().Specs() {
		if conf, _ := scanTerms(lower, spec.Terms); conf > 0 {
			boost[spec.Category] = conf
		}
	}
	return boost
}

// FindBestCategory returns the first category, in fixed priority order, whose
// blended confidence clears its threshold. Specificity is computed for the
// returned match but plays no part in the selection; priority order alone
// decides between overlapping categories. When nothing clears a threshold but
// the universal indicators fire at 0.3 or above, Marketing Spam is returned
// as the generic fallback.
func (m *Matcher) FindBestCategory(text string, threshold float64, displayBoost map[core.Category]float64) (core.CategoryMatch, bool) {
	reg := m.handle.Current()
	lower := strings.ToLower(text)
	total := reg.Len()

	for i, spec := range reg.Specs() {
		conf, matched := scanTerms(lower, spec.Terms)
		if boost, ok := displayBoost[spec.Category]; ok {
			conf = 0.7*conf + 0.3*boost
		}
		if conf <= 0 {
			continue
		}
		if conf < reg.Threshold(spec.Category, threshold) {
			continue
		}
		return core.CategoryMatch{
			Category:     spec.Category,
			Confidence:   conf,
			Specificity:  specificity(conf, matched, i, total),
			MatchedTerms: matched,
		}, true
	}

	if uconf, matched := scanTerms(lower, reg.Universal()); uconf >= UniversalFallbackThreshold {
		return core.CategoryMatch{
			Category:     core.CategoryMarketingSpam,
			Confidence:   uconf,
			Specificity:  specificity(uconf, matched, total-1, total),
			MatchedTerms: matched,
		}, true
	}
	return core.CategoryMatch{}, false
}

// specificity combines match strength, term length, category priority and
// match count into the ranking-only score. It orders alternatives; it never
// picks the primary category.
func specificity(conf float64, matched []string, priorityIdx, total int) float64 {
	if total <= 0 {
		total = 1
	}
	avgLen := 0.0
	maxLen := 0
	for _, t := range matched {
		avgLen += float64(len(t))
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}
	if len(matched) > 0 {
		avgLen /= float64(len(matched))
	}

	lengthWeight := avgLen / 20.0
	if lengthWeight > 2.0 {
		lengthWeight = 2.0
	}
	categoryWeight := float64(total-priorityIdx) / float64(total)
	matchCountWeight := float64(len(matched)) / 5.0
	if matchCountWeight > 1.5 {
		matchCountWeight = 1.5
	}
	maxLenBonus := float64(maxLen) / 15.0
	if maxLenBonus > 1.0 {
		maxLenBonus = 1.0
	}

	score := conf + lengthWeight + categoryWeight + matchCountWeight + maxLenBonus
	if score > 10.0 {
		score = 10.0
	}
	return score
}

// RankAlternatives produces an ordered list of candidate classifications for
// the feedback-correction flow. It relaxes each category threshold to 70% of
// normal (floor 0.2), folds in a suspicious-domain pseudo-candidate and a
// brand-impersonation pseudo-candidate, deduplicates by keeping the highest
// specificity per category, sorts by (specificity, confidence) descending and
// pads with fixed fallbacks until limit entries exist. Excluded categories
// never appear.
func (m *Matcher) RankAlternatives(ctx context.Context, sig *core.EmailSignal, threshold float64, limit int, exclude []core.Category) []core.CategoryMatch {
	if limit <= 0 {
		return nil
	}
	excluded := make(map[core.Category]bool, len(exclude))
	for _, c := range exclude {
		excluded[c] = true
	}

	reg := m.handle.Current()
	lower := strings.ToLower(sig.Text())
	total := reg.Len()

	best := make(map[core.Category]core.CategoryMatch)
	order := make([]core.Category, 0, total)
	add := func(cm core.CategoryMatch) {
		if excluded[cm.Category] {
			return
		}
		if prev, ok := best[cm.Category]; ok {
			if cm.Specificity > prev.Specificity {
				best[cm.Category] = cm
			}
			return
		}
		best[cm.Category] = cm
		order = append(order, cm.Category)
	}

	for i, spec := range reg.Specs() {
		conf, matched := scanTerms(lower, spec.Terms)
		if conf <= 0 {
			continue
		}
		relaxed := reg.Threshold(spec.Category, threshold) * 0.7
		if relaxed < 0.2 {
			relaxed = 0.2
		}
		if conf < relaxed {
			continue
		}
		add(core.CategoryMatch{
			Category:     spec.Category,
			Confidence:   conf,
			Specificity:  specificity(conf, matched, i, total),
			MatchedTerms: matched,
		})
	}

	if m.oracle != nil && m.oracle.IsSuspicious(sig.Domain, sig.Provider) {
		add(core.CategoryMatch{
			Category:     core.CategoryMarketingSpam,
			Confidence:   0.6,
			Specificity:  specificity(0.6, []string{sig.Domain}, total-1, total),
			MatchedTerms: []string{"suspicious domain pattern"},
		})
	}
	if m.brands != nil {
		suspicious := m.oracle != nil && m.oracle.IsSuspicious(sig.Domain, sig.Provider)
		if _, found, evidence := m.brands.Detect(ctx, sig.Sender, sig.Domain, sig.Provider, suspicious); found {
			add(core.CategoryMatch{
				Category:     core.CategoryBrandImpersonation,
				Confidence:   0.7,
				Specificity:  specificity(0.7, []string{evidence}, core.CategoryBrandImpersonation.Priority(), total),
				MatchedTerms: []string{evidence},
			})
		}
	}

	ranked := make([]core.CategoryMatch, 0, len(order))
	for _, c := range order {
		ranked = append(ranked, best[c])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Specificity != ranked[j].Specificity {
			return ranked[i].Specificity > ranked[j].Specificity
		}
		return ranked[i].Confidence > ranked[j].Confidence
	})

	for _, fb := range []core.Category{core.CategoryMarketingSpam, core.CategoryPromotional, core.CategoryNotSpam} {
		if len(ranked) >= limit {
			break
		}
		if excluded[fb] || containsCategory(ranked, fb) {
			continue
		}
		ranked = append(ranked, core.CategoryMatch{Category: fb, Confidence: 0.3})
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func containsCategory(matches []core.CategoryMatch, c core.Category) bool {
	for _, m := range matches {
		if m.Category == c {
			return true
		}
	}
	return false
}
