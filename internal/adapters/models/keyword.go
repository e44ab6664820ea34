// Package models provides the ScoringModel implementations that vote in the
// ensemble: the rule-based keyword matcher wrapped as a model, statistical
// models doing inference over persisted weights, and an optional LLM voter.
package models

import (
	"context"

	"github.com/mikey/mailsift/internal/content"
	"github.com/mikey/mailsift/internal/core"
)

// KeywordModel exposes the content category matcher through the scoring model
// contract so the rule layer can vote alongside the statistical models.
type KeywordModel struct {
	matcher   *content.Matcher
	threshold float64
}

// NewKeywordModel creates a keyword model over the shared matcher.
func NewKeywordModel(matcher *content.Matcher, threshold float64) *KeywordModel {
	return &KeywordModel{matcher: matcher, threshold: threshold}
}

// Name implements core.ScoringModel.
func (m *KeywordModel) Name() string { return "keyword" }

// Predict scores the email with the category matcher. An accepted category
// votes spam at the match confidence; otherwise the universal indicator scan
// sets a weak prior.
func (m *KeywordModel) Predict(_ context.Context, sig *core.EmailSignal) (*core.ModelPrediction, error) {
	if match, ok := m.matcher.FindBestCategory(sig.Text(), m.threshold, nil); ok {
		return &core.ModelPrediction{
			Label:           match.Category,
			IsSpam:          match.Category.IsSpam(),
			SpamProbability: match.Confidence,
		}, nil
	}
	uconf, _ := m.matcher.MatchUniversal(sig.Text())
	return &core.ModelPrediction{
		Label:           core.CategoryNotSpam,
		IsSpam:          false,
		SpamProbability: uconf * 0.5,
	}, nil
}
