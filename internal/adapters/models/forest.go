package models

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/signals"
	"go.uber.org/zap"
)

// Feature vector layout for the tree ensemble. The trainer and this inference
// adapter must agree on the indexes; FeatureNames documents the contract.
var FeatureNames = []string{
	"subject_len",
	"body_len",
	"exclamation_count",
	"caps_ratio",
	"local_digit_ratio",
	"emoji_count",
	"domain_len",
	"domain_dots",
	"suspicious_tld",
	"urgency_terms",
	"currency_marks",
	"link_count",
}

// forestNode is one node of a serialized decision tree. Leaves carry the spam
// probability; internal nodes split on feature <= threshold.
type forestNode struct {
	Feature   int         `json:"feature"`
	Threshold float64     `json:"threshold"`
	Left      *forestNode `json:"left,omitempty"`
	Right     *forestNode `json:"right,omitempty"`
	LeafProb  *float64    `json:"leaf_prob,omitempty"`
}

type forestWeights struct {
	Trees []*forestNode `json:"trees"`
}

// ForestModel is a serialized random forest evaluated over hand-crafted email
// features. Like the Bayes adapter it is inference-only.
type ForestModel struct {
	trees  []*forestNode
	logger *zap.Logger
}

// LoadForestModel reads a tree dump produced by the trainer.
func LoadForestModel(path string, logger *zap.Logger) (*ForestModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read forest weights: %w", err)
	}
	var w forestWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse forest weights: %w", err)
	}
	if len(w.Trees) == 0 {
		return nil, fmt.Errorf("forest weights at %s contain no trees", path)
	}
	return &ForestModel{trees: w.Trees, logger: logger}, nil
}

// NewForestModel wraps already-parsed trees, used by tests.
func NewForestModel(trees []*forestNode, logger *zap.Logger) *ForestModel {
	return &ForestModel{trees: trees, logger: logger}
}

// Name implements core.ScoringModel.
func (m *ForestModel) Name() string { return "forest" }

var (
	urgencyRe = regexp.MustCompile(`(?i)urgent|act now|immediately|final|last chance|expires?`)
	linkRe    = regexp.MustCompile(`https?://`)
)

// Features extracts the numeric feature vector for one email.
func Features(sig *core.EmailSignal) []float64 {
	upper, letters := 0, 0
	for _, r := range sig.Subject {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	capsRatio := 0.0
	if letters > 0 {
		capsRatio = float64(upper) / float64(letters)
	}

	localDigits := 0
	for _, r := range sig.LocalPart {
		if unicode.IsDigit(r) {
			localDigits++
		}
	}
	localDigitRatio := 0.0
	if len(sig.LocalPart) > 0 {
		localDigitRatio = float64(localDigits) / float64(len(sig.LocalPart))
	}

	suspiciousTLD := 0.0
	if domaincheck.HasSuspiciousTLD(sig.Domain) {
		suspiciousTLD = 1.0
	}

	text := sig.Text()
	return []float64{
		float64(len(sig.Subject)),
		float64(len(sig.Body)),
		float64(strings.Count(text, "!")),
		capsRatio,
		localDigitRatio,
		float64(signals.CountEmojis(text)),
		float64(len(sig.Domain)),
		float64(strings.Count(sig.Domain, ".")),
		suspiciousTLD,
		float64(len(urgencyRe.FindAllString(text, -1))),
		float64(strings.Count(text, "$") + strings.Count(text, "€") + strings.Count(text, "£")),
		float64(len(linkRe.FindAllString(text, -1))),
	}
}

func (n *forestNode) eval(features []float64) float64 {
	node := n
	for node.LeafProb == nil {
		idx := node.Feature
		var next *forestNode
		if idx >= 0 && idx < len(features) && features[idx] <= node.Threshold {
			next = node.Left
		} else {
			next = node.Right
		}
		if next == nil {
			// Malformed tree; treat the dead end as an abstaining half vote.
			return 0.5
		}
		node = next
	}
	return *node.LeafProb
}

// Predict averages the leaf probabilities across all trees.
func (m *ForestModel) Predict(_ context.Context, sig *core.EmailSignal) (*core.ModelPrediction, error) {
	if len(m.trees) == 0 {
		return nil, fmt.Errorf("forest model has no trees")
	}
	features := Features(sig)
	sum := 0.0
	for _, t := range m.trees {
		sum += t.eval(features)
	}
	prob := sum / float64(len(m.trees))
	return &core.ModelPrediction{
		IsSpam:          prob >= 0.5,
		SpamProbability: prob,
	}, nil
}
