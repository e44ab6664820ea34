package models

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/mikey/mailsift/internal/core"
	"go.uber.org/zap"
)

// bayesWeights is the persisted form of a trained naive Bayes model. Training
// happens elsewhere; this adapter only runs inference.
type bayesWeights struct {
	SpamLogPrior float64 `json:"spam_log_prior"`
	HamLogPrior  float64 `json:"ham_log_prior"`
	// Tokens maps a token to its per-class log likelihood.
	Tokens map[string]struct {
		Spam float64 `json:"spam"`
		Ham  float64 `json:"ham"`
	} `json:"tokens"`
	// Unseen-token log likelihoods (Laplace-smoothed at training time).
	DefaultSpam float64 `json:"default_spam"`
	DefaultHam  float64 `json:"default_ham"`
}

// BayesModel is a naive Bayes spam classifier over subject, body and sender
// tokens, loaded from a JSON weight dump.
type BayesModel struct {
	weights *bayesWeights
	logger  *zap.Logger
}

var tokenRe = regexp.MustCompile(`[a-z0-9']+`)

// LoadBayesModel reads a weight file produced by the trainer.
func LoadBayesModel(path string, logger *zap.Logger) (*BayesModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bayes weights: %w", err)
	}
	var w bayesWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse bayes weights: %w", err)
	}
	if len(w.Tokens) == 0 {
		return nil, fmt.Errorf("bayes weights at %s contain no tokens", path)
	}
	return &BayesModel{weights: &w, logger: logger}, nil
}

// NewBayesModel wraps already-parsed weights, used by tests.
func NewBayesModel(spamPrior, hamPrior, defaultSpam, defaultHam float64, tokens map[string][2]float64, logger *zap.Logger) *BayesModel {
	w := &bayesWeights{
		SpamLogPrior: spamPrior,
		HamLogPrior:  hamPrior,
		DefaultSpam:  defaultSpam,
		DefaultHam:   defaultHam,
		Tokens: make(map[string]struct {
			Spam float64 `json:"spam"`
			Ham  float64 `json:"ham"`
		}, len(tokens)),
	}
	for t, ll := range tokens {
		w.Tokens[t] = struct {
			Spam float64 `json:"spam"`
			Ham  float64 `json:"ham"`
		}{Spam: ll[0], Ham: ll[1]}
	}
	return &BayesModel{weights: w, logger: logger}
}

// Name implements core.ScoringModel.
func (m *BayesModel) Name() string { return "bayes" }

// Predict sums per-token log likelihoods and squashes the class margin into a
// spam probability.
func (m *BayesModel) Predict(_ context.Context, sig *core.EmailSignal) (*core.ModelPrediction, error) {
	tokens := tokenRe.FindAllString(strings.ToLower(sig.Sender+" "+sig.Text()), -1)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no tokens to score")
	}

	spamLL := m.weights.SpamLogPrior
	hamLL := m.weights.HamLogPrior
	for _, t := range tokens {
		if ll, ok := m.weights.Tokens[t]; ok {
			spamLL += ll.Spam
			hamLL += ll.Ham
		} else {
			spamLL += m.weights.DefaultSpam
			hamLL += m.weights.DefaultHam
		}
	}

	prob := 1.0 / (1.0 + math.Exp(hamLL-spamLL))
	return &core.ModelPrediction{
		IsSpam:          prob >= 0.5,
		SpamProbability: prob,
	}, nil
}
