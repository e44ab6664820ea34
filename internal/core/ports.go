package core

import (
	"context"
)

// TermStore supplies keyword/phrase term lists per spam category. The order of
// Categories defines the priority order of the registry built from it. The
// core treats the store as read-only during a classification call.
type TermStore interface {
	// Categories returns the category names known to the store, in priority
	// order.
	Categories(ctx context.Context) ([]string, error)

	// Terms returns the weighted terms for one category, in scan order.
	Terms(ctx context.Context, category string) ([]Term, error)
}

// DomainStore answers whether a domain belongs to a known, legitimate company.
type DomainStore interface {
	IsKnownCompanyDomain(ctx context.Context, domain string) (bool, error)
}

// ProtectedStore holds user-curated allow-list patterns. A protected match
// forces a Not Spam verdict before any other logic runs.
type ProtectedStore interface {
	// Match tests an email against the protected patterns and returns the
	// matched pattern when one applies.
	Match(ctx context.Context, sender, domain, subject string) (bool, string, error)
}

// ScoringModel is one classifier participating in the ensemble. How it was
// trained or persisted is not the ensemble's concern; a failing model simply
// abstains from the vote.
type ScoringModel interface {
	// Name identifies the model, and selects its ensemble weight.
	Name() string

	// Predict scores one email.
	Predict(ctx context.Context, sig *EmailSignal) (*ModelPrediction, error)
}

// AuthVerifier reports sender-authentication state for the whitelist override:
// a whitelisted sender that fails authentication is treated as a spoof attempt.
type AuthVerifier interface {
	IsWhitelistedSender(sender string) bool
	Authenticated(sig *EmailSignal) bool
}

// ResultSink records classification verdicts. Persistence failures never fail
// a classification.
type ResultSink interface {
	Record(ctx context.Context, rec *VerdictRecord) error
}

// FeedbackSink records human corrections of verdicts, feeding corrected labels
// back toward model retraining.
type FeedbackSink interface {
	RecordCorrection(ctx context.Context, processingID string, corrected Category, note string) error
}
