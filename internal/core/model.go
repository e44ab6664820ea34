package core

import (
	"strings"
	"time"
)

// Action is what the caller should do with a classified email.
type Action int

const (
	ActionPreserve Action = iota
	ActionDelete
)

// String returns the action name.
func (a Action) String() string {
	if a == ActionDelete {
		return "DELETE"
	}
	return "PRESERVE"
}

// ConfidenceLevel buckets an ensemble decision for policy checks such as
// "only delete on high confidence".
type ConfidenceLevel int

const (
	ConfidenceLow ConfidenceLevel = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the level name.
func (l ConfidenceLevel) String() string {
	switch l {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// Provider identifies the mail service behind a sending domain. Major
// providers pre-filter obvious spam, so several heuristics raise their bar
// when the sender comes from one of them.
type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderGmail
	ProviderICloud
	ProviderOutlook
	ProviderYahoo
	ProviderAOL
)

// String returns the provider name.
func (p Provider) String() string {
	switch p {
	case ProviderGmail:
		return "gmail"
	case ProviderICloud:
		return "icloud"
	case ProviderOutlook:
		return "outlook"
	case ProviderYahoo:
		return "yahoo"
	case ProviderAOL:
		return "aol"
	default:
		return "unknown"
	}
}

// IsMajor reports whether the provider is one of the large consumer services
// that run their own outbound spam filtering.
func (p Provider) IsMajor() bool {
	return p == ProviderGmail || p == ProviderICloud || p == ProviderOutlook
}

// EmailSignal is the per-call view of one email. It is built once per
// classification and never persisted or shared between calls.
type EmailSignal struct {
	Sender      string
	DisplayName string
	Subject     string
	Body        string

	// Derived from Sender.
	LocalPart string
	Domain    string
	Provider  Provider
}

// Text returns the combined subject and body, the input for content scans.
func (s *EmailSignal) Text() string {
	return s.Subject + " " + s.Body
}

// Term is one keyword or phrase from the term store, with the confidence the
// store associates with it.
type Term struct {
	Text       string
	Confidence float64
}

// InboundEmail is a raw message as received by a filter surface, before the
// classification core reduces it to an EmailSignal.
type InboundEmail struct {
	From    string
	To      []string
	Subject string
	Body    string
	Headers map[string][]string
}

// CategoryMatch is the result of scoring one spam category against text.
type CategoryMatch struct {
	Category   Category
	Confidence float64
	// Specificity is an unbounded ranking-only score. It orders alternative
	// classifications for the feedback flow and never picks the primary
	// category.
	Specificity  float64
	MatchedTerms []string
}

// Verdict is the externally visible classification result.
type Verdict struct {
	Category     Category
	Confidence   float64
	Reasoning    []string
	Action       Action
	Level        ConfidenceLevel
	AnalyzedAt   time.Time
	ProcessingID string
}

// AddReason appends a step to the reasoning trail. The trail is append-only
// and never truncated.
func (v *Verdict) AddReason(reason string) {
	v.Reasoning = append(v.Reasoning, reason)
}

// Reason joins the reasoning trail into one human-readable string.
func (v *Verdict) Reason() string {
	return strings.Join(v.Reasoning, "; ")
}

// ModelPrediction is the output of one scoring model for one email.
type ModelPrediction struct {
	Label           Category
	IsSpam          bool
	SpamProbability float64
}

// EnsembleVote is one model's contribution to the weighted ensemble decision.
// Votes are collected per classification and discarded after combination.
type EnsembleVote struct {
	Model       string
	Label       Category
	Probability float64
}

// VerdictRecord is what the result sink persists per classification.
type VerdictRecord struct {
	Timestamp    time.Time
	Sender       string
	Subject      string
	Category     string
	Action       string
	Confidence   float64
	Reasoning    string
	ProcessingID string
}
