// Package twofactor implements the two-factor promotional gate: a sender is
// granted "promotional, not spam" status only when both a recognized business
// prefix and a legitimate domain check out. Every other quadrant routes to
// content classification.
package twofactor

import (
	"context"
	"strings"
	"unicode"

	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"github.com/mikey/mailsift/internal/prefix"
	"github.com/mikey/mailsift/internal/signals"
	"go.uber.org/zap"
)

// Decision is the outcome of the two-factor evaluation.
type Decision int

const (
	// DecisionPromotional accepts the email as legitimate promotional mail.
	DecisionPromotional Decision = iota
	// DecisionRouteContent hands the email to the content category matcher.
	DecisionRouteContent
)

// Outcome carries the decision plus the evidence trail.
type Outcome struct {
	Decision   Decision
	Category   core.Category
	Confidence float64
	Reason     string
}

// Classifier composes the prefix validator and domain oracle.
type Classifier struct {
	prefixes *prefix.Validator
	domains  *domaincheck.Oracle
	logger   *zap.Logger
}

// NewClassifier creates a two-factor classifier.
func NewClassifier(prefixes *prefix.Validator, domains *domaincheck.Oracle, logger *zap.Logger) *Classifier {
	return &Classifier{prefixes: prefixes, domains: domains, logger: logger}
}

// Evaluate runs the two-factor truth table over (prefix valid, domain
// legitimate). A gibberish-looking local part short-circuits straight to
// content classification before the table is consulted.
func (c *Classifier) Evaluate(ctx context.Context, sig *core.EmailSignal) Outcome {
	if signals.IsGibberish(sig.LocalPart) {
		return Outcome{
			Decision: DecisionRouteContent,
			Reason:   "gibberish sender local part",
		}
	}

	prefixOK, matched, prefConf := c.prefixes.Validate(sig.Sender)
	domainOK := c.domains.IsLegitimate(ctx, sig.Domain)

	switch {
	case prefixOK && domainOK:
		conf := prefConf + 0.05
		if conf > 1.0 {
			conf = 1.0
		}
		return Outcome{
			Decision:   DecisionPromotional,
			Category:   core.CategoryPromotional,
			Confidence: conf,
			Reason:     "business prefix '" + matched + "' on legitimate domain",
		}

	case prefixOK && !domainOK:
		return Outcome{
			Decision: DecisionRouteContent,
			Reason:   "prefix spoofing suspected: '" + matched + "' on unverified domain",
		}

	case !prefixOK && domainOK:
		if c.plausiblePersonalName(ctx, sig) {
			return Outcome{
				Decision:   DecisionPromotional,
				Category:   core.CategoryPromotional,
				Confidence: 0.65,
				Reason:     "personal or department mailbox on legitimate domain",
			}
		}
		return Outcome{
			Decision: DecisionRouteContent,
			Reason:   "unrecognized mailbox name on legitimate domain",
		}

	default:
		return Outcome{
			Decision: DecisionRouteContent,
			Reason:   "both factors failed",
		}
	}
}

// plausiblePersonalName accepts mailbox names that look like a person or a
// department: dotted or underscored names, short alphabetic handles, or any
// mailbox on a domain the reputation store knows outright.
func (c *Classifier) plausiblePersonalName(ctx context.Context, sig *core.EmailSignal) bool {
	local := strings.ToLower(sig.LocalPart)
	if (strings.Contains(local, ".") || strings.Contains(local, "_")) && len(local) > 4 {
		return true
	}
	if len(local) <= 8 && isAlphabetic(local) && local != "" {
		return true
	}
	return c.domains.IsKnownExact(ctx, sig.Domain)
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}
