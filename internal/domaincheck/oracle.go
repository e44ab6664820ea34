// Package domaincheck decides whether a sending domain looks like a known
// company, a throwaway, or an auto-generated bulk sender.
package domaincheck

import (
	"context"
	"regexp"
	"strings"

	"github.com/mikey/mailsift/internal/core"
	"go.uber.org/zap"
)

// suspiciousTLDs are cheap registries with near-zero legitimate commercial use.
var suspiciousTLDs = map[string]bool{
	"tk": true,
	"ml": true,
	"ga": true,
	"cf": true,
}

// authorityWords are subdomain labels that claim editorial or expert standing,
// a staple of newsletter-scam domains.
var authorityWords = map[string]bool{
	"insights":  true,
	"portfolio": true,
	"daily":     true,
	"expert":    true,
	"experts":   true,
	"weekly":    true,
	"premium":   true,
	"exclusive": true,
	"alerts":    true,
	"elite":     true,
	"report":    true,
	"briefing":  true,
}

// professionalWords make a main label sound like an established publisher.
// Combined with an authority subdomain they form the newsletter-scam pattern.
var professionalWords = []string{
	"capital", "research", "wealth", "finance", "financial", "invest",
	"media", "report", "market", "trading", "advisor", "analytics",
}

// scamWords inside a trusted-looking main label void the trust exemption.
var scamWords = []string{
	"scam", "fraud", "phish", "hack", "free-money", "winner", "prize",
}

var (
	autoGenRun    = regexp.MustCompile(`[0-9]+[a-z]+[0-9]+`)
	letterDigitRe = regexp.MustCompile(`[a-z]+[0-9]{3,}`)
	digitRe       = regexp.MustCompile(`[0-9]`)
)

// Oracle answers domain legitimacy and suspicion questions. Legitimacy is
// backed by the domain reputation store; suspicion is pure heuristics.
type Oracle struct {
	store  core.DomainStore
	logger *zap.Logger
}

// NewOracle creates a new domain oracle.
func NewOracle(store core.DomainStore, logger *zap.Logger) *Oracle {
	return &Oracle{store: store, logger: logger}
}

// IsLegitimate reports whether the domain matches a known company domain,
// either exactly or as subdomain.company.tld. A failing store lookup counts
// as not legitimate; it is logged and never aborts classification.
func (o *Oracle) IsLegitimate(ctx context.Context, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	if o.knownDomain(ctx, domain) {
		return true
	}
	// Walk up the label chain: mail.promo.kohls.com matches kohls.com.
	labels := strings.Split(domain, ".")
	for i := 1; i < len(labels)-1; i++ {
		if o.knownDomain(ctx, strings.Join(labels[i:], ".")) {
			return true
		}
	}
	return false
}

// IsKnownExact reports whether the domain itself, without subdomain
// stripping, is a known company domain.
func (o *Oracle) IsKnownExact(ctx context.Context, domain string) bool {
	return o.knownDomain(ctx, strings.ToLower(strings.TrimSpace(domain)))
}

func (o *Oracle) knownDomain(ctx context.Context, domain string) bool {
	known, err := o.store.IsKnownCompanyDomain(ctx, domain)
	if err != nil {
		o.logger.Warn("Domain store lookup failed",
			zap.String("domain", domain),
			zap.Error(err))
		return false
	}
	return known
}

// IsSuspicious applies the structural suspicion heuristic. Major providers
// pre-filter obvious spam, so for them only extreme label lengths count.
func (o *Oracle) IsSuspicious(domain string, provider core.Provider) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	labels := strings.Split(domain, ".")
	first := labels[0]

	if provider.IsMajor() {
		return len(first) > 20
	}

	if len(first) > 15 {
		return true
	}
	if strings.Count(domain, ".") > 3 {
		return true
	}
	if digitRe.MatchString(domain) && len(first) > 10 {
		return true
	}
	if HasSuspiciousTLD(domain) && provider == core.ProviderUnknown {
		return true
	}
	return false
}

// HasSuspiciousTLD reports whether the domain ends in a known throwaway TLD.
func HasSuspiciousTLD(domain string) bool {
	dot := strings.LastIndex(domain, ".")
	if dot < 0 {
		return false
	}
	return suspiciousTLDs[domain[dot+1:]]
}

// SubdomainComplexity flags structurally suspicious subdomain layouts and
// returns a reason describing the finding.
//
// Known-legitimate domains are exempt, except when the main label itself
// carries a scam word or the domain fits the newsletter-scam pattern
// (professional-sounding name plus authority-claiming subdomain). That
// second-level exception catches squatters dressing up as trusted brands and
// must stay ahead of the blanket exemption.
func (o *Oracle) SubdomainComplexity(ctx context.Context, domain string, provider core.Provider) (bool, string) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false, ""
	}
	labels := strings.Split(domain, ".")
	mainLabel := ""
	if len(labels) >= 2 {
		mainLabel = labels[len(labels)-2]
	}

	if o.IsLegitimate(ctx, domain) {
		for _, w := range scamWords {
			if strings.Contains(mainLabel, w) {
				return true, "scam wording inside trusted-looking domain"
			}
		}
		if o.newsletterScamPattern(labels, mainLabel) {
			return true, "newsletter-scam pattern on trusted-looking domain"
		}
		return false, ""
	}

	if len(labels) >= 3 {
		sub := labels[0]
		if authorityWords[sub] {
			secondHasDigit := digitRe.MatchString(labels[1])
			if secondHasDigit || HasSuspiciousTLD(domain) || provider == core.ProviderUnknown {
				return true, "authority-claiming subdomain on unverified domain"
			}
		}
		if len(sub) > 12 {
			return true, "unusually long subdomain"
		}
		if autoGenRun.MatchString(sub) || letterDigitRe.MatchString(sub) {
			return true, "auto-generated subdomain pattern"
		}
	}
	return false, ""
}

func (o *Oracle) newsletterScamPattern(labels []string, mainLabel string) bool {
	if len(labels) < 3 {
		return false
	}
	if !authorityWords[labels[0]] {
		return false
	}
	for _, w := range professionalWords {
		if strings.Contains(mainLabel, w) {
			return true
		}
	}
	return false
}
