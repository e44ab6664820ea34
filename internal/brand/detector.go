// Package brand detects senders claiming affiliation with a company whose
// domain does not back the claim.
package brand

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/domaincheck"
	"go.uber.org/zap"
)

// companyPatterns extract candidate claimed-company tokens from a sender
// string (display name plus address).
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z][a-z]+(?:[A-Z][a-z]+)+`),                                       // CamelCase
	regexp.MustCompile(`\b([A-Z][a-z]{4,})\b`),                                              // capitalized word >=5
	regexp.MustCompile(`\b([A-Z]{2,5})\b`),                                                  // acronym
	regexp.MustCompile(`(?i)\b([a-z]+)[\s._-]+(?:team|support|billing|service|security)\b`), // "X team"
	regexp.MustCompile(`(?i)\b(?:from|by)\s+([A-Z][A-Za-z]+)`),                              // "from X"
	regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`),                                   // two capitalized words
}

// stoplist holds tokens the extractors produce that never name a company:
// generic nouns, marketing filler, TLD fragments and public figures.
var stoplist = map[string]bool{
	"email": true, "mail": true, "inbox": true, "message": true, "notice": true,
	"team": true, "support": true, "billing": true, "service": true, "services": true,
	"security": true, "account": true, "update": true, "updates": true, "alert": true,
	"alerts": true, "notification": true, "notifications": true, "customer": true,
	"member": true, "members": true, "rewards": true, "reward": true, "offer": true,
	"offers": true, "deal": true, "deals": true, "sale": true, "sales": true,
	"free": true, "best": true, "great": true, "special": true, "limited": true,
	"urgent": true, "important": true, "final": true, "daily": true, "weekly": true,
	"monthly": true, "online": true, "official": true, "verify": true, "secure": true,
	"confirm": true, "winner": true, "congratulations": true, "exclusive": true,
	"newsletter": true, "marketing": true, "promotion": true, "promotions": true,
	"shipping": true, "order": true, "invoice": true, "payment": true, "receipt": true,
	"hello": true, "dear": true, "your": true, "this": true, "that": true, "with": true,
	"have": true, "will": true, "about": true, "please": true, "today": true,
	"thanks": true, "thank": true, "regards": true, "department": true, "center": true,
	"com": true, "net": true, "org": true, "info": true, "biz": true,
	"trump": true, "biden": true, "obama": true, "musk": true, "oprah": true,
	"bezos": true, "gates": true,
}

// majorBrands are impersonation magnets: a claim to one of these with no
// matching domain is worth extra suspicion on its own.
var majorBrands = map[string]bool{
	"amazon": true, "paypal": true, "apple": true, "microsoft": true,
	"google": true, "netflix": true, "facebook": true, "instagram": true,
	"walmart": true, "target": true, "costco": true, "ebay": true,
	"chase": true, "wellsfargo": true, "bankofamerica": true, "citibank": true,
	"venmo": true, "zelle": true, "fedex": true, "ups": true, "usps": true,
	"dhl": true, "irs": true, "spotify": true, "disney": true,
}

// brandAbbreviations maps a brand to shorthand squatters hide inside domains.
var brandAbbreviations = map[string][]string{
	"amazon":        {"amzn", "amz"},
	"paypal":        {"pp", "pypl", "paypl"},
	"microsoft":     {"msft", "ms"},
	"facebook":      {"fb"},
	"instagram":     {"ig", "insta"},
	"wellsfargo":    {"wf"},
	"bankofamerica": {"boa", "bofa"},
	"google":        {"goog"},
}

// espDomains are third-party email services that legitimately send on behalf
// of many brands; a claimed company over one of these is not a mismatch.
var espDomains = []string{
	"sendgrid.net", "mailchimp.com", "mailchimpapp.net", "mcsv.net",
	"rsgsv.net", "constantcontact.com", "exacttarget.com", "salesforce.com",
	"cmail19.com", "cmail20.com", "createsend.com", "klaviyomail.com",
	"sailthru.com", "braze.com", "mailgun.org", "sparkpostmail.com",
	"amazonses.com",
}

// domainPrefixes are conventional mail subdomain prefixes brands use in front
// of their registrable domain.
var domainPrefixes = []string{
	"mail.", "email.", "e.", "em.", "no-reply.", "noreply.", "promo.",
	"news.", "newsletter.", "updates.", "info.", "go.", "click.", "links.",
	"alerts.", "notify.",
}

// genericCorporate are sender fragments that imitate a corporate department
// without naming a company.
var genericCorporate = []string{
	"customer.service", "customer-service", "customerservice",
	"billing.department", "billing-department", "account.services",
	"account-services", "security.alert", "security-alert",
	"support.center", "support-center", "fraud.prevention",
}

// credentialBait are urgency and credential-harvesting phrases. Impersonation
// plus any of these upgrades the verdict to phishing.
var credentialBait = []string{
	"verify", "verification", "suspended", "suspension", "reactivate",
	"re-activate", "confirm your", "update your payment", "update your account",
	"unusual activity", "unauthorized", "locked", "expire", "final notice",
	"last warning", "winner", "you have won", "claim", "act now", "immediately",
	"password", "login attempt", "sign in to", "validate",
}

var (
	vowelRe   = regexp.MustCompile(`[aeiou]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	wordyRe   = regexp.MustCompile(`verification|secure|suspended|account|login|signin|billing`)
	allCapsRe = regexp.MustCompile(`^[A-Z]+$`)
)

// Detector tests sender claims against domain evidence.
type Detector struct {
	oracle *domaincheck.Oracle
	logger *zap.Logger
}

// NewDetector creates a brand impersonation detector.
func NewDetector(oracle *domaincheck.Oracle, logger *zap.Logger) *Detector {
	return &Detector{oracle: oracle, logger: logger}
}

// Detect reports whether the sender impersonates a brand. It returns the
// category (always Brand Impersonation here; escalation to Phishing is the
// orchestrator's call), whether a detection fired, and an evidence string.
func (d *Detector) Detect(ctx context.Context, sender, domain string, provider core.Provider, suspiciousDomain bool) (core.Category, bool, string) {
	normalized, spoofed := Normalize(sender)
	companies := d.ExtractClaimedCompanies(normalized)

	if len(companies) == 0 {
		// No specific claim: fall back to the generic corporate pattern.
		lower := strings.ToLower(normalized)
		for _, g := range genericCorporate {
			if strings.Contains(lower, g) && suspiciousDomain {
				return core.CategoryBrandImpersonation, true,
					fmt.Sprintf("generic corporate sender %q on suspicious domain %q", g, domain)
			}
		}
		return core.CategoryUnknown, false, ""
	}

	for _, company := range companies {
		if d.domainMatchesCompany(ctx, domain, company) {
			continue
		}
		score := d.suspicionScore(domain, company, provider, spoofed)
		d.logger.Debug("Brand claim without matching domain",
			zap.String("company", company),
			zap.String("domain", domain),
			zap.Int("suspicion_score", score))
		if score >= 3 {
			return core.CategoryBrandImpersonation, true,
				fmt.Sprintf("sender claims %q but domain %q does not match (suspicion %d)", company, domain, score)
		}
	}
	return core.CategoryUnknown, false, ""
}

// HasCredentialBait reports whether text solicits credentials or urgent
// action, the signal that upgrades impersonation to phishing.
func HasCredentialBait(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range credentialBait {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var majorBrandList = func() []string {
	list := make([]string, 0, len(majorBrands))
	for b := range majorBrands {
		list = append(list, b)
	}
	sort.Strings(list)
	return list
}()

// ExtractClaimedCompanies pulls candidate company names out of a sender
// string, filtered through the stoplist and a shape heuristic. Well-known
// brand names count as claims regardless of casing; everything else must look
// like a proper name.
func (d *Detector) ExtractClaimedCompanies(sender string) []string {
	seen := make(map[string]bool)
	var companies []string

	lower := strings.ToLower(sender)
	for _, b := range majorBrandList {
		if strings.Contains(lower, b) {
			seen[b] = true
			companies = append(companies, b)
		}
	}
	for _, re := range companyPatterns {
		for _, m := range re.FindAllStringSubmatch(sender, -1) {
			token := m[0]
			if len(m) > 1 && m[1] != "" {
				token = m[1]
			}
			token = strings.TrimSpace(token)
			if !plausibleCompanyToken(token) {
				continue
			}
			key := strings.ToLower(strings.ReplaceAll(token, " ", ""))
			if stoplist[key] || seen[key] {
				continue
			}
			// Multi-word candidates get stoplisted word by word too.
			if words := strings.Fields(strings.ToLower(token)); len(words) > 1 {
				allStopped := true
				for _, w := range words {
					if !stoplist[w] {
						allStopped = false
						break
					}
				}
				if allStopped {
					continue
				}
			}
			seen[key] = true
			companies = append(companies, token)
		}
	}
	return companies
}

func plausibleCompanyToken(token string) bool {
	if len(token) < 3 || len(token) > 25 {
		return false
	}
	if !vowelRe.MatchString(strings.ToLower(token)) {
		return false
	}
	if allCapsRe.MatchString(token) && len(token) > 5 {
		return false
	}
	return true
}

// domainMatchesCompany tests whether the domain legitimately belongs to the
// claimed company.
func (d *Detector) domainMatchesCompany(ctx context.Context, domain, company string) bool {
	domain = strings.ToLower(domain)
	concat := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	if concat == "" || domain == "" {
		return false
	}

	// Exact or subdomain match on company.com / company.org.
	for _, tld := range []string{".com", ".org"} {
		root := concat + tld
		if domain == root || strings.HasSuffix(domain, "."+root) {
			return true
		}
	}

	// Conventional mail subdomains: email.company.tld etc.
	for _, p := range domainPrefixes {
		if strings.HasPrefix(domain, p) && strings.Contains(domain[len(p):], concat) {
			return true
		}
	}

	// Third-party email services send for everyone.
	for _, esp := range espDomains {
		if domain == esp || strings.HasSuffix(domain, "."+esp) {
			return true
		}
	}

	// Substring containment weighted by how much of the registrable label the
	// company name occupies.
	mainLabel := registrableLabel(domain)
	if strings.Contains(mainLabel, concat) && len(mainLabel) > 0 {
		if float64(len(concat))/float64(len(mainLabel)) >= 0.6 {
			return true
		}
	}

	// Multi-word companies: concatenation or word coverage.
	words := strings.Fields(strings.ToLower(company))
	if len(words) > 1 {
		found := 0
		for _, w := range words {
			if strings.Contains(domain, w) {
				found++
			}
		}
		if float64(found)/float64(len(words)) >= 0.7 {
			return true
		}
	}
	return false
}

func registrableLabel(domain string) string {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return domain
	}
	return labels[len(labels)-2]
}

// suspicionScore grades a claim/domain mismatch from 0 to 10.
func (d *Detector) suspicionScore(domain, company string, provider core.Provider, spoofed bool) int {
	score := 0
	switch {
	case len(domain) > 30:
		score += 3
	case len(domain) > 20:
		score += 2
	case len(domain) > 15:
		score++
	}
	if digitRe.MatchString(domain) {
		score++
	}
	if domaincheck.HasSuspiciousTLD(domain) {
		score += 2
	}

	concat := strings.ToLower(strings.ReplaceAll(company, " ", ""))
	if majorBrands[concat] {
		score += 3
	}
	if strings.Contains(domain, concat) {
		// Present but failed the pattern match above: squatter territory.
		score++
	} else {
		for _, abbr := range brandAbbreviations[concat] {
			if strings.Contains(domain, abbr) {
				score += 2
				break
			}
		}
	}
	if spoofed {
		score += 2
	}
	if provider == core.ProviderUnknown {
		score++
	}
	if wordyRe.MatchString(domain) {
		score++
	}
	if score > 10 {
		score = 10
	}
	return score
}
