package signals

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/mailsift/internal/core"
)

// ParseSender splits a raw From value into display name and address. Inputs
// like `"Acme Deals" <deals@acme.com>` and bare addresses are both accepted.
func ParseSender(raw string) (displayName, address string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ""
	}
	if addr, err := mail.ParseAddress(raw); err == nil {
		return addr.Name, addr.Address
	}
	// Fall back to a manual split for senders net/mail rejects.
	if open := strings.LastIndex(raw, "<"); open >= 0 {
		close := strings.LastIndex(raw, ">")
		if close > open {
			return strings.Trim(strings.TrimSpace(raw[:open]), `"`), raw[open+1 : close]
		}
	}
	return "", raw
}

// SplitAddress splits an address into local part and domain.
func SplitAddress(address string) (local, domain string, ok bool) {
	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return "", "", false
	}
	return address[:at], strings.ToLower(address[at+1:]), true
}

// DetectProvider maps a sending domain to its mail provider.
func DetectProvider(domain string) core.Provider {
	domain = strings.ToLower(domain)
	switch {
	case domain == "gmail.com" || domain == "googlemail.com":
		return core.ProviderGmail
	case domain == "icloud.com" || domain == "me.com" || domain == "mac.com":
		return core.ProviderICloud
	case domain == "outlook.com" || domain == "hotmail.com" || domain == "live.com" || domain == "msn.com":
		return core.ProviderOutlook
	case domain == "yahoo.com" || strings.HasPrefix(domain, "yahoo."):
		return core.ProviderYahoo
	case domain == "aol.com":
		return core.ProviderAOL
	default:
		return core.ProviderUnknown
	}
}

// Build derives an EmailSignal from raw inputs. The address is not validated
// here; the orchestrator rejects unparseable senders up front.
func Build(sender, subject, body string) *core.EmailSignal {
	display, address := ParseSender(sender)
	local, domain, _ := SplitAddress(address)
	return &core.EmailSignal{
		Sender:      address,
		DisplayName: display,
		Subject:     subject,
		Body:        body,
		LocalPart:   local,
		Domain:      domain,
		Provider:    DetectProvider(domain),
	}
}

var (
	vowelRe      = regexp.MustCompile(`[aeiou]`)
	consonantRun = regexp.MustCompile(`[bcdfghjklmnpqrstvwxz]{5,}`)
	digitRun     = regexp.MustCompile(`\d{4,}`)
	mixedRun     = regexp.MustCompile(`(?:\d+[a-z]+\d+|[a-z]\d[a-z]\d)`)
)

// IsGibberish reports whether a local part looks machine-generated rather
// than like a human or business mailbox name.
func IsGibberish(localPart string) bool {
	lp := strings.ToLower(localPart)
	// Strip common separators before analysis.
	stripped := strings.Map(func(r rune) rune {
		if r == '.' || r == '_' || r == '-' || r == '+' {
			return -1
		}
		return r
	}, lp)
	if stripped == "" {
		return true
	}
	if len(stripped) >= 10 && !vowelRe.MatchString(stripped) {
		return true
	}
	if consonantRun.MatchString(stripped) {
		return true
	}
	if digitRun.MatchString(stripped) && len(stripped) > 12 {
		return true
	}
	if mixedRun.MatchString(stripped) && len(stripped) > 14 {
		return true
	}
	letters := 0
	digits := 0
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	// Mostly digits with a sprinkle of letters is a bulk-sender pattern.
	return letters > 0 && digits > letters*2 && len(stripped) > 10
}

// DisplayNameComplexity flags display names that look engineered to grab
// attention: emoji padding, shouty punctuation, or keyword stuffing.
func DisplayNameComplexity(name string) (bool, string) {
	if name == "" {
		return false, ""
	}
	if n := CountEmojis(name); n >= 2 {
		return true, "display name padded with emojis"
	}
	exclaims := strings.Count(name, "!") + strings.Count(name, "?")
	if exclaims >= 2 {
		return true, "display name contains excessive punctuation"
	}
	upper := 0
	letters := 0
	for _, r := range name {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters >= 6 && upper == letters {
		return true, "display name is all caps"
	}
	if len(strings.Fields(name)) >= 6 {
		return true, "display name is keyword-stuffed"
	}
	return false, ""
}

// CountEmojis counts emoji and pictographic runes in a string.
func CountEmojis(s string) int {
	count := 0
	for _, r := range s {
		switch {
		case r >= 0x1F300 && r <= 0x1FAFF, // pictographs, emoticons, symbols
			r >= 0x2600 && r <= 0x27BF, // misc symbols and dingbats
			r == 0x2764,                // heavy black heart
			r >= 0xFE00 && r <= 0xFE0F: // variation selectors
			count++
		}
	}
	return count
}

var base64Token = regexp.MustCompile(`^[A-Za-z0-9+/]{16,}={0,2}$`)

// LooksEncoded reports whether a subject line appears to be base64 payload or
// mojibake rather than readable text. Spammers use both to evade keyword
// filters.
func LooksEncoded(subject string) bool {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return false
	}
	// Un-decoded MIME encoded-words indicate a broken or evasive sender.
	if strings.Contains(trimmed, "=?") && strings.Contains(trimmed, "?=") {
		return true
	}
	if base64Token.MatchString(strings.ReplaceAll(trimmed, " ", "")) {
		return true
	}
	// Mojibake: a high share of replacement characters or latin-1 artifacts.
	bad := strings.Count(trimmed, "�") + strings.Count(trimmed, "Ã") + strings.Count(trimmed, "â€")
	return bad*4 >= len([]rune(trimmed)) && bad >= 3
}
