// Package whitelist implements the sender allow list behind the ensemble's
// whitelist override. A listed sender is only trusted when it also passes the
// authentication check; a listed sender that fails it is treated as a spoof.
package whitelist

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/brand"
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/signals"
)

// Verifier implements core.AuthVerifier from configured sender and domain
// lists.
type Verifier struct {
	senders map[string]bool
	domains map[string]bool
	logger  *zap.Logger
}

// NewVerifier creates a verifier from explicit sender addresses and whole
// domains.
func NewVerifier(senders, domains []string, logger *zap.Logger) *Verifier {
	v := &Verifier{
		senders: make(map[string]bool, len(senders)),
		domains: make(map[string]bool, len(domains)),
		logger:  logger,
	}
	for _, s := range senders {
		v.senders[strings.ToLower(strings.TrimSpace(s))] = true
	}
	for _, d := range domains {
		v.domains[strings.ToLower(strings.TrimSpace(d))] = true
	}
	if len(v.senders) > 0 || len(v.domains) > 0 {
		logger.Info("Loaded sender whitelist",
			zap.Int("senders", len(v.senders)),
			zap.Int("domains", len(v.domains)))
	}
	return v
}

// IsWhitelistedSender reports whether the sender address or its domain is on
// the list.
func (v *Verifier) IsWhitelistedSender(sender string) bool {
	_, address := signals.ParseSender(sender)
	address = strings.ToLower(address)
	if v.senders[address] {
		return true
	}
	_, domain, ok := signals.SplitAddress(address)
	return ok && v.domains[domain]
}

// Authenticated reports whether the sender passes the spoof check. Without
// SPF/DKIM results available at classification time, a sender that needed
// unicode normalization to match its claimed address is treated as spoofed.
func (v *Verifier) Authenticated(sig *core.EmailSignal) bool {
	_, changed := brand.Normalize(sig.Sender)
	if changed {
		v.logger.Debug("Whitelisted sender required spoof normalization",
			zap.String("sender", sig.Sender))
		return false
	}
	return true
}
