// Package prefix validates sender local parts against known legitimate
// marketing and transactional mailbox conventions.
package prefix

import (
	"sort"
	"strings"
)

// Validator matches local parts against a registry of business prefixes and
// their confidence scores.
type Validator struct {
	prefixes map[string]float64
	// ordered holds the prefixes longest first so the suffix-match fallback
	// is deterministic when one local part matches several prefixes.
	ordered []string
}

// NewValidator creates a validator. A nil or empty registry falls back to the
// built-in set; supplied entries override built-ins of the same name.
func NewValidator(overrides map[string]float64) *Validator {
	prefixes := DefaultPrefixes()
	for k, v := range overrides {
		prefixes[strings.ToLower(k)] = v
	}
	ordered := make([]string, 0, len(prefixes))
	for p := range prefixes {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if len(ordered[i]) != len(ordered[j]) {
			return len(ordered[i]) > len(ordered[j])
		}
		return ordered[i] < ordered[j]
	})
	return &Validator{prefixes: prefixes, ordered: ordered}
}

// DefaultPrefixes returns the built-in prefix registry. Confidence reflects
// how strongly the prefix signals legitimate bulk mail.
func DefaultPrefixes() map[string]float64 {
	return map[string]float64{
		"marketing":     0.90,
		"offers":        0.90,
		"deals":         0.85,
		"promotions":    0.85,
		"promo":         0.80,
		"newsletter":    0.85,
		"newsletters":   0.85,
		"news":          0.75,
		"no-reply":      0.80,
		"noreply":       0.80,
		"do-not-reply":  0.80,
		"donotreply":    0.80,
		"updates":       0.80,
		"notifications": 0.80,
		"rewards":       0.80,
		"members":       0.75,
		"alerts":        0.75,
		"support":       0.75,
		"sales":         0.75,
		"info":          0.70,
		"hello":         0.70,
		"contact":       0.70,
		"team":          0.70,
		"store":         0.70,
		"shop":          0.70,
		"email":         0.70,
		"mail":          0.65,
	}
}

// Validate matches the address's local part against the registry. A match is
// exact, or the prefix followed by a separator or digits ("offers-us",
// "newsletter2"). It returns the matched prefix and its confidence.
func (v *Validator) Validate(email string) (bool, string, float64) {
	local := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.ToLower(strings.TrimSpace(local))
	if local == "" {
		return false, "", 0
	}

	if conf, ok := v.prefixes[local]; ok {
		return true, local, conf
	}
	for _, p := range v.ordered {
		conf := v.prefixes[p]
		if strings.HasPrefix(local, p) && len(local) > len(p) {
			switch local[len(p)] {
			case '.', '-', '_', '+', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				return true, p, conf
			}
		}
	}
	return false, "", 0
}
