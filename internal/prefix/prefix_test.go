package prefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExactMatch(t *testing.T) {
	v := NewValidator(nil)

	ok, matched, conf := v.Validate("offers@kohls.com")
	assert.True(t, ok)
	assert.Equal(t, "offers", matched)
	assert.InDelta(t, 0.90, conf, 1e-9)
}

func TestValidateSeparatorAndDigitSuffixes(t *testing.T) {
	v := NewValidator(nil)

	tests := []struct {
		email       string
		wantMatched string
		wantConf    float64
	}{
		{"offers-us@kohls.com", "offers", 0.90},
		{"newsletter2@acme.com", "newsletter", 0.85},
		{"deals.west@acme.com", "deals", 0.85},
		{"noreply+bounce@acme.com", "noreply", 0.80},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			ok, matched, conf := v.Validate(tt.email)
			assert.True(t, ok)
			assert.Equal(t, tt.wantMatched, matched)
			assert.InDelta(t, tt.wantConf, conf, 1e-9)
		})
	}
}

func TestValidateRejectsNonPrefixes(t *testing.T) {
	v := NewValidator(nil)

	for _, email := range []string{
		"john.smith@gmail.com",
		"amazon-deals@fake-amazon.tk", // prefix must lead, not trail
		"offersx@kohls.com",           // letter suffix is not a separator
		"@kohls.com",
	} {
		t.Run(email, func(t *testing.T) {
			ok, matched, conf := v.Validate(email)
			assert.False(t, ok)
			assert.Empty(t, matched)
			assert.Zero(t, conf)
		})
	}
}

func TestValidateOverrides(t *testing.T) {
	v := NewValidator(map[string]float64{"Billing": 0.88, "offers": 0.5})

	ok, matched, conf := v.Validate("billing@acme.com")
	assert.True(t, ok)
	assert.Equal(t, "billing", matched)
	assert.InDelta(t, 0.88, conf, 1e-9)

	// Overrides replace built-in confidences of the same name.
	_, _, conf = v.Validate("offers@kohls.com")
	assert.InDelta(t, 0.5, conf, 1e-9)
}

func TestValidateOverlappingPrefixesDeterministic(t *testing.T) {
	// "news-flash-2" carries both "news-flash" and the built-in "news" with a
	// separator; the longer prefix must win on every call.
	v := NewValidator(map[string]float64{"news-flash": 0.92})

	for i := 0; i < 50; i++ {
		ok, matched, conf := v.Validate("news-flash-2@acme.com")
		assert.True(t, ok)
		assert.Equal(t, "news-flash", matched)
		assert.InDelta(t, 0.92, conf, 1e-9)
	}
}

func TestValidateCaseInsensitive(t *testing.T) {
	v := NewValidator(nil)
	ok, matched, _ := v.Validate("OFFERS@KOHLS.COM")
	assert.True(t, ok)
	assert.Equal(t, "offers", matched)
}
