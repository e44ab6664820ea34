package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailsift/internal/core"
)

func TestParseSender(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantDisplay string
		wantAddress string
	}{
		{
			name:        "bare address",
			raw:         "offers@kohls.com",
			wantDisplay: "",
			wantAddress: "offers@kohls.com",
		},
		{
			name:        "display name with angle brackets",
			raw:         `"Kohl's Offers" <offers@kohls.com>`,
			wantDisplay: "Kohl's Offers",
			wantAddress: "offers@kohls.com",
		},
		{
			name:        "unquoted display name",
			raw:         "Acme Deals <deals@acme.com>",
			wantDisplay: "Acme Deals",
			wantAddress: "deals@acme.com",
		},
		{
			name:        "empty input",
			raw:         "",
			wantDisplay: "",
			wantAddress: "",
		},
		{
			name:        "not an address at all",
			raw:         "not-an-email",
			wantDisplay: "",
			wantAddress: "not-an-email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, address := ParseSender(tt.raw)
			assert.Equal(t, tt.wantDisplay, display)
			assert.Equal(t, tt.wantAddress, address)
		})
	}
}

func TestSplitAddress(t *testing.T) {
	local, domain, ok := SplitAddress("offers@Kohls.COM")
	require.True(t, ok)
	assert.Equal(t, "offers", local)
	assert.Equal(t, "kohls.com", domain)

	_, _, ok = SplitAddress("not-an-email")
	assert.False(t, ok)

	_, _, ok = SplitAddress("@nodomain")
	assert.False(t, ok)

	_, _, ok = SplitAddress("nolocal@")
	assert.False(t, ok)
}

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		domain string
		want   core.Provider
	}{
		{"gmail.com", core.ProviderGmail},
		{"googlemail.com", core.ProviderGmail},
		{"icloud.com", core.ProviderICloud},
		{"hotmail.com", core.ProviderOutlook},
		{"yahoo.co.uk", core.ProviderYahoo},
		{"aol.com", core.ProviderAOL},
		{"kohls.com", core.ProviderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectProvider(tt.domain))
		})
	}
}

func TestBuild(t *testing.T) {
	sig := Build(`"Big Deals" <deals@shop.example.com>`, "Hello", "World")
	assert.Equal(t, "deals@shop.example.com", sig.Sender)
	assert.Equal(t, "Big Deals", sig.DisplayName)
	assert.Equal(t, "deals", sig.LocalPart)
	assert.Equal(t, "shop.example.com", sig.Domain)
	assert.Equal(t, core.ProviderUnknown, sig.Provider)
	assert.Equal(t, "Hello World", sig.Text())
}

func TestIsGibberish(t *testing.T) {
	tests := []struct {
		local string
		want  bool
	}{
		{"john.smith", false},
		{"offers", false},
		{"marketing", false},
		{"xkcdqwrtpsdfgh", true},       // no vowels, long
		{"bzxkrtqw", true},             // consonant run
		{"a1b2c3d4e5f6g7h8", true},     // mixed runs
		{"user123456789012", true},     // long digit run
		{"x9382736453829105", true},    // digit dominant
		{"support", false},
		{"mary_jane_watson", false},
	}

	for _, tt := range tests {
		t.Run(tt.local, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGibberish(tt.local))
		})
	}
}

func TestDisplayNameComplexity(t *testing.T) {
	tests := []struct {
		name    string
		display string
		want    bool
	}{
		{"plain name", "Kohl's", false},
		{"empty", "", false},
		{"emoji padded", "🔥🔥 HOT DEALS", true},
		{"excessive punctuation", "Act now!! Really??", true},
		{"all caps", "WINNER ALERT", true},
		{"keyword stuffed", "best cheap deals offers discount sale now", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := DisplayNameComplexity(tt.display)
			assert.Equal(t, tt.want, got)
			if tt.want {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestCountEmojis(t *testing.T) {
	assert.Equal(t, 0, CountEmojis("plain text"))
	assert.Equal(t, 2, CountEmojis("fire 🔥 and money 💰"))
}

func TestLooksEncoded(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		want    bool
	}{
		{"plain subject", "Re: lunch tomorrow?", false},
		{"empty", "", false},
		{"undecodable mime word", "=?utf-8?B?broken?=", true},
		{"bare base64 blob", "SGVsbG8gd29ybGQgdGhpcyBpcyBzcGFt", true},
		{"mojibake", "Ã©Ã©Ã©", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksEncoded(tt.subject))
		})
	}
}
