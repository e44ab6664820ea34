package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpamPriorityTotalOrder(t *testing.T) {
	assert.Equal(t, 0, CategoryPhishing.Priority(), "phishing outranks everything")
	assert.Equal(t, len(SpamPriority)-1, CategoryMarketingSpam.Priority(), "marketing spam is the weakest claim")
	assert.Less(t, CategoryFinancialInvestment.Priority(), CategoryGambling.Priority())
	assert.Equal(t, -1, CategoryPromotional.Priority())
	assert.Equal(t, -1, CategoryNotSpam.Priority())

	// Every spam category has a unique rank.
	seen := make(map[int]bool)
	for _, c := range SpamPriority {
		p := c.Priority()
		require.GreaterOrEqual(t, p, 0)
		assert.False(t, seen[p], "duplicate priority for %s", c)
		seen[p] = true
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for c, name := range map[Category]string{
		CategoryPhishing:          "Phishing",
		CategoryAdultDating:       "Adult & Dating Spam",
		CategoryLegalCompensation: "Legal & Compensation Scams",
		CategoryWhitelisted:       "WHITELISTED",
		CategorySpoofedWhitelist:  "SPOOFED_WHITELIST",
		CategoryInvalidEmail:      "Invalid Email",
	} {
		assert.Equal(t, name, c.String())
		parsed, ok := ParseCategory(name)
		require.True(t, ok, name)
		assert.Equal(t, c, parsed)
	}

	_, ok := ParseCategory("No Such Category")
	assert.False(t, ok)
	assert.Equal(t, "Unknown", Category(-1).String())
}

func TestIsSpam(t *testing.T) {
	assert.True(t, CategoryPhishing.IsSpam())
	assert.True(t, CategoryMarketingSpam.IsSpam())
	assert.True(t, CategorySpoofedWhitelist.IsSpam())
	assert.True(t, CategoryInvalidEmail.IsSpam())
	assert.False(t, CategoryPromotional.IsSpam())
	assert.False(t, CategoryNotSpam.IsSpam())
	assert.False(t, CategoryWhitelisted.IsSpam())
}

func TestActionFor(t *testing.T) {
	assert.Equal(t, ActionPreserve, ActionFor(CategoryNotSpam))
	assert.Equal(t, ActionPreserve, ActionFor(CategoryPromotional))
	assert.Equal(t, ActionPreserve, ActionFor(CategoryWhitelisted))
	assert.Equal(t, ActionDelete, ActionFor(CategoryPhishing))
	assert.Equal(t, ActionDelete, ActionFor(CategorySpoofedWhitelist))
	assert.Equal(t, ActionDelete, ActionFor(CategoryInvalidEmail))
}

func TestVerdictReasoning(t *testing.T) {
	v := &Verdict{}
	assert.Empty(t, v.Reason())

	v.AddReason("first signal")
	v.AddReason("second signal")
	assert.Equal(t, []string{"first signal", "second signal"}, v.Reasoning)
	assert.Equal(t, "first signal; second signal", v.Reason())
}

func TestActionAndLevelStrings(t *testing.T) {
	assert.Equal(t, "PRESERVE", ActionPreserve.String())
	assert.Equal(t, "DELETE", ActionDelete.String())
	assert.Equal(t, "HIGH", ConfidenceHigh.String())
	assert.Equal(t, "MEDIUM", ConfidenceMedium.String())
	assert.Equal(t, "LOW", ConfidenceLow.String())
}
