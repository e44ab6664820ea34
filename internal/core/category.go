package core

// Category identifies a classification outcome. Spam categories carry a fixed
// priority used to break ties between overlapping keyword matches; benign
// categories are never ranked against each other.
type Category int

const (
	CategoryUnknown Category = iota

	// Spam categories, highest priority first.
	CategoryPhishing
	CategoryPaymentScam
	CategoryAdultDating
	CategoryHealthMedical
	CategoryLegalCompensation
	CategoryFinancialInvestment
	CategoryGambling
	CategoryBusinessOpportunity
	CategoryBrandImpersonation
	CategoryMarketingSpam

	// Benign categories.
	CategoryNotSpam
	CategoryTransactional
	CategoryAccountNotification
	CategorySubscriptionManagement
	CategoryCommunity
	CategoryPromotional
	CategoryWhitelisted

	// Special outcomes.
	CategorySpoofedWhitelist
	CategoryInvalidEmail
)

// SpamPriority is the total order used to break ties between overlapping spam
// categories. Earlier entries always win, regardless of match specificity.
var SpamPriority = []Category{
	CategoryPhishing,
	CategoryPaymentScam,
	CategoryAdultDating,
	CategoryHealthMedical,
	CategoryLegalCompensation,
	CategoryFinancialInvestment,
	CategoryGambling,
	CategoryBusinessOpportunity,
	CategoryBrandImpersonation,
	CategoryMarketingSpam,
}

var categoryNames = map[Category]string{
	CategoryUnknown:                "Unknown",
	CategoryPhishing:               "Phishing",
	CategoryPaymentScam:            "Payment Scam",
	CategoryAdultDating:            "Adult & Dating Spam",
	CategoryHealthMedical:          "Health & Medical Spam",
	CategoryLegalCompensation:      "Legal & Compensation Scams",
	CategoryFinancialInvestment:    "Financial & Investment Spam",
	CategoryGambling:               "Gambling Spam",
	CategoryBusinessOpportunity:    "Business Opportunity Spam",
	CategoryBrandImpersonation:     "Brand Impersonation",
	CategoryMarketingSpam:          "Marketing Spam",
	CategoryNotSpam:                "Not Spam",
	CategoryTransactional:          "Transactional Email",
	CategoryAccountNotification:    "Account Notification",
	CategorySubscriptionManagement: "Subscription Management",
	CategoryCommunity:              "Community Email",
	CategoryPromotional:            "Promotional Email",
	CategoryWhitelisted:            "WHITELISTED",
	CategorySpoofedWhitelist:       "SPOOFED_WHITELIST",
	CategoryInvalidEmail:           "Invalid Email",
}

var categoriesByName = func() map[string]Category {
	m := make(map[string]Category, len(categoryNames))
	for c, name := range categoryNames {
		m[name] = c
	}
	return m
}()

// String returns the stable display name of a category. These names appear in
// verdicts, persisted results and term store rows, so they never change.
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseCategory resolves a display name back to a category.
func ParseCategory(name string) (Category, bool) {
	c, ok := categoriesByName[name]
	return c, ok
}

// Priority returns the rank of a spam category in the fixed priority order,
// 0 being the highest. Non-spam categories return -1.
func (c Category) Priority() int {
	for i, p := range SpamPriority {
		if p == c {
			return i
		}
	}
	return -1
}

// IsSpam reports whether the category describes unwanted mail.
func (c Category) IsSpam() bool {
	return c.Priority() >= 0 || c == CategorySpoofedWhitelist || c == CategoryInvalidEmail
}

// IsProtected reports whether the category is a benign outcome whose mail must
// never be deleted.
func (c Category) IsProtected() bool {
	switch c {
	case CategoryNotSpam, CategoryTransactional, CategoryAccountNotification,
		CategorySubscriptionManagement, CategoryCommunity, CategoryPromotional,
		CategoryWhitelisted:
		return true
	}
	return false
}

// ActionFor derives the action from a category: anything outside the protected
// set is deleted.
func ActionFor(c Category) Action {
	if c.IsProtected() {
		return ActionPreserve
	}
	return ActionDelete
}
