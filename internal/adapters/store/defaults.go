package store

import (
	"github.com/mikey/mailsift/internal/core"
	"github.com/mikey/mailsift/internal/registry"
)

// DefaultCategoryOrder returns the built-in category names in priority order,
// with the universal indicator list last.
func DefaultCategoryOrder() []string {
	order := make([]string, 0, len(core.SpamPriority)+1)
	for _, c := range core.SpamPriority {
		order = append(order, c.String())
	}
	return append(order, registry.UniversalCategory)
}

// DefaultTerms returns the built-in weighted term lists per category. These
// seed the memory store and the first SQLite bootstrap; deployments curate
// them afterwards through the term store.
func DefaultTerms() map[string][]core.Term {
	return map[string][]core.Term{
		core.CategoryPhishing.String(): {
			{Text: "verify your account", Confidence: 0.95},
			{Text: "account suspended", Confidence: 0.95},
			{Text: "account has been suspended", Confidence: 0.95},
			{Text: "confirm your identity", Confidence: 0.9},
			{Text: "unusual activity", Confidence: 0.85},
			{Text: "unauthorized login attempt", Confidence: 0.9},
			{Text: "update your payment information", Confidence: 0.9},
			{Text: "reactivate your account", Confidence: 0.9},
			{Text: "click here to verify", Confidence: 0.9},
			{Text: "your account will be closed", Confidence: 0.85},
			{Text: "confirm your password", Confidence: 0.9},
			{Text: "validate your account", Confidence: 0.9},
			{Text: "final notice", Confidence: 0.7},
			{Text: "act immediately", Confidence: 0.7},
		},
		core.CategoryPaymentScam.String(): {
			{Text: "wire transfer", Confidence: 0.8},
			{Text: "western union", Confidence: 0.85},
			{Text: "moneygram", Confidence: 0.85},
			{Text: "payment pending", Confidence: 0.75},
			{Text: "unclaimed funds", Confidence: 0.9},
			{Text: "processing fee", Confidence: 0.8},
			{Text: "advance fee", Confidence: 0.85},
			{Text: "beneficiary", Confidence: 0.75},
			{Text: "inheritance", Confidence: 0.85},
			{Text: "next of kin", Confidence: 0.9},
			{Text: "gift card payment", Confidence: 0.9},
			{Text: "send gift cards", Confidence: 0.9},
			{Text: "overdue invoice attached", Confidence: 0.75},
		},
		core.CategoryAdultDating.String(): {
			{Text: "singles in your area", Confidence: 0.95},
			{Text: "lonely women", Confidence: 0.95},
			{Text: "hot singles", Confidence: 0.95},
			{Text: "adult content", Confidence: 0.9},
			{Text: "meet tonight", Confidence: 0.85},
			{Text: "discreet hookup", Confidence: 0.95},
			{Text: "dating profile", Confidence: 0.7},
			{Text: "someone viewed your profile", Confidence: 0.7},
			{Text: "explicit photos", Confidence: 0.95},
		},
		core.CategoryHealthMedical.String(): {
			{Text: "weight loss", Confidence: 0.8},
			{Text: "lose weight fast", Confidence: 0.9},
			{Text: "miracle cure", Confidence: 0.95},
			{Text: "viagra", Confidence: 0.95},
			{Text: "cialis", Confidence: 0.95},
			{Text: "no prescription", Confidence: 0.9},
			{Text: "online pharmacy", Confidence: 0.85},
			{Text: "male enhancement", Confidence: 0.95},
			{Text: "anti-aging", Confidence: 0.75},
			{Text: "fat burner", Confidence: 0.85},
			{Text: "keto", Confidence: 0.6},
			{Text: "cbd", Confidence: 0.65},
			{Text: "pain relief breakthrough", Confidence: 0.85},
		},
		core.CategoryLegalCompensation.String(): {
			{Text: "class action", Confidence: 0.8},
			{Text: "lawsuit settlement", Confidence: 0.9},
			{Text: "compensation claim", Confidence: 0.85},
			{Text: "you may be entitled", Confidence: 0.9},
			{Text: "accident claim", Confidence: 0.85},
			{Text: "injury lawyer", Confidence: 0.8},
			{Text: "settlement check", Confidence: 0.85},
			{Text: "legal notice of award", Confidence: 0.85},
		},
		core.CategoryFinancialInvestment.String(): {
			{Text: "crypto", Confidence: 0.75},
			{Text: "cryptocurrency", Confidence: 0.8},
			{Text: "bitcoin", Confidence: 0.8},
			{Text: "bitcoin trading", Confidence: 0.9},
			{Text: "investment opportunity", Confidence: 0.9},
			{Text: "guaranteed returns", Confidence: 0.95},
			{Text: "double your money", Confidence: 0.95},
			{Text: "forex", Confidence: 0.8},
			{Text: "stock alert", Confidence: 0.8},
			{Text: "penny stock", Confidence: 0.85},
			{Text: "passive income", Confidence: 0.7},
			{Text: "trading signals", Confidence: 0.85},
			{Text: "financial freedom", Confidence: 0.75},
			{Text: "debt consolidation", Confidence: 0.7},
			{Text: "pre-approved loan", Confidence: 0.85},
		},
		core.CategoryGambling.String(): {
			{Text: "casino", Confidence: 0.85},
			{Text: "free spins", Confidence: 0.95},
			{Text: "jackpot", Confidence: 0.85},
			{Text: "betting odds", Confidence: 0.85},
			{Text: "sports book", Confidence: 0.8},
			{Text: "sportsbook", Confidence: 0.85},
			{Text: "poker bonus", Confidence: 0.9},
			{Text: "no deposit bonus", Confidence: 0.9},
			{Text: "slot machine", Confidence: 0.85},
		},
		core.CategoryBusinessOpportunity.String(): {
			{Text: "work from home", Confidence: 0.8},
			{Text: "be your own boss", Confidence: 0.9},
			{Text: "earn extra income", Confidence: 0.8},
			{Text: "online degree", Confidence: 0.8},
			{Text: "certification program", Confidence: 0.6},
			{Text: "real estate seminar", Confidence: 0.85},
			{Text: "flip houses", Confidence: 0.85},
			{Text: "mlm", Confidence: 0.8},
			{Text: "business opportunity", Confidence: 0.85},
			{Text: "training webinar", Confidence: 0.6},
			{Text: "make money online", Confidence: 0.9},
		},
		core.CategoryBrandImpersonation.String(): {
			{Text: "your amazon order", Confidence: 0.6},
			{Text: "your paypal account", Confidence: 0.6},
			{Text: "apple id locked", Confidence: 0.8},
			{Text: "netflix payment failed", Confidence: 0.8},
			{Text: "microsoft account team", Confidence: 0.7},
			{Text: "your package could not be delivered", Confidence: 0.75},
			{Text: "customs fee required", Confidence: 0.8},
		},
		core.CategoryMarketingSpam.String(): {
			{Text: "limited time offer", Confidence: 0.75},
			{Text: "act now", Confidence: 0.7},
			{Text: "buy now", Confidence: 0.7},
			{Text: "exclusive deal", Confidence: 0.7},
			{Text: "flash sale", Confidence: 0.7},
			{Text: "special promotion", Confidence: 0.7},
			{Text: "best price", Confidence: 0.65},
			{Text: "order today", Confidence: 0.65},
			{Text: "don't miss out", Confidence: 0.7},
			{Text: "click below", Confidence: 0.65},
			{Text: "unbeatable prices", Confidence: 0.75},
		},
		registry.UniversalCategory: {
			{Text: "100% free", Confidence: 0.7},
			{Text: "risk free", Confidence: 0.6},
			{Text: "no obligation", Confidence: 0.55},
			{Text: "winner", Confidence: 0.5},
			{Text: "congratulations", Confidence: 0.5},
			{Text: "urgent", Confidence: 0.45},
			{Text: "!!!", Confidence: 0.45},
			{Text: "$$$", Confidence: 0.6},
			{Text: "click here", Confidence: 0.4},
			{Text: "call now", Confidence: 0.5},
			{Text: "limited time", Confidence: 0.45},
			{Text: "this is not spam", Confidence: 0.8},
		},
	}
}

// DefaultKnownDomains returns the built-in known-company domain list used to
// seed memory and SQLite domain stores.
func DefaultKnownDomains() []string {
	return []string{
		"amazon.com", "apple.com", "google.com", "microsoft.com",
		"paypal.com", "netflix.com", "facebook.com", "instagram.com",
		"walmart.com", "target.com", "costco.com", "kohls.com",
		"bestbuy.com", "homedepot.com", "lowes.com", "macys.com",
		"nordstrom.com", "gap.com", "oldnavy.com", "nike.com",
		"adidas.com", "chase.com", "wellsfargo.com", "bankofamerica.com",
		"citibank.com", "capitalone.com", "americanexpress.com",
		"discover.com", "fedex.com", "ups.com", "usps.com", "dhl.com",
		"spotify.com", "hulu.com", "disneyplus.com", "airbnb.com",
		"booking.com", "expedia.com", "delta.com", "united.com",
		"southwest.com", "uber.com", "lyft.com", "doordash.com",
		"grubhub.com", "instacart.com", "ebay.com", "etsy.com",
		"wayfair.com", "overstock.com", "zappos.com", "rei.com",
		"petco.com", "chewy.com", "cvs.com", "walgreens.com",
		"starbucks.com", "mcdonalds.com", "chipotle.com",
		"linkedin.com", "github.com", "slack.com", "zoom.us",
		"dropbox.com", "adobe.com", "salesforce.com", "intuit.com",
	}
}
