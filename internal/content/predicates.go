package content

import (
	"strings"
)

// The carve-out predicates below recognize mail a user asked for. They run
// before any spam heuristic, so their keyword lists stay conservative: a false
// positive here shields real spam from deletion.

var transactionalKeywords = []string{
	"order confirm", "your order", "order #", "order number", "order placed",
	"order received", "order status", "order update", "order has shipped",
	"shipped", "shipping confirm", "shipping update", "out for delivery",
	"delivered", "delivery confirm", "tracking number", "in transit",
	"your shipment", "your package has",
	"receipt", "invoice", "payment confirm", "payment received",
	"purchase confirm", "your transaction", "refund", "return label",
	"booking confirm", "reservation confirm", "itinerary",
	"your appointment", "boarding pass", "e-ticket",
}

var accountKeywords = []string{
	"password reset", "reset your password", "security alert",
	"new sign-in", "new login", "login attempt", "sign-in attempt",
	"verification code", "one-time code", "two-factor",
	"account was created", "account has been created", "privacy policy update",
	"terms of service update", "your statement is ready", "statement is available",
	"password was changed", "email address was changed",
}

var subscriptionKeywords = []string{
	"unsubscribe confirm", "subscription confirm", "you have been unsubscribed",
	"successfully unsubscribed", "subscription preferences",
	"email preferences", "manage your subscription", "manage preferences",
	"your subscription has been", "opt-out confirm",
}

var communityKeywords = []string{
	"mentioned you", "replied to your", "commented on", "new follower",
	"friend request", "connection request", "invited you to",
	"new message from", "posted in", "group digest", "community digest",
	"thread you follow", "upvoted your",
}

func containsAny(lower string, keywords []string) (bool, string) {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true, k
		}
	}
	return false, ""
}

// IsTransactional recognizes order, shipping, receipt and booking mail.
func IsTransactional(subject, body string) (bool, string) {
	return containsAny(strings.ToLower(subject+" "+body), transactionalKeywords)
}

// IsAccountNotification recognizes account and security notices.
func IsAccountNotification(subject, body string) (bool, string) {
	return containsAny(strings.ToLower(subject+" "+body), accountKeywords)
}

// IsSubscriptionManagement recognizes subscription lifecycle mail.
func IsSubscriptionManagement(subject, body string) (bool, string) {
	return containsAny(strings.ToLower(subject+" "+body), subscriptionKeywords)
}

// IsCommunity recognizes forum, social and group notification mail.
func IsCommunity(subject, body string) (bool, string) {
	return containsAny(strings.ToLower(subject+" "+body), communityKeywords)
}
