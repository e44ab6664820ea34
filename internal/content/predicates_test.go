package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCarveOutPredicates(t *testing.T) {
	tests := []struct {
		name    string
		fn      func(subject, body string) (bool, string)
		subject string
		body    string
		want    bool
		keyword string
	}{
		{"order shipped", IsTransactional, "Your order has shipped", "tracking number enclosed", true, "your order"},
		{"boarding pass", IsTransactional, "Trip to Denver", "your boarding pass is attached", true, "boarding pass"},
		{"password reset", IsAccountNotification, "Password reset requested", "", true, "password reset"},
		{"statement ready", IsAccountNotification, "", "your statement is ready to view", true, "your statement is ready"},
		{"unsubscribed", IsSubscriptionManagement, "You have been unsubscribed", "", true, "you have been unsubscribed"},
		{"mention", IsCommunity, "Alex mentioned you", "in the weekend thread", true, "mentioned you"},
		{"plain marketing", IsTransactional, "Huge savings inside", "act now for the best price", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, kw := tt.fn(tt.subject, tt.body)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.keyword, kw)
		})
	}
}

func TestCarveOutNearMisses(t *testing.T) {
	// Brand-bait phrasing must not slip through the transactional carve-out.
	ok, _ := IsTransactional("Your Amazon order", "verify your amazon order immediately")
	assert.False(t, ok)
}
