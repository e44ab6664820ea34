package ports

import (
	"context"

	"github.com/mikey/mailsift/internal/core"
)

// EmailFilter defines the interface for an email filtering surface
type EmailFilter interface {
	// ProcessEmail classifies an email and returns the verdict
	ProcessEmail(ctx context.Context, email *core.InboundEmail) (*core.Verdict, error)

	// Start starts the email filter service
	Start() error

	// Stop stops the email filter service
	Stop() error
}
