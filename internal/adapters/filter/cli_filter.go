package filter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/classifier"
	"github.com/mikey/mailsift/internal/core"
)

// CLIFilter implements a command-line interface for one-shot classification
type CLIFilter struct {
	engine  *classifier.Classifier
	logger  *zap.Logger
	verbose bool
}

// NewCLIFilter creates a new CLI filter
func NewCLIFilter(engine *classifier.Classifier, logger *zap.Logger, verbose bool) (*CLIFilter, error) {
	return &CLIFilter{
		engine:  engine,
		logger:  logger,
		verbose: verbose,
	}, nil
}

// ProcessEmail classifies an email and displays the results
func (f *CLIFilter) ProcessEmail(ctx context.Context, email *core.InboundEmail) (*core.Verdict, error) {
	f.logger.Debug("Processing email", zap.String("sender", email.From))

	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.From)
	fmt.Printf("To: %s\n", email.To)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	if f.verbose {
		preview := email.Body
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nBody preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	startTime := time.Now()
	verdict := f.engine.Classify(ctx, email.From, email.Subject, email.Body)
	duration := time.Since(startTime)

	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Category: %s\n", verdict.Category)
	fmt.Printf("Action: %s\n", verdict.Action)
	fmt.Printf("Confidence: %.4f (%s)\n", verdict.Confidence, verdict.Level)
	fmt.Printf("Reasoning: %s\n", verdict.Reason())
	fmt.Printf("Processing time: %v\n", duration)

	if f.verbose {
		alternatives := f.engine.Alternatives(ctx, email.From, email.Subject, email.Body,
			3, []core.Category{verdict.Category})
		if len(alternatives) > 0 {
			fmt.Printf("\n=== Alternatives ===\n")
			for _, alt := range alternatives {
				fmt.Printf("%s (confidence %.2f, specificity %.2f)\n",
					alt.Category, alt.Confidence, alt.Specificity)
			}
		}
	}

	return verdict, nil
}

// Start is a no-op for the CLI filter
func (f *CLIFilter) Start() error {
	return nil
}

// Stop is a no-op for the CLI filter
func (f *CLIFilter) Stop() error {
	return nil
}
