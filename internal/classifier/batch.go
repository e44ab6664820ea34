package classifier

import (
	"context"

	"github.com/mikey/mailsift/internal/core"
)

// Email is one input to the batch runner.
type Email struct {
	Sender  string
	Subject string
	Body    string
}

// ClassifyAll classifies a batch with bounded concurrency and returns verdicts
// in input order. Concurrent calls are safe because per-call state is local
// and the registries are read-only snapshots.
func (c *Classifier) ClassifyAll(ctx context.Context, emails []Email, concurrency int) []*core.Verdict {
	if concurrency < 1 {
		concurrency = 1
	}
	semaphore := make(chan bool, concurrency)
	verdicts := make([]*core.Verdict, len(emails))
	for i := 0; i < len(emails); i++ {
		semaphore <- true
		go func(index int) {
			e := emails[index]
			verdicts[index] = c.Classify(ctx, e.Sender, e.Subject, e.Body)
			<-semaphore
		}(i)
	}

	// Drain the semaphore to wait for all in-flight classifications.
	for i := 0; i < concurrency; i++ {
		semaphore <- true
	}

	return verdicts
}
