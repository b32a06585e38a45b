package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/loykin/esrun/internal/common"
	"github.com/loykin/esrun/internal/constants"
)

// Policy holds the retry settings for remote calls: a fixed attempt budget
// and a constant delay between attempts. No jitter, no backoff growth, and
// no distinction between error kinds; after the last attempt the last error
// propagates unchanged.
type Policy struct {
	MaxAttempts int           // Total attempt budget (not retries)
	Delay       time.Duration // Fixed delay between attempts
}

// DefaultPolicy returns the default retry policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: constants.DefaultMaxAttempts,
		Delay:       constants.DefaultRetryDelay,
	}
}

// Do executes op, retrying on any error until the attempt budget is spent.
// The wait between attempts respects context cancellation.
func (p Policy) Do(ctx context.Context, name string, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	logger := common.GetLogger().WithComponent("retry")

	var b backoff.BackOff = backoff.NewConstantBackOff(p.Delay)
	b = backoff.WithMaxRetries(b, uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	notify := func(err error, wait time.Duration) {
		logger.Warn("operation failed, retrying",
			"operation", name,
			"error", err,
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_delay", wait)
	}

	err := backoff.RetryNotify(func() error {
		attempt++
		return op()
	}, b, notify)
	if err != nil {
		logger.Error("operation failed after all attempts",
			"operation", name,
			"error", err,
			"attempts", attempt)
	}
	return err
}
