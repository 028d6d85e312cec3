// Package retry holds the bounded retry policy used around login and API
// requests: a fixed delay between attempts, stopping at an attempt count or
// an elapsed-time budget, whichever comes first.
package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go"
)

const (
	DefaultMaxAttempts = 20
	DefaultMaxElapsed  = 30 * time.Second
	DefaultDelay       = 60 * time.Second
)

// Policy describes how a failing operation is re-invoked.
type Policy struct {
	// MaxAttempts caps the number of calls. Values below 1 mean a single call.
	MaxAttempts uint
	// MaxElapsed stops retrying once this much time has passed since the
	// first call started. Zero disables the budget.
	MaxElapsed time.Duration
	// Delay is the fixed wait between attempts.
	Delay time.Duration
	// Now is the clock used for the elapsed budget. Nil means time.Now.
	Now func() time.Time
}

// Default returns the policy applied when none is configured.
func Default() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		MaxElapsed:  DefaultMaxElapsed,
		Delay:       DefaultDelay,
	}
}

// Once returns a policy that never retries.
func Once() Policy {
	return Policy{MaxAttempts: 1}
}

// OnRetry is told about every failed attempt that will be followed by another.
type OnRetry func(attempt uint, err error)

// Do calls fn until it succeeds or the policy gives up, and returns the last
// error. Once ctx is done no further attempt is made; any other error,
// including a timeout of the attempt itself, is retried.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error, onRetry OnRetry) error {
	now := p.Now
	if now == nil {
		now = time.Now
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	start := now()
	var n uint

	return retrygo.Do(
		func() error {
			n++
			return fn(ctx)
		},
		retrygo.Context(ctx),
		retrygo.Attempts(attempts),
		retrygo.Delay(p.Delay),
		retrygo.DelayType(retrygo.FixedDelay),
		retrygo.LastErrorOnly(true),
		retrygo.RetryIf(func(err error) bool {
			// A per-request timeout also matches context.DeadlineExceeded,
			// so only the caller's context decides.
			if ctx.Err() != nil {
				return false
			}
			if n >= attempts {
				return false
			}
			return p.MaxElapsed <= 0 || now().Sub(start) < p.MaxElapsed
		}),
		retrygo.OnRetry(func(_ uint, err error) {
			if onRetry != nil {
				onRetry(n, err)
			}
		}),
	)
}
