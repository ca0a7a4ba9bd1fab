package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Schedule defaults applied when no options are given.
const (
	defaultMaxRetries   = 5
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultMultiplier   = 2.0
)

// policy is a backoff schedule. Build one with newPolicy, the zero value
// never waits.
type policy struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
	multiplier   float64
}

// Option adjusts the backoff schedule.
type Option func(*policy)

// WithMaxRetries sets how many times a failed operation is re-run after
// its first attempt. Zero disables retrying, negative values count as
// zero.
func WithMaxRetries(n int) Option {
	return func(p *policy) {
		p.maxRetries = n
	}
}

// WithInitialDelay sets the wait before the first retry.
func WithInitialDelay(d time.Duration) Option {
	return func(p *policy) {
		p.initialDelay = d
	}
}

// WithMaxDelay caps the wait between retries.
func WithMaxDelay(d time.Duration) Option {
	return func(p *policy) {
		p.maxDelay = d
	}
}

// WithMultiplier sets the growth factor between consecutive delays.
func WithMultiplier(m float64) Option {
	return func(p *policy) {
		p.multiplier = m
	}
}

func newPolicy(opts []Option) policy {
	p := policy{
		maxRetries:   defaultMaxRetries,
		initialDelay: defaultInitialDelay,
		maxDelay:     defaultMaxDelay,
		multiplier:   defaultMultiplier,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.maxRetries < 0 {
		p.maxRetries = 0
	}
	return p
}

// delay returns the wait before retry number n, counted from zero.
func (p policy) delay(n int) time.Duration {
	d := float64(p.initialDelay) * math.Pow(p.multiplier, float64(n))
	if d > float64(p.maxDelay) {
		return p.maxDelay
	}
	return time.Duration(d)
}

// WithExponentialBackoff runs op until it succeeds, the retry budget is
// spent, or ctx is cancelled. Waits between attempts grow exponentially
// from the initial delay up to the cap. Errors marked with [Fatal] end
// the loop at once. A cancelled ctx is honored both before an attempt
// and while waiting for the next one.
func WithExponentialBackoff(ctx context.Context, op func() error, opts ...Option) error {
	p := newPolicy(opts)

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		err := op()
		if err == nil {
			return nil
		}
		if IsFatal(err) {
			return err
		}
		if attempt == p.maxRetries {
			return fmt.Errorf("gave up after %d attempts: %w", attempt+1, err)
		}

		if werr := wait(ctx, p.delay(attempt)); werr != nil {
			return fmt.Errorf("gave up after %d attempts: %w", attempt+1, werr)
		}
	}
}

// wait blocks for d or until ctx is cancelled, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
