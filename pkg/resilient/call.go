// Package resilient wraps an upstream call with a per-attempt timeout and bounded
// retries with exponential backoff.
package resilient

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures one kind of upstream call.
type Policy struct {
	// Timeout bounds every single attempt.
	Timeout time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// BaseDelay is the wait before the first retry; it grows by Multiplier.
	BaseDelay  time.Duration
	Multiplier float64
	// MaxDelay caps the wait between attempts. Zero means no cap.
	MaxDelay time.Duration
}

// DefaultPolicy is one retry after 500ms, doubling afterwards.
func DefaultPolicy(timeout time.Duration) Policy {
	return Policy{
		Timeout:    timeout,
		MaxRetries: 1,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 2,
		MaxDelay:   10 * time.Second,
	}
}

// NotifyFunc is called after a failed attempt that will be retried after wait.
type NotifyFunc func(attempt int, err error, wait time.Duration)

// Permanent marks err as not worth retrying. Call returns the unwrapped err.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Call runs op until it succeeds, returns a Permanent error, the retries are used
// up or ctx is done. op receives a context that expires after Policy.Timeout and
// must honour it.
func Call(ctx context.Context, p Policy, op func(ctx context.Context, attempt int) error, notify NotifyFunc) error {
	attempt := 0
	operation := func() error {
		attempt++

		attemptCtx := ctx
		if p.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
			defer cancel()
		}

		err := op(attemptCtx, attempt)
		if err != nil && ctx.Err() != nil {
			// the caller gave up, retrying is pointless
			return backoff.Permanent(err)
		}
		return err
	}

	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, wait time.Duration) {
			notify(attempt, err, wait)
		}
	}

	return backoff.RetryNotify(operation, p.backOff(ctx), onRetry)
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.BaseDelay
	exp.RandomizationFactor = 0
	exp.Multiplier = p.Multiplier
	if exp.Multiplier < 1 {
		exp.Multiplier = 1
	}
	exp.MaxInterval = p.MaxDelay
	if exp.MaxInterval <= 0 {
		exp.MaxInterval = time.Duration(1<<63 - 1)
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}
