package gateway

import (
	"context"
	"math/rand"
	"time"
)

// Retry budget defaults. Kept small so a dead upstream adds at most a few
// hundred milliseconds before the stale fallback kicks in.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 200 * time.Millisecond
	DefaultMaxJitter  = 100 * time.Millisecond
)

// Retryer wraps a single upstream call with bounded retries and
// exponential backoff plus jitter. Only transient failures (network,
// timeout, 429, 5xx) are retried; everything else returns immediately.
type Retryer struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxJitter  time.Duration

	sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryer returns a Retryer with the default budget.
func NewRetryer() Retryer {
	return Retryer{
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		MaxJitter:  DefaultMaxJitter,
	}
}

// SetSleepForTest replaces the backoff sleep so tests run instantly.
func (r *Retryer) SetSleepForTest(sleep func(d time.Duration)) {
	r.sleep = func(_ context.Context, d time.Duration) error {
		sleep(d)
		return nil
	}
}

// Do runs op, retrying transient failures until the budget is spent.
// The last failure is returned once retries are exhausted. Cancelling
// ctx cuts a backoff wait short.
func (r Retryer) Do(ctx context.Context, op func(ctx context.Context) error) error {
	sleep := r.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	delay := r.BaseDelay

	var err error
	for attempt := 0; ; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if !Retryable(err) || attempt >= r.MaxRetries {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		jitter := time.Duration(0)
		if r.MaxJitter > 0 {
			jitter = time.Duration(rand.Int63n(int64(r.MaxJitter)))
		}
		if sleep(ctx, delay+jitter) != nil {
			return err
		}
		delay *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
