package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy bounds retries of one external call.
type RetryPolicy struct {
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// AttemptTimeout caps every single attempt. Zero means no cap.
	AttemptTimeout time.Duration
}

// DefaultRetryPolicy returns a policy with the given attempt count and timeout.
func DefaultRetryPolicy(maxTries uint, attemptTimeout time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxTries:        maxTries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		AttemptTimeout:  attemptTimeout,
	}
}

// Retry runs op with exponential backoff. 4xx responses stop retrying at once.
func Retry[T any](ctx context.Context, policy RetryPolicy, name string, logger *slog.Logger, op func(ctx context.Context) (T, error)) (T, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tries := policy.MaxTries
	if tries == 0 {
		tries = 1
	}

	eb := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		eb.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		eb.MaxInterval = policy.MaxInterval
	}

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		actx, cancel := attemptContext(ctx, policy.AttemptTimeout)
		defer cancel()

		res, err := op(actx)
		if err == nil {
			return res, nil
		}
		var se *StatusError
		if errors.As(err, &se) && se.Permanent() {
			return res, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return res, backoff.Permanent(err)
		}
		return res, err
	},
		backoff.WithBackOff(eb),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn(name+".retry", "attempt", attempt, "next_in_ms", next.Milliseconds(), "error", err)
		}),
	)
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
