// Package retry implements the generic exponential-backoff decorator
// (C5) wrapping every agent function call. It is a thin adapter over
// github.com/cenkalti/backoff/v5, which already implements exactly the
// double-delay-per-attempt-with-jitter policy this layer needs.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/madspark-dev/madspark/pkg/config"
	"github.com/madspark-dev/madspark/pkg/errs"
)

// Do runs fn, retrying on any error per cfg until MaxRetries is
// exhausted, then returns the last error. Validation errors
// (errs.ErrValidation, errs.ErrSchemaValidation) are never retried —
// fn should wrap those in backoff.Permanent itself, or Do does it for
// any error it recognizes as a caller-input validation failure, so the
// agent call fails immediately without invoking the provider again.
func Do[T any](ctx context.Context, cfg config.RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialDelay
	bo.Multiplier = 2
	if !cfg.Jitter {
		bo.RandomizationFactor = 0
	}

	wrapped := func() (T, error) {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		if isNonRetryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	return backoff.Retry(ctx, wrapped,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(cfg.MaxRetries+1)),
	)
}

// isNonRetryable reports whether err is a caller-input validation
// failure that must fail immediately rather than be retried.
func isNonRetryable(err error) bool {
	return errors.Is(err, errs.ErrValidation) || errors.Is(err, errs.ErrSchemaValidation)
}

// RetryTimeout bounds a single call attempt; used by callers that want
// a per-attempt deadline distinct from the overall retry budget.
func RetryTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d)
}
