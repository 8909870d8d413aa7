package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/agentcore/agenterr"
)

// RetryConfig configures backoff between attempts.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Negative values are treated as zero.
	MaxRetries int

	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration

	// MaxDelay caps every computed delay, jitter included. A BaseDelay
	// larger than MaxDelay is accepted; the cap still wins.
	MaxDelay time.Duration

	// Factor is the multiplicative backoff factor.
	// Values <= 0 are treated as 1.
	Factor float64
}

// DefaultRetryConfig returns the standard retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   30 * time.Second,
		Factor:     2.0,
	}
}

// RetryCallback observes a scheduled retry before the backoff wait.
// attempt is zero-based: 0 means the first attempt just failed.
type RetryCallback func(attempt int, err error, delay time.Duration)

// CalculateDelay computes the backoff delay for the given zero-based
// attempt: BaseDelay × Factor^attempt plus uniform jitter in
// [0, 0.1 × delay], clamped to MaxDelay.
func CalculateDelay(attempt int, config RetryConfig) time.Duration {
	factor := config.Factor
	if factor <= 0 {
		factor = 1
	}

	delay := float64(config.BaseDelay) * math.Pow(factor, float64(attempt))

	// Jitter avoids synchronized retry storms across callers.
	// #nosec G404 -- jitter is non-cryptographic timing variance.
	delay += rand.Float64() * 0.1 * delay

	if config.MaxDelay > 0 && delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	if delay < 0 {
		delay = 0
	}

	return time.Duration(delay)
}

// RunWithRetry executes op up to MaxRetries+1 times. A non-retryable
// failure aborts immediately; exhaustion surfaces the last error. The
// backoff wait is a cancellable timed wait on ctx.
func RunWithRetry(ctx context.Context, op func(context.Context) error, config RetryConfig, onRetry RetryCallback) error {
	_, err := RunWithRetryResult(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, config, onRetry)
	return err
}

// RunWithRetryResult is RunWithRetry for operations that produce a value.
func RunWithRetryResult[T any](ctx context.Context, op func(context.Context) (T, error), config RetryConfig, onRetry RetryCallback) (T, error) {
	var zero T

	retries := config.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}

		lastErr = err

		if !agenterr.Retryable(err) {
			return zero, err
		}
		if attempt == retries {
			break
		}

		delay := CalculateDelay(attempt, config)
		if onRetry != nil {
			onRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
