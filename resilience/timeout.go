package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/agentcore/agenterr"
)

// RunWithTimeout races op against a deadline. If the timer wins, the
// in-flight operation is abandoned, not cancelled: it observes ctx
// cancellation at best, may still run to completion in the background,
// and its eventual result is discarded.
func RunWithTimeout(ctx context.Context, operation string, d time.Duration, op func(context.Context) error) error {
	_, err := RunWithTimeoutResult(ctx, operation, d, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// RunWithTimeoutResult is RunWithTimeout for operations that produce a
// value. On deadline it returns a retryable agenterr timeout naming the
// operation.
func RunWithTimeoutResult[T any](ctx context.Context, operation string, d time.Duration, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}

	// Buffered so the late loser never blocks on send.
	done := make(chan outcome, 1)

	go func() {
		v, err := op(ctx)
		done <- outcome{v: v, err: err}
	}()

	select {
	case out := <-done:
		// An op that propagates ctx.Err() can win the race against
		// the deadline branch; classify it the same way.
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			var zero T
			return zero, agenterr.NewTimeout(operation, d)
		}
		return out.v, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, agenterr.NewTimeout(operation, d)
		}
		return zero, ctx.Err()
	}
}
