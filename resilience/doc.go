// Package resilience provides the failure-protection primitives for agent
// execution: a circuit breaker, retry with backoff, a timeout race, and a
// concurrency limiter.
//
// # Circuit Breaker
//
// The breaker is record-style: the orchestrator asks whether calls are
// permitted and reports one outcome per logical execution.
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 3,
//	    SuccessThreshold: 2,
//	    Timeout:          time.Second,
//	})
//
//	if cb.IsOpen() {
//	    // fail fast
//	}
//	err := call()
//	if err != nil {
//	    cb.RecordFailure()
//	} else {
//	    cb.RecordSuccess()
//	}
//
// The open state expires lazily: the first state read at or after the
// scheduled deadline advances the breaker to half-open. All state is
// guarded by a single mutex, so the read-then-advance is atomic with
// respect to concurrent outcome recording.
//
// # Retry
//
// RunWithRetry drives an operation until success, a non-retryable error
// (classified by agenterr), or exhaustion. Delays grow exponentially with
// uniform jitter and are capped:
//
//	err := resilience.RunWithRetry(ctx, op, resilience.RetryConfig{
//	    MaxRetries: 3,
//	    BaseDelay:  100 * time.Millisecond,
//	    MaxDelay:   5 * time.Second,
//	    Factor:     2.0,
//	}, nil)
//
// # Timeout
//
// RunWithTimeout races an operation against a deadline. The losing
// operation is abandoned, not cancelled; a late result is discarded.
//
// # Limiter
//
// Limiter bounds concurrent executions with a weighted semaphore.
package resilience
