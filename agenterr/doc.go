// Package agenterr provides the classified error taxonomy for agent
// execution.
//
// Every failure raised inside an execution attempt carries a stable
// machine-readable code, a human message, a retryable flag, and a
// structured metadata bag. Kinds are distinguished by code only; callers
// must never depend on concrete error types beyond *Error itself.
//
// # Classification
//
// The retry loop and the orchestrator consult only the Retryable flag:
//
//	if agenterr.Retryable(err) {
//	    // eligible for automatic re-attempt
//	}
//
// Errors not created by this package classify as retryable, since nothing
// has marked them permanent. Use errors.Is with a code-matching target to
// test for a kind:
//
//	if errors.Is(err, agenterr.New(agenterr.CodeCircuitOpen, "", false)) {
//	    // rejected by the circuit breaker
//	}
package agenterr
