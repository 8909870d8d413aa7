package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrLimitReached is returned when the concurrency limit is reached.
	ErrLimitReached = errors.New("resilience: concurrency limit reached")
)
