package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all calls.
	StateOpen
	// StateHalfOpen means the circuit is probing for recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit from closed.
	// Default: 5
	FailureThreshold int

	// SuccessThreshold is the number of consecutive successes in
	// half-open required to close the circuit.
	// Default: 1
	SuccessThreshold int

	// Timeout is how long the circuit stays open before allowing probes.
	// Default: 30 seconds
	Timeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// CircuitBreaker is a three-state failure-protection machine. A single
// instance is shared by all executions of an orchestrator; outcomes are
// reported through RecordSuccess and RecordFailure rather than by wrapping
// the call.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
	nextAttempt time.Time
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// RecordSuccess reports a successful call. It clears the consecutive
// failure counter, and while half-open counts toward closing the circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0

	// stateLocked so an outcome arriving after the open deadline is
	// bookkept against half-open, same as any reader would observe.
	if cb.stateLocked() == StateHalfOpen {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.successes = 0
			cb.transitionLocked(StateClosed)
		}
	}
}

// RecordFailure reports a failed call. While closed, reaching the failure
// threshold opens the circuit. While half-open, a single failure reopens
// it immediately regardless of the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailure = time.Now()
	cb.failures++

	switch cb.stateLocked() {
	case StateHalfOpen:
		cb.successes = 0
		cb.openLocked()
	case StateClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.openLocked()
		}
	}
}

// IsOpen reports whether calls must be rejected. Half-open permits probes
// and therefore reports false.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked() == StateOpen
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

// NextAttempt returns the deadline after which an open circuit admits
// probes. Zero while not open.
func (cb *CircuitBreaker) NextAttempt() time.Time {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.nextAttempt
}

// Reset force-returns the circuit to closed with all counters cleared.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.successes = 0
	cb.lastFailure = time.Time{}
	cb.nextAttempt = time.Time{}
	cb.transitionLocked(StateClosed)
}

// Snapshot contains a point-in-time view of the breaker.
type Snapshot struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	LastFailure          time.Time
	NextAttempt          time.Time
}

// Snapshot returns the current breaker statistics. The consecutive
// success count is meaningful only while half-open.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Snapshot{
		State:                cb.stateLocked(),
		ConsecutiveFailures:  cb.failures,
		ConsecutiveSuccesses: cb.successes,
		LastFailure:          cb.lastFailure,
		NextAttempt:          cb.nextAttempt,
	}
}

// stateLocked advances open to half-open once the scheduled deadline has
// passed. This lazy check is the only driver of that edge; there is no
// background timer. Callers must hold cb.mu.
func (cb *CircuitBreaker) stateLocked() State {
	if cb.state == StateOpen && !time.Now().Before(cb.nextAttempt) {
		cb.successes = 0
		cb.nextAttempt = time.Time{}
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

// openLocked moves to open and schedules the probe deadline.
func (cb *CircuitBreaker) openLocked() {
	cb.nextAttempt = time.Now().Add(cb.config.Timeout)
	cb.transitionLocked(StateOpen)
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	cb.state = to
	if from != to && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}
