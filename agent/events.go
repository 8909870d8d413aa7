package agent

import (
	"time"

	"github.com/jonwraymond/agentcore/resilience"
)

// EventType tags an execution lifecycle event.
type EventType string

const (
	// EventStarted fires when the breaker permits an execution.
	EventStarted EventType = "started"
	// EventRetry fires before each backoff wait.
	EventRetry EventType = "retry"
	// EventCompleted fires on a successful terminal outcome.
	EventCompleted EventType = "completed"
	// EventFailed fires on a failed terminal outcome, including
	// circuit-open rejections.
	EventFailed EventType = "failed"
	// EventTimeout fires when the deadline wins the race.
	EventTimeout EventType = "timeout"
	// EventCircuitState fires on circuit breaker state transitions.
	EventCircuitState EventType = "circuit_state"
)

// Event is one lifecycle notification.
type Event struct {
	Type        EventType
	ExecutionID string
	Attempt     int
	Err         error
	From, To    resilience.State // circuit_state events only
	Time        time.Time
}

// Listener receives lifecycle events. Publication is synchronous and in
// order; listeners must return quickly and must not call back into the
// orchestrator.
type Listener interface {
	OnEvent(e Event)
}

// ListenerFunc adapts an ordinary function to the Listener interface.
type ListenerFunc func(e Event)

// OnEvent calls f.
func (f ListenerFunc) OnEvent(e Event) { f(e) }

func (o *Orchestrator) publish(e Event) {
	e.Time = time.Now()

	o.mu.Lock()
	listeners := make([]Listener, len(o.listeners))
	copy(listeners, o.listeners)
	o.mu.Unlock()

	for _, l := range listeners {
		l.OnEvent(e)
	}
}

// Subscribe registers a lifecycle event listener.
func (o *Orchestrator) Subscribe(l Listener) {
	if l == nil {
		return
	}
	o.mu.Lock()
	o.listeners = append(o.listeners, l)
	o.mu.Unlock()
}
