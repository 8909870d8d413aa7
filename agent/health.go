package agent

import (
	"context"
	"time"

	"github.com/jonwraymond/agentcore/health"
	"github.com/jonwraymond/agentcore/resilience"
)

// Check is one named health probe outcome.
type Check struct {
	Status  health.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Report is the aggregated health of an orchestrator. Status is the
// worst status across all checks.
type Report struct {
	Status  health.Status    `json:"status"`
	Version string           `json:"version"`
	Uptime  time.Duration    `json:"uptime"`
	Checks  map[string]Check `json:"checks"`
}

// registerHealthChecks wires the orchestrator's probes into its
// aggregator. Called once from New.
func (o *Orchestrator) registerHealthChecks() {
	o.checks.Register("initialized", health.NewCheckerFunc("initialized", func(ctx context.Context) health.Result {
		if o.initialized {
			return health.Healthy("")
		}
		return health.Unhealthy("orchestrator is not initialized", nil)
	}))

	o.checks.Register("circuit_breaker", health.NewCheckerFunc("circuit_breaker", func(ctx context.Context) health.Result {
		if o.breaker == nil {
			return health.Healthy("disabled")
		}
		switch o.breaker.State() {
		case resilience.StateOpen:
			return health.Unhealthy("circuit open, executions rejected", nil).WithDetails(map[string]any{
				"next_attempt": o.breaker.NextAttempt(),
			})
		case resilience.StateHalfOpen:
			return health.Degraded("circuit half-open, probing")
		default:
			return health.Healthy("")
		}
	}))

	o.checks.Register("metrics", health.NewCheckerFunc("metrics", func(ctx context.Context) health.Result {
		if o.collector == nil {
			return health.Healthy("disabled")
		}
		return health.Healthy("collecting")
	}))
}

// Health reports the orchestrator's operational state. An open circuit
// marks the orchestrator unhealthy; a probing (half-open) circuit marks
// it degraded. Disabled components report healthy.
func (o *Orchestrator) Health(ctx context.Context) Report {
	results := o.checks.CheckAll(ctx)

	checks := make(map[string]Check, len(results))
	for name, r := range results {
		checks[name] = Check{Status: r.Status, Message: r.Message}
	}

	return Report{
		Status:  o.checks.OverallStatus(results),
		Version: Version,
		Uptime:  time.Since(o.startTime),
		Checks:  checks,
	}
}
