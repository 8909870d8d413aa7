// Package agent orchestrates resilient agent task executions.
//
// The Orchestrator drives each task through a circuit breaker, a retry
// policy with exponential backoff, and a hard timeout, and records the
// outcome in a metrics collector. Callers receive a fully populated
// ExecutionResult on every path; failures are reported as terminal
// statuses, never raised.
//
// # Usage
//
// Wire a backend behind the Invoker interface and execute:
//
//	orc, err := agent.New(agent.DefaultConfig(), invoker)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := orc.Execute(ctx, agent.ExecutionRequest{Task: "summarize the report"})
//	if result.Status != agent.StatusCompleted {
//	    log.Printf("execution %s: %s (%s)", result.ID, result.Status, result.Error)
//	}
//
// Incremental consumption uses the pull-based Stream:
//
//	s := orc.Stream(ctx, req)
//	for chunk, ok := s.Next(); ok; chunk, ok = s.Next() {
//	    fmt.Print(chunk.Content)
//	}
//
// Health and Metrics expose the orchestrator's operational state for
// probes and scrapes.
package agent
