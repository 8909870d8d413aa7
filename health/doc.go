// Package health provides health checking primitives for the agent
// execution core.
//
// A Checker is any component that can report its health status: Healthy,
// Degraded, or Unhealthy. An Aggregator fans registered checks out
// concurrently and rolls their results up to the worst observed status.
//
//	agg := health.NewAggregator(health.AggregatorConfig{})
//	agg.Register("circuit_breaker", breakerChecker)
//	agg.Register("metrics", metricsChecker)
//
//	results := agg.CheckAll(ctx)
//	overall := agg.OverallStatus(results)
//
// Checks report status values rather than raising: a failing dependency
// yields an unhealthy result, never an error from CheckAll.
package health
