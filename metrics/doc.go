// Package metrics accumulates agent execution outcomes and exports them
// as numeric snapshots and Prometheus exposition text.
//
// A Collector belongs to one orchestrator instance and is updated once
// per finished execution. A timeout outcome counts as both a failure and
// a timeout. Derived metrics never divide by zero: an empty collector
// reports a 0 success rate and a 0 average duration.
//
//	c := metrics.NewCollector(map[string]string{"service": "agent-api"})
//	c.Record(metrics.Outcome{Success: true, Duration: 120 * time.Millisecond})
//	fmt.Print(c.PrometheusText())
//
// A Registry rolls up multiple named collectors into a combined numeric
// aggregate and a concatenated per-instance text export.
package metrics
