package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Outcome is one finished execution as seen by the collector. A timeout
// counts as both a failure and a timeout.
type Outcome struct {
	Success          bool
	Timeout          bool
	Duration         time.Duration
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cost             float64
}

// Collector accumulates execution outcomes for one orchestrator instance.
// All methods are safe for concurrent use.
type Collector struct {
	labels map[string]string

	mu               sync.Mutex
	executions       int64
	successes        int64
	failures         int64
	timeouts         int64
	totalDuration    time.Duration
	promptTokens     int64
	completionTokens int64
	totalTokens      int64
	totalCost        float64
}

// NewCollector creates a collector with an optional static label set
// attached to every exported metric.
func NewCollector(labels map[string]string) *Collector {
	copied := make(map[string]string, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	return &Collector{labels: copied}
}

// Record accumulates one execution outcome.
func (c *Collector) Record(o Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.executions++
	if o.Success {
		c.successes++
	} else {
		c.failures++
		if o.Timeout {
			c.timeouts++
		}
	}

	c.totalDuration += o.Duration
	c.promptTokens += int64(o.PromptTokens)
	c.completionTokens += int64(o.CompletionTokens)
	c.totalTokens += int64(o.TotalTokens)
	c.totalCost += o.Cost
}

// Reset clears all counters. Labels are retained.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.executions = 0
	c.successes = 0
	c.failures = 0
	c.timeouts = 0
	c.totalDuration = 0
	c.promptTokens = 0
	c.completionTokens = 0
	c.totalTokens = 0
	c.totalCost = 0
}

// Snapshot contains aggregate execution metrics. Derived values guard
// against empty collectors: rate and average are 0 with no executions.
type Snapshot struct {
	Executions       int64
	Successes        int64
	Failures         int64
	Timeouts         int64
	SuccessRate      float64
	AverageDuration  time.Duration
	TotalDuration    time.Duration
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	TotalCost        float64
	Labels           map[string]string
}

// Snapshot returns the current aggregate metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Collector) snapshotLocked() Snapshot {
	labels := make(map[string]string, len(c.labels))
	for k, v := range c.labels {
		labels[k] = v
	}

	s := Snapshot{
		Executions:       c.executions,
		Successes:        c.successes,
		Failures:         c.failures,
		Timeouts:         c.timeouts,
		TotalDuration:    c.totalDuration,
		PromptTokens:     c.promptTokens,
		CompletionTokens: c.completionTokens,
		TotalTokens:      c.totalTokens,
		TotalCost:        c.totalCost,
		Labels:           labels,
	}
	if c.executions > 0 {
		s.SuccessRate = float64(c.successes) / float64(c.executions) * 100
		s.AverageDuration = c.totalDuration / time.Duration(c.executions)
	}
	return s
}

// PrometheusText renders the snapshot in Prometheus exposition format
// with the fixed agent metric names.
func (c *Collector) PrometheusText() string {
	return c.Snapshot().PrometheusText()
}

// PrometheusText renders the snapshot in Prometheus exposition format.
func (s Snapshot) PrometheusText() string {
	var b strings.Builder

	b.WriteString("# HELP agent_executions_total Total number of agent executions by status\n")
	b.WriteString("# TYPE agent_executions_total counter\n")
	for _, row := range []struct {
		status string
		value  int64
	}{
		{"total", s.Executions},
		{"success", s.Successes},
		{"failure", s.Failures},
		{"timeout", s.Timeouts},
	} {
		fmt.Fprintf(&b, "agent_executions_total%s %d\n", labelBlock(s.Labels, row.status), row.value)
	}

	b.WriteString("# HELP agent_success_rate Percentage of successful executions\n")
	b.WriteString("# TYPE agent_success_rate gauge\n")
	fmt.Fprintf(&b, "agent_success_rate%s %.2f\n", labelBlock(s.Labels, ""), s.SuccessRate)

	b.WriteString("# HELP agent_execution_duration_seconds Average execution duration in seconds\n")
	b.WriteString("# TYPE agent_execution_duration_seconds gauge\n")
	fmt.Fprintf(&b, "agent_execution_duration_seconds%s %.3f\n", labelBlock(s.Labels, ""), s.AverageDuration.Seconds())

	b.WriteString("# HELP agent_tokens_total Cumulative token usage\n")
	b.WriteString("# TYPE agent_tokens_total counter\n")
	fmt.Fprintf(&b, "agent_tokens_total%s %d\n", labelBlock(s.Labels, ""), s.TotalTokens)

	b.WriteString("# HELP agent_cost_total Cumulative cost in USD\n")
	b.WriteString("# TYPE agent_cost_total counter\n")
	fmt.Fprintf(&b, "agent_cost_total%s %.6f\n", labelBlock(s.Labels, ""), s.TotalCost)

	return b.String()
}

// labelBlock renders {k="v",...} with keys sorted, or "" when empty.
// A non-empty status is merged in as the status label.
func labelBlock(labels map[string]string, status string) string {
	merged := make(map[string]string, len(labels)+1)
	for k, v := range labels {
		merged[k] = v
	}
	if status != "" {
		merged["status"] = status
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%q", k, merged[k]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
