package metrics

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Registry tracks named collector instances and rolls them up into a
// combined numeric aggregate and a concatenated text export.
type Registry struct {
	mu         sync.RWMutex
	collectors map[string]*Collector
	order      []string // Maintains registration order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		collectors: make(map[string]*Collector),
		order:      make([]string, 0),
	}
}

// Register adds a collector under the given identifier, replacing any
// previous registration with the same identifier.
func (r *Registry) Register(id string, c *Collector) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.collectors[id]; !exists {
		r.order = append(r.order, id)
	}
	r.collectors[id] = c
}

// Unregister removes a collector from the registry.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collectors, id)

	for i, n := range r.order {
		if n == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the collector registered under id.
func (r *Registry) Get(id string) (*Collector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.collectors[id]
	return c, ok
}

// IDs returns the registered identifiers in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Aggregate sums counters across all registered collectors and
// recomputes the derived metrics over the combined totals.
func (r *Registry) Aggregate() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var agg Snapshot
	for _, id := range r.order {
		s := r.collectors[id].Snapshot()
		agg.Executions += s.Executions
		agg.Successes += s.Successes
		agg.Failures += s.Failures
		agg.Timeouts += s.Timeouts
		agg.TotalDuration += s.TotalDuration
		agg.PromptTokens += s.PromptTokens
		agg.CompletionTokens += s.CompletionTokens
		agg.TotalTokens += s.TotalTokens
		agg.TotalCost += s.TotalCost
	}
	if agg.Executions > 0 {
		agg.SuccessRate = float64(agg.Successes) / float64(agg.Executions) * 100
		agg.AverageDuration = agg.TotalDuration / time.Duration(agg.Executions)
	}
	return agg
}

// PrometheusText concatenates each registered collector's export, each
// block prefixed by its registration identifier.
func (r *Registry) PrometheusText() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	for _, id := range r.order {
		fmt.Fprintf(&b, "# collector: %s\n", id)
		b.WriteString(r.collectors[id].PrometheusText())
	}
	return b.String()
}
