package metrics

import (
	"testing"
	"time"
)

func BenchmarkCollector_Record(b *testing.B) {
	c := NewCollector(map[string]string{"service": "bench"})
	o := Outcome{Success: true, Duration: 100 * time.Millisecond, TotalTokens: 50}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Record(o)
	}
}

func BenchmarkCollector_RecordParallel(b *testing.B) {
	c := NewCollector(nil)
	o := Outcome{Success: true, Duration: time.Millisecond}

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Record(o)
		}
	})
}

func BenchmarkSnapshot_PrometheusText(b *testing.B) {
	c := NewCollector(map[string]string{"service": "bench", "env": "prod"})
	c.Record(Outcome{Success: true, Duration: 120 * time.Millisecond, TotalTokens: 42, Cost: 0.0003})
	s := c.Snapshot()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.PrometheusText()
	}
}
