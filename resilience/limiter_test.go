package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLimiter_Defaults(t *testing.T) {
	l := NewLimiter(LimiterConfig{})
	if l.config.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent = %d, want 10", l.config.MaxConcurrent)
	}
}

func TestLimiter_RejectsWhenFull(t *testing.T) {
	l := NewLimiter(LimiterConfig{MaxConcurrent: 2})

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}

	if err := l.Acquire(ctx); !errors.Is(err, ErrLimitReached) {
		t.Errorf("third Acquire() error = %v, want ErrLimitReached", err)
	}
	if l.Rejected() != 1 {
		t.Errorf("Rejected() = %d, want 1", l.Rejected())
	}

	l.Release()
	if err := l.Acquire(ctx); err != nil {
		t.Errorf("Acquire() after Release() error = %v", err)
	}
}

func TestLimiter_WaitsForSlot(t *testing.T) {
	l := NewLimiter(LimiterConfig{MaxConcurrent: 1, MaxWait: time.Second})

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		l.Release()
	}()

	if err := l.Acquire(ctx); err != nil {
		t.Errorf("waiting Acquire() error = %v", err)
	}
}

func TestLimiter_WaitTimesOut(t *testing.T) {
	l := NewLimiter(LimiterConfig{MaxConcurrent: 1, MaxWait: 20 * time.Millisecond})

	ctx := context.Background()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if err := l.Acquire(ctx); !errors.Is(err, ErrLimitReached) {
		t.Errorf("Acquire() error = %v, want ErrLimitReached", err)
	}
}

func TestLimiter_ConcurrencyBound(t *testing.T) {
	l := NewLimiter(LimiterConfig{MaxConcurrent: 3, MaxWait: time.Second})

	var mu sync.Mutex
	active, maxActive := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				return
			}
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			l.Release()
		}()
	}
	wg.Wait()

	if maxActive > 3 {
		t.Errorf("max concurrent = %d, want <= 3", maxActive)
	}
}
