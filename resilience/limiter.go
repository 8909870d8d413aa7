package resilience

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// LimiterConfig configures the concurrency limiter.
type LimiterConfig struct {
	// MaxConcurrent is the maximum number of concurrent executions.
	// Default: 10
	MaxConcurrent int64

	// MaxWait is the maximum time to wait for a slot.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Limiter bounds the number of concurrent executions.
type Limiter struct {
	config LimiterConfig
	sem    *semaphore.Weighted

	mu       sync.Mutex
	rejected int64
}

// NewLimiter creates a new concurrency limiter.
func NewLimiter(config LimiterConfig) *Limiter {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Limiter{
		config: config,
		sem:    semaphore.NewWeighted(config.MaxConcurrent),
	}
}

// Acquire claims a slot, waiting up to MaxWait when configured. Returns
// ErrLimitReached when no slot becomes available.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l.sem.TryAcquire(1) {
		return nil
	}

	if l.config.MaxWait <= 0 {
		l.countRejected()
		return ErrLimitReached
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.config.MaxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.countRejected()
		return ErrLimitReached
	}
	return nil
}

// Release returns a previously acquired slot.
func (l *Limiter) Release() {
	l.sem.Release(1)
}

// Rejected returns the number of rejected acquisitions.
func (l *Limiter) Rejected() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rejected
}

func (l *Limiter) countRejected() {
	l.mu.Lock()
	l.rejected++
	l.mu.Unlock()
}
