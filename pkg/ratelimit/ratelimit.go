package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter spaces operations at least one interval apart, with optional
// random jitter so request timing does not form a detectable clock.
// It is safe for concurrent use by multiple goroutines; concurrent
// callers are granted slots in arrival order.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	jitter   float64 // 0.0 to 1.0
	next     time.Time
}

// NewLimiter creates a limiter allowing rps requests per second with a
// jitter factor between 0.0 and 1.0 (fraction of the interval added or
// removed at random per slot). If rps <= 0 the limiter never blocks.
func NewLimiter(rps float64, jitter float64) *Limiter {
	if rps <= 0 {
		return &Limiter{}
	}

	if jitter < 0 {
		jitter = 0
	} else if jitter > 1 {
		jitter = 1
	}

	return &Limiter{
		interval: time.Duration(float64(time.Second) / rps),
		jitter:   jitter,
	}
}

// Wait blocks until the caller's slot arrives, or until the context is
// canceled. The first call returns immediately.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.interval == 0 {
		return nil
	}

	l.mu.Lock()
	now := time.Now()
	turn := l.next
	if turn.Before(now) {
		turn = now
	}
	l.next = turn.Add(l.step())
	l.mu.Unlock()

	sleep := time.Until(turn)
	if sleep <= 0 {
		return nil
	}

	timer := time.NewTimer(sleep)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// step returns one jittered interval. With jitter j the result is
// uniform in [interval*(1-j), interval*(1+j)], never below zero.
func (l *Limiter) step() time.Duration {
	if l.jitter == 0 {
		return l.interval
	}
	factor := 1 + l.jitter*((rand.Float64()*2)-1)
	d := time.Duration(float64(l.interval) * factor)
	if d < 0 {
		d = 0
	}
	return d
}
