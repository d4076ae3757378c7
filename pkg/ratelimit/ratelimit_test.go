package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_NoBlockWhenZeroRPS(t *testing.T) {
	limiter := NewLimiter(0, 0.5)

	start := time.Now()
	err := limiter.Wait(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if time.Since(start) > 10*time.Millisecond {
		t.Errorf("limiter with 0 RPS should not block")
	}
}

func TestLimiter_FirstCallImmediate(t *testing.T) {
	limiter := NewLimiter(1, 0) // 1 second interval

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > 50*time.Millisecond {
		t.Errorf("first wait should not block, took %v", time.Since(start))
	}
}

func TestLimiter_Wait(t *testing.T) {
	rps := 10.0 // 100ms interval
	limiter := NewLimiter(rps, 0)

	ctx := context.Background()

	// First slot is free
	_ = limiter.Wait(ctx)

	start := time.Now()
	err := limiter.Wait(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	duration := time.Since(start)

	// It should take roughly 100ms
	if duration < 50*time.Millisecond || duration > 150*time.Millisecond {
		t.Errorf("expected wait around 100ms, took %v", duration)
	}
}

func TestLimiter_ContextCancellation(t *testing.T) {
	limiter := NewLimiter(1, 0) // 1 second interval

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	if err == nil {
		t.Fatalf("expected context canceled error")
	}
}

func TestLimiter_Jitter(t *testing.T) {
	rps := 10.0                     // 100ms interval
	limiter := NewLimiter(rps, 0.5) // +/- 50ms jitter

	ctx := context.Background()

	_ = limiter.Wait(ctx)

	start := time.Now()
	_ = limiter.Wait(ctx)

	duration := time.Since(start)

	// Interval is 100ms, jitter +/- 50ms, so the second slot lands
	// between 50ms and 150ms after the first. Allow scheduling slack.
	if duration < 20*time.Millisecond || duration > 300*time.Millisecond {
		t.Errorf("expected jittered wait roughly between 50ms and 150ms, took %v", duration)
	}
}

func TestLimiter_ConcurrentSpacing(t *testing.T) {
	rps := 20.0 // 50ms interval
	limiter := NewLimiter(rps, 0)

	ctx := context.Background()
	done := make(chan time.Time, 3)

	for i := 0; i < 3; i++ {
		go func() {
			_ = limiter.Wait(ctx)
			done <- time.Now()
		}()
	}

	var stamps []time.Time
	for i := 0; i < 3; i++ {
		stamps = append(stamps, <-done)
	}

	// Whatever order the goroutines ran in, the three slots span at
	// least two intervals.
	min, max := stamps[0], stamps[0]
	for _, s := range stamps[1:] {
		if s.Before(min) {
			min = s
		}
		if s.After(max) {
			max = s
		}
	}
	if span := max.Sub(min); span < 80*time.Millisecond {
		t.Errorf("expected slots spread over >= 100ms, got %v", span)
	}
}
