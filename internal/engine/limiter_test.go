package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateLimiterAllowsBurstUpToLimit(t *testing.T) {
	r := NewRateLimiter(10, time.Second, 0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first %d calls should not block, took %v", 10, elapsed)
	}
	if got := r.InFlight(); got != 10 {
		t.Errorf("InFlight() = %d, want 10", got)
	}
}

func TestRateLimiterRollingWindow(t *testing.T) {
	// 15 calls against a 10-per-window limit: calls 11..15 each have to
	// wait for a slot to roll out of the window.
	window := 200 * time.Millisecond
	r := NewRateLimiter(10, window, 0)

	start := time.Now()
	for i := 0; i < 15; i++ {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if got := r.InFlight(); got > 10 {
			t.Fatalf("call %d: %d calls inside the window, limit is 10", i, got)
		}
	}
	if elapsed := time.Since(start); elapsed < window {
		t.Errorf("15 calls finished in %v, expected at least one full window (%v)", elapsed, window)
	}
}

func TestRateLimiterConcurrentNeverOverAdmits(t *testing.T) {
	window := 150 * time.Millisecond
	r := NewRateLimiter(5, window, 0)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Wait(context.Background()); err != nil {
				errs <- err
				return
			}
			if got := r.InFlight(); got > 5 {
				errs <- errors.New("more than 5 calls inside the window")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRateLimiterDailyQuota(t *testing.T) {
	r := NewRateLimiter(100, time.Minute, 3)
	for i := 0; i < 3; i++ {
		if err := r.Wait(context.Background()); err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
	}
	if err := r.Wait(context.Background()); !errors.Is(err, ErrDailyQuotaExceeded) {
		t.Errorf("expected ErrDailyQuotaExceeded, got %v", err)
	}
}

func TestRateLimiterDailyQuotaResets(t *testing.T) {
	r := NewRateLimiter(100, time.Minute, 1)
	day := 0
	r.now = func() time.Time {
		return time.Date(2026, 1, 1+day, 0, 0, 0, 0, time.UTC)
	}

	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Wait(context.Background()); !errors.Is(err, ErrDailyQuotaExceeded) {
		t.Fatalf("expected ErrDailyQuotaExceeded, got %v", err)
	}

	day++ // next day
	if err := r.Wait(context.Background()); err != nil {
		t.Errorf("after day rollover: unexpected error: %v", err)
	}
}

func TestRateLimiterContextCanceled(t *testing.T) {
	r := NewRateLimiter(1, time.Hour, 0)
	if err := r.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
