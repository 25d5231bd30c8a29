package engine

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrDailyQuotaExceeded is returned when the per-day call budget is
// spent; unlike the rolling window, waiting it out is not useful.
var ErrDailyQuotaExceeded = errors.New("daily generation quota exceeded")

// RateLimiter enforces a hard ceiling of limit calls inside any rolling
// window, plus an optional daily quota. It is the one shared mutable
// resource in the pipeline: every generation call, from any goroutine,
// funnels through Wait before going out.
//
// A token bucket would admit burst+rate·window calls inside a rolling
// window, so the limiter keeps actual call timestamps instead.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time // calls within the current window, oldest first

	daily     int
	dailyUsed int
	dailyDay  int // day-of-year of the last reset

	now func() time.Time // test hook
}

// NewRateLimiter creates a limiter allowing limit calls per window.
// daily <= 0 disables the daily quota.
func NewRateLimiter(limit int, window time.Duration, daily int) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		daily:  daily,
		now:    time.Now,
	}
}

// Wait blocks until a slot is free, records the call, and returns.
// It returns early on context cancellation or daily quota exhaustion.
// Once Wait returns nil the caller owns exactly one external call.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()
		now := r.now()

		if r.daily > 0 {
			if day := now.YearDay(); day != r.dailyDay {
				r.dailyDay = day
				r.dailyUsed = 0
			}
			if r.dailyUsed >= r.daily {
				r.mu.Unlock()
				return ErrDailyQuotaExceeded
			}
		}

		cutoff := now.Add(-r.window)
		for len(r.stamps) > 0 && r.stamps[0].Before(cutoff) {
			r.stamps = r.stamps[1:]
		}

		if len(r.stamps) < r.limit {
			r.stamps = append(r.stamps, now)
			r.dailyUsed++
			r.mu.Unlock()
			return nil
		}

		wait := r.stamps[0].Add(r.window).Sub(now)
		r.mu.Unlock()

		if wait <= 0 {
			wait = time.Millisecond
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// InFlight returns how many recorded calls are still inside the window.
func (r *RateLimiter) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.window)
	n := 0
	for _, s := range r.stamps {
		if !s.Before(cutoff) {
			n++
		}
	}
	return n
}
