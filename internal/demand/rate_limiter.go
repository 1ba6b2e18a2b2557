package demand

import (
	"context"
	"sync"
	"time"
)

// RateLimiter hands out slots at least interval apart.
type RateLimiter struct {
	mu       sync.Mutex
	next     time.Time
	interval time.Duration
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: max(interval, 0)}
}

// reserve books the next free slot and returns when it starts.
func (r *RateLimiter) reserve() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := time.Now()
	if r.next.After(slot) {
		slot = r.next
	}
	r.next = slot.Add(r.interval)
	return slot
}

// Wait blocks until the caller's slot or until ctx is done. A nil limiter
// never waits.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return ctx.Err()
	}
	delay := time.Until(r.reserve())
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
