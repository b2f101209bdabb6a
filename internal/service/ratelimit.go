package service

import (
	"sync"
	"time"
)

// Throttle is an in-memory per-key token bucket. The local UI uses it to
// stop a login form from hammering the backend with credential attempts.
// It is safe for concurrent use.
type Throttle struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64
	now      func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewThrottle allows up to capacity attempts per key, refilling at rate
// attempts per second.
func NewThrottle(rate, capacity float64) *Throttle {
	return &Throttle{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      time.Now,
	}
}

// Allow consumes one attempt for key and reports whether it was available.
// Idle buckets older than ten minutes are dropped on the way.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.sweep(now)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: t.capacity, last: now}
		t.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*t.rate, t.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Forget resets key, e.g. after a successful login.
func (t *Throttle) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.buckets, key)
}

func (t *Throttle) sweep(now time.Time) {
	cutoff := now.Add(-10 * time.Minute)
	for key, b := range t.buckets {
		if b.last.Before(cutoff) {
			delete(t.buckets, key)
		}
	}
}
