package http

import (
	"sync"
	"time"
)

// rateLimiter caps how many WebSocket upgrades are accepted per
// minute. A limit of zero disables it.
type rateLimiter struct {
	limit int

	mu          sync.Mutex
	counter     int
	windowStart time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{limit: limit, windowStart: time.Now()}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if time.Since(r.windowStart) >= time.Minute {
		r.counter = 0
		r.windowStart = time.Now()
	}
	r.counter++
	return r.counter <= r.limit
}
