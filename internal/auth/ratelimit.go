package auth

import (
	"sync"
	"time"
)

// RateLimiter enforces a sliding-window per-user request limit.
type RateLimiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	hits   map[int64][]time.Time
	now    func() time.Time
}

// NewRateLimiter allows limit requests per user within window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		hits:   make(map[int64][]time.Time),
		now:    time.Now,
	}
}

// Allow records a request for the user and reports whether it is within
// the limit. Requests over the limit are not recorded.
func (r *RateLimiter) Allow(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)

	recent := r.hits[userID][:0]
	for _, t := range r.hits[userID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit {
		r.hits[userID] = recent
		return false
	}

	r.hits[userID] = append(recent, now)
	return true
}
