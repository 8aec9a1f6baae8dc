package collaborations

import (
	"sync"
	"time"
)

type limiterKey struct {
	senderID string
	collabID string
}

// RateLimiter enforces a sliding-window message limit per (sender,
// collaboration) pair. It tracks exact send timestamps rather than a token
// bucket so the Nth message in a window is admitted and the N+1th is not.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	events    map[limiterKey][]time.Time
	lastSweep time.Time
}

// NewRateLimiter creates a limiter admitting at most limit messages per
// window for each sender within each collaboration.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		events: make(map[limiterKey][]time.Time),
	}
}

// Allow records an attempt at the given instant. When the window is full it
// returns false and the duration until the oldest in-window message falls
// out. A denied attempt is not recorded.
func (l *RateLimiter) Allow(senderID, collabID string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := limiterKey{senderID, collabID}
	cutoff := now.Add(-l.window)

	// Pairs that stop messaging would otherwise hold their timestamps for
	// the process lifetime; evict fully idle keys at most once per window.
	if now.Sub(l.lastSweep) >= l.window {
		for k, ts := range l.events {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.events, k)
			}
		}
		l.lastSweep = now
	}

	kept := l.events[key][:0]
	for _, t := range l.events[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false, kept[0].Sub(cutoff)
	}

	l.events[key] = append(kept, now)
	return true, 0
}

// Size reports the number of (sender, collaboration) pairs currently tracked.
func (l *RateLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}
