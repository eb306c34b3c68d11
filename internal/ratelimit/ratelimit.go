// internal/ratelimit/ratelimit.go
package ratelimit

import (
	"sync"
	"time"
)

const window = 60 * time.Second

// Limiter is a sliding-window admission controller for rate-limited
// external dependencies. Each dependency has a fixed per-minute ceiling
// and a list of recent request timestamps that ages out as the window
// slides. Nothing is persisted.
type Limiter struct {
	mu       sync.Mutex
	ceilings map[string]int
	requests map[string][]time.Time
	now      func() time.Time
}

// New creates a Limiter with per-dependency ceilings (requests per minute).
// A dependency with ceiling 0, or one not present in the map, is always
// rejected.
func New(ceilings map[string]int) *Limiter {
	c := make(map[string]int, len(ceilings))
	for dep, n := range ceilings {
		c[dep] = n
	}
	return &Limiter{
		ceilings: c,
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow reports whether a new call to the dependency may proceed. It prunes
// timestamps older than the window before comparing against the ceiling.
// Allow does not count the call; callers must invoke Record once the call
// is actually attempted.
func (l *Limiter) Allow(dep string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	ceiling := l.ceilings[dep]
	if ceiling <= 0 {
		return false
	}

	cutoff := l.now().Add(-window)
	kept := l.requests[dep][:0]
	for _, ts := range l.requests[dep] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.requests[dep] = kept

	return len(kept) < ceiling
}

// Record counts one attempted call against the dependency's window.
func (l *Limiter) Record(dep string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.requests[dep] = append(l.requests[dep], l.now())
}
