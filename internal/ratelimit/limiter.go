package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a fixed-window request budget per key. Allow reports
// whether the request fits the current window; when it does not, retryAfter
// is the time until the window resets.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int) (allowed bool, retryAfter time.Duration, err error)
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter. Windows are reset
// lazily when touched after expiry; stale keys for idle clients are dropped
// opportunistically during Allow.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	size    time.Duration
}

// NewMemoryLimiter creates a limiter with the given window size.
func NewMemoryLimiter(windowSize time.Duration) *MemoryLimiter {
	if windowSize <= 0 {
		windowSize = time.Minute
	}
	return &MemoryLimiter{
		windows: make(map[string]*window),
		size:    windowSize,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int) (bool, time.Duration, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !w.resetAt.After(now) {
		l.sweep(now)
		w = &window{resetAt: now.Add(l.size)}
		l.windows[key] = w
	}

	if w.count >= limit {
		return false, w.resetAt.Sub(now), nil
	}
	w.count++
	return true, 0, nil
}

// sweep drops expired windows. Caller holds the lock.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if !w.resetAt.After(now) {
			delete(l.windows, k)
		}
	}
}
