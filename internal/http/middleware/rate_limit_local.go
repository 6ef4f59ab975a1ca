package middleware

import (
	"context"
	"sync"
	"time"
)

// LocalWindowLimiter keeps per-key counters in process memory. Each key's
// window opens on its first hit; expired windows are swept lazily.
type LocalWindowLimiter struct {
	mu        sync.Mutex
	windows   map[string]*localWindow
	nextSweep time.Time
	now       func() time.Time
}

type localWindow struct {
	hits    int
	resetAt time.Time
}

func NewLocalWindowLimiter() *LocalWindowLimiter {
	return &LocalWindowLimiter{windows: make(map[string]*localWindow), now: time.Now}
}

func (l *LocalWindowLimiter) Backend() string { return "local" }

func (l *LocalWindowLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now, window)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &localWindow{resetAt: now.Add(window)}
		l.windows[key] = w
	}
	if w.hits >= limit {
		return false, w.resetAt.Sub(now), nil
	}
	w.hits++
	return true, 0, nil
}

func (l *LocalWindowLimiter) sweep(now time.Time, window time.Duration) {
	if now.Before(l.nextSweep) {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
	l.nextSweep = now.Add(window)
}
