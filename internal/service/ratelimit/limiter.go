package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const pruneEvery = time.Minute

type entry struct {
	lim  *rate.Limiter
	last time.Time
	// full is how long after last the bucket is back to capacity.
	full time.Duration
}

// Limiter keeps one token bucket per key. Buckets that have refilled
// completely are dropped, since a fresh bucket behaves the same.
type Limiter struct {
	mu        sync.Mutex
	m         map[string]*entry
	now       func() time.Time
	lastPrune time.Time
}

func New() *Limiter { return &Limiter{m: make(map[string]*entry), now: time.Now} }

// Allow reports whether one token could be taken from key's bucket. A new
// bucket starts full.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= pruneEvery {
		l.prune(now)
		l.lastPrune = now
	}

	e, ok := l.m[key]
	if !ok {
		e = &entry{lim: rate.NewLimiter(rate.Limit(refillPerSec), int(capacity))}
		if refillPerSec > 0 {
			e.full = time.Duration(capacity / refillPerSec * float64(time.Second))
		}
		l.m[key] = e
	}
	e.last = now
	return e.lim.AllowN(now, 1)
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (l *Limiter) prune(now time.Time) {
	for k, e := range l.m {
		if e.full > 0 && now.Sub(e.last) >= e.full {
			delete(l.m, k)
		}
	}
}
