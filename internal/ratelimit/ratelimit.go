// Package ratelimit implements per-key token bucket rate limiting with
// eviction of idle keys.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keys idle longer than this are evicted by the background sweep.
const idleTTL = 15 * time.Minute

const sweepInterval = 5 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedRateLimiter hands out an independent token bucket per key. Keys are
// typically client IPs, so the map is bounded by evicting idle entries.
type KeyedRateLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a limiter allowing rps requests per second per key, with the
// given burst capacity. A background goroutine sweeps idle keys until Stop
// is called.
func New(rps float64, burst int) *KeyedRateLimiter {
	k := &KeyedRateLimiter{
		entries: make(map[string]*entry),
		limit:   rate.Limit(rps),
		burst:   burst,
		done:    make(chan struct{}),
	}
	go k.sweep()
	return k
}

// Allow reports whether a request for key may proceed right now.
func (k *KeyedRateLimiter) Allow(key string) bool {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(k.limit, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = time.Now()
	k.mu.Unlock()

	return e.limiter.Allow()
}

// Stop terminates the eviction goroutine.
func (k *KeyedRateLimiter) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

func (k *KeyedRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-k.done:
			return
		case now := <-ticker.C:
			k.evictIdle(now)
		}
	}
}

func (k *KeyedRateLimiter) evictIdle(now time.Time) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for key, e := range k.entries {
		if now.Sub(e.lastSeen) > idleTTL {
			delete(k.entries, key)
		}
	}
}
