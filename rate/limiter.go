// Package rate throttles callers per identity. The checkout endpoint uses
// it to bound how fast a single caller can attempt order creation.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per caller. Buckets of callers idle for
// longer than Expiry minutes are dropped to keep the map bounded.
type Limiter struct {
	Expiry   int
	Burst    int
	LimitRPS float64

	mu      sync.Mutex
	callers map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewLimiter(burst int, expiry int, limitRPS float64) *Limiter {
	lm := &Limiter{
		Expiry:   expiry,
		Burst:    burst,
		LimitRPS: limitRPS,
		callers:  make(map[string]*bucket),
	}
	go lm.evict()
	return lm
}

// Check reports whether the caller identified by key may proceed.
func (l *Limiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.callers[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst)}
		l.callers[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *Limiter) evict() {
	for {
		time.Sleep(time.Minute)

		l.mu.Lock()
		for key, b := range l.callers {
			if time.Since(b.lastSeen) > time.Duration(l.Expiry)*time.Minute {
				delete(l.callers, key)
			}
		}
		l.mu.Unlock()
	}
}

// Every converts a minimum interval between requests into a rate.
func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
