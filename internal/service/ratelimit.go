package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 10 * time.Minute
	limiterSweepInterval = 5 * time.Minute
)

// TokenBucket is an in-memory per-key rate limiter. Each key gets its own
// rate.Limiter; keys idle for longer than limiterIdleTTL are dropped.
// It is safe for concurrent use.
type TokenBucket struct {
	mu       sync.Mutex
	limiters map[string]*keyLimiter
	rate     rate.Limit
	burst    int
	stop     chan struct{}
	once     sync.Once
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucket creates a rate limiter that allows bursts of up to burst
// requests per key, refilling at rps tokens per second. A zero rps never
// refills. It starts a background goroutine that evicts idle keys until
// Stop is called.
func NewTokenBucket(rps float64, burst int) *TokenBucket {
	tb := &TokenBucket{
		limiters: make(map[string]*keyLimiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		stop:     make(chan struct{}),
	}
	go tb.cleanup()
	return tb
}

// Allow reports whether key may proceed, consuming one token if so.
func (tb *TokenBucket) Allow(key string) bool {
	tb.mu.Lock()
	kl, ok := tb.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(tb.rate, tb.burst)}
		tb.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	tb.mu.Unlock()

	return kl.limiter.Allow()
}

// Len returns the number of keys currently tracked.
func (tb *TokenBucket) Len() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.limiters)
}

// Stop ends the eviction goroutine.
func (tb *TokenBucket) Stop() {
	tb.once.Do(func() { close(tb.stop) })
}

func (tb *TokenBucket) cleanup() {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			tb.evictIdle(time.Now().Add(-limiterIdleTTL))
		case <-tb.stop:
			return
		}
	}
}

func (tb *TokenBucket) evictIdle(cutoff time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	for key, kl := range tb.limiters {
		if kl.lastSeen.Before(cutoff) {
			delete(tb.limiters, key)
		}
	}
}
