package ratelimit

import (
	"sync"
	"time"
)

// Limit describes a token bucket: Burst tokens that refill at Refill tokens
// per Interval.
type Limit struct {
	Burst    int
	Refill   int
	Interval time.Duration
}

// DefaultLimits throttles the expensive operations. Analyses spawn an
// interpreter subprocess and previews call out to a render backend, so both
// get tighter budgets than plain uploads.
var DefaultLimits = map[string]Limit{
	"upload":  {Burst: 20, Refill: 1, Interval: 3 * time.Minute},
	"analyze": {Burst: 10, Refill: 1, Interval: 6 * time.Minute},
	"preview": {Burst: 30, Refill: 1, Interval: 2 * time.Minute},
}

var fallbackLimit = Limit{Burst: 60, Refill: 1, Interval: time.Second}

type bucket struct {
	mu         sync.Mutex
	tokens     int
	limit      Limit
	lastRefill time.Time
}

func (b *bucket) take() (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	refilled := int(elapsed/b.limit.Interval) * b.limit.Refill
	if refilled > 0 {
		b.tokens += refilled
		if b.tokens > b.limit.Burst {
			b.tokens = b.limit.Burst
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, b.lastRefill.Add(b.limit.Interval).Sub(now)
}

// RateLimiter tracks per-user, per-action token buckets.
type RateLimiter struct {
	mu      sync.RWMutex
	limits  map[string]Limit
	buckets map[string]*bucket
}

// NewRateLimiter creates a limiter with the given per-action limits; actions
// without an entry fall back to a permissive default.
func NewRateLimiter(limits map[string]Limit) *RateLimiter {
	if limits == nil {
		limits = DefaultLimits
	}
	return &RateLimiter{
		limits:  limits,
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes a token for the user's action. When the bucket is empty it
// returns false and the wait until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	key := userID + ":" + action

	rl.mu.RLock()
	b, ok := rl.buckets[key]
	rl.mu.RUnlock()

	if !ok {
		rl.mu.Lock()
		// Double-check pattern
		if b, ok = rl.buckets[key]; !ok {
			limit, ok := rl.limits[action]
			if !ok {
				limit = fallbackLimit
			}
			b = &bucket{tokens: limit.Burst, limit: limit, lastRefill: time.Now()}
			rl.buckets[key] = b
		}
		rl.mu.Unlock()
	}

	return b.take()
}

// Cleanup removes buckets that haven't refilled in the last hour.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every 30 minutes.
func (rl *RateLimiter) StartCleanupRoutine() {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			rl.Cleanup()
		}
	}()
}
