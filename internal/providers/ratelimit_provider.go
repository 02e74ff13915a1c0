package providers

import (
	"math"
	"sync"
	"time"

	"github.com/maxamas123/district-line-tracker/internal/structures"
)

type RateLimiterInterface interface {
	Acquire(addr string) (retryAfter int, ok bool)
	Cleanup()
}

// SubmitLimiter enforces the one-report-per-address cooldown. The whole
// check-and-set happens under one mutex so two concurrent submissions from
// the same address cannot both pass. The map is ephemeral; a restart resets
// it. A speed bump, not a security boundary.
type SubmitLimiter struct {
	mu         sync.Mutex
	cooldown   time.Duration
	lastSubmit map[string]time.Time
	now        func() time.Time
}

func NewRateLimiter(conf *structures.Config) RateLimiterInterface {
	return &SubmitLimiter{
		cooldown:   conf.RateLimit.Cooldown,
		lastSubmit: make(map[string]time.Time),
		now:        time.Now,
	}
}

// Acquire atomically claims a submission slot for addr. When the address is
// still cooling down it returns the whole seconds left to wait, never
// negative, and does not touch the slot.
func (l *SubmitLimiter) Acquire(addr string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if last, ok := l.lastSubmit[addr]; ok {
		if elapsed := now.Sub(last); elapsed < l.cooldown {
			retryAfter := int(math.Ceil((l.cooldown - elapsed).Seconds()))
			if retryAfter < 0 {
				retryAfter = 0
			}
			return retryAfter, false
		}
	}
	l.lastSubmit[addr] = now
	return 0, true
}

// Cleanup drops entries whose cooldown has fully elapsed.
func (l *SubmitLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cooldown)
	for addr, ts := range l.lastSubmit {
		if ts.Before(cutoff) {
			delete(l.lastSubmit, addr)
		}
	}
}
