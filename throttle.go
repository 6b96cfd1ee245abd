package threads

import "sync"

// Throttler admits at most one successful [Throttler.Try] per interval.
// It never blocks and runs no background goroutine.
type Throttler struct {
	mu         sync.Mutex
	clock      Clock
	intervalMs int64
	lastFire   int64
	fired      bool
}

// NewThrottler creates a throttler with the given minimum interval
// between successes, in milliseconds. Panics if intervalMs <= 0.
func NewThrottler(intervalMs int64, opts ...ClockOption) *Throttler {
	if intervalMs <= 0 {
		panic("threads: NewThrottler requires intervalMs > 0")
	}
	cfg := clockConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Throttler{clock: cfg.orSystem(), intervalMs: intervalMs}
}

// Try reports whether the action is admitted, and on success resets the
// interval window. The first call always succeeds.
func (t *Throttler) Try() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.clock.Ticks()
	if t.fired && now-t.lastFire < t.intervalMs {
		return false
	}
	t.fired = true
	t.lastFire = now
	return true
}
