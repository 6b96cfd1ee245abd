package threads

import "sync"

// Debouncer reports readiness only after a quiet period with no new
// signals. It never blocks and runs no background goroutine; the host
// drives it by calling [Debouncer.Signal] on activity and polling
// [Debouncer.IsReady].
type Debouncer struct {
	mu        sync.Mutex
	clock     Clock
	delayMs   int64
	last      int64
	signalled bool
}

// NewDebouncer creates a debouncer with the given quiet period in
// milliseconds. Panics if delayMs <= 0.
func NewDebouncer(delayMs int64, opts ...ClockOption) *Debouncer {
	if delayMs <= 0 {
		panic("threads: NewDebouncer requires delayMs > 0")
	}
	cfg := clockConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Debouncer{clock: cfg.orSystem(), delayMs: delayMs}
}

// Signal records activity, restarting the quiet period.
func (d *Debouncer) Signal() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.last = d.clock.Ticks()
	d.signalled = true
}

// IsReady reports whether at least the quiet period has elapsed since
// the most recent [Debouncer.Signal]. False until the first signal.
func (d *Debouncer) IsReady() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.signalled && d.clock.Ticks()-d.last >= d.delayMs
}

// Reset clears any recorded signal, so [Debouncer.IsReady] is false
// until the next [Debouncer.Signal] settles.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.signalled = false
}
