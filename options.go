package threads

// PoolOption configures a [Pool].
type PoolOption func(*poolConfig)

type poolConfig struct {
	queueLimit int
	onPanic    func(*PanicError)
}

// WithQueueLimit bounds the task queue: [Pool.Submit] returns false
// once limit tasks are queued. A limit of zero (the default) means an
// unbounded queue.
//
// Panics if limit < 0.
func WithQueueLimit(limit int) PoolOption {
	if limit < 0 {
		panic("threads: WithQueueLimit requires limit >= 0")
	}
	return func(c *poolConfig) {
		c.queueLimit = limit
	}
}

// WithPanicHandler routes task panics to fn instead of collecting them
// for [Pool.Shutdown]. The handler runs on the worker goroutine that
// recovered the panic.
//
// Panics if fn is nil.
func WithPanicHandler(fn func(*PanicError)) PoolOption {
	if fn == nil {
		panic("threads: WithPanicHandler requires non-nil handler")
	}
	return func(c *poolConfig) {
		c.onPanic = fn
	}
}

// ClockOption configures the time source of a [Debouncer], [Throttler],
// or [Scheduler].
type ClockOption func(*clockConfig)

type clockConfig struct {
	clock Clock
}

func (c *clockConfig) orSystem() Clock {
	if c.clock == nil {
		return SystemClock()
	}
	return c.clock
}

// WithClock substitutes the time source. The default is [SystemClock].
//
// Panics if clock is nil.
func WithClock(clock Clock) ClockOption {
	if clock == nil {
		panic("threads: WithClock requires non-nil clock")
	}
	return func(c *clockConfig) {
		c.clock = clock
	}
}
