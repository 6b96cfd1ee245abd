package threads

import (
	"errors"
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size worker pool consuming a FIFO task queue.
// Tasks are submitted via [Pool.Submit] and executed by the workers in
// arrival order. [Pool.Shutdown] drains the queue before stopping;
// [Pool.ShutdownNow] discards it.
type Pool struct {
	mu       sync.Mutex
	queue    []func()
	pending  int // queued, not yet picked up
	active   int // currently executing
	shutdown bool
	idle     waitList[*waiter] // parked workers
	quiet    chan struct{}     // armed while Wait callers are parked

	workers    int
	queueLimit int
	onPanic    func(*PanicError)
	wg         sync.WaitGroup

	// Observability counters.
	submitted atomic.Int64
	completed atomic.Int64
	panicked  atomic.Int64

	errMu sync.Mutex
	errs  []error
}

// PoolStats provides a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted int64 // total tasks accepted by Submit
	Completed int64 // tasks finished (success + panic)
	Panicked  int64 // tasks that panicked
	Pending   int   // tasks waiting in the queue
	Active    int   // tasks currently executing
	Workers   int   // worker count (fixed at creation)
}

// NewPool creates a pool with n worker goroutines. Workers start
// immediately and process tasks until [Pool.Shutdown] or
// [Pool.ShutdownNow] is called. Panics if n <= 0.
func NewPool(n int, opts ...PoolOption) *Pool {
	if n <= 0 {
		panic("threads: NewPool requires n > 0")
	}

	cfg := poolConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		workers:    n,
		queueLimit: cfg.queueLimit,
		onPanic:    cfg.onPanic,
	}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 {
			if p.shutdown {
				p.mu.Unlock()
				return
			}
			w := newWaiter()
			p.idle.push(w)
			p.mu.Unlock()
			<-w.ready
			p.mu.Lock()
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.pending--
		p.active++
		p.mu.Unlock()

		p.runTask(task)

		p.mu.Lock()
		p.active--
		if p.pending == 0 && p.active == 0 {
			p.quietBroadcastLocked()
		}
		p.mu.Unlock()
	}
}

func (p *Pool) runTask(task func()) {
	defer p.completed.Add(1)
	defer func() {
		if r := recover(); r != nil {
			p.panicked.Add(1)
			pe := newPanicError(r)
			if p.onPanic != nil {
				p.onPanic(pe)
				return
			}
			p.errMu.Lock()
			p.errs = append(p.errs, pe)
			p.errMu.Unlock()
		}
	}()
	task()
}

// quietWakeLocked returns the broadcast channel Wait callers park on,
// arming it on first use. Must be called with p.mu held.
func (p *Pool) quietWakeLocked() chan struct{} {
	if p.quiet == nil {
		p.quiet = make(chan struct{})
	}
	return p.quiet
}

// quietBroadcastLocked releases every parked Wait caller. Must be
// called with p.mu held.
func (p *Pool) quietBroadcastLocked() {
	if p.quiet != nil {
		close(p.quiet)
		p.quiet = nil
	}
}

// Submit enqueues a task for execution. Returns false if the pool has
// been shut down, or if a [WithQueueLimit] bound is configured and the
// queue is at it. Panics if task is nil.
func (p *Pool) Submit(task func()) bool {
	if task == nil {
		panic("threads: Pool.Submit requires non-nil task")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return false
	}
	if p.queueLimit > 0 && len(p.queue) >= p.queueLimit {
		return false
	}
	p.queue = append(p.queue, task)
	p.pending++
	p.submitted.Add(1)
	if w, ok := p.idle.pop(); ok {
		w.wake()
	}
	return true
}

// Wait blocks until the pool is quiescent: no queued and no executing
// tasks. It does not prevent further submissions.
func (p *Pool) Wait() {
	p.mu.Lock()
	for p.pending > 0 || p.active > 0 {
		wake := p.quietWakeLocked()
		p.mu.Unlock()
		<-wake
		p.mu.Lock()
	}
	p.mu.Unlock()
}

// WaitFor is [Pool.Wait] bounded by ms milliseconds. Negative ms is
// treated as 0 (an immediate check). Reports whether the pool became
// quiescent in time.
func (p *Pool) WaitFor(ms int64) bool {
	if ms < 0 {
		ms = 0
	}
	deadline := SystemClock().Ticks() + ms
	p.mu.Lock()
	for p.pending > 0 || p.active > 0 {
		remaining := deadline - SystemClock().Ticks()
		if remaining <= 0 {
			p.mu.Unlock()
			return false
		}
		wake := p.quietWakeLocked()
		p.mu.Unlock()
		awaitFor(wake, remaining)
		p.mu.Lock()
	}
	p.mu.Unlock()
	return true
}

// Shutdown stops accepting new tasks, lets the queue drain, and blocks
// until every worker has exited. It returns the joined panic errors
// from all tasks that panicked without a [WithPanicHandler] installed,
// or nil. Safe to call multiple times.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	p.shutdown = true
	p.wakeIdleLocked()
	p.mu.Unlock()

	p.wg.Wait()
	return p.joinErrs()
}

// ShutdownNow stops accepting new tasks and discards every queued task.
// In-flight tasks run to completion but ShutdownNow does not wait for
// them; use [Pool.Wait] to observe their completion. Returns the number
// of discarded tasks.
func (p *Pool) ShutdownNow() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shutdown = true
	discarded := len(p.queue)
	p.queue = nil
	p.pending = 0
	p.wakeIdleLocked()
	if p.active == 0 {
		p.quietBroadcastLocked()
	}
	return discarded
}

// wakeIdleLocked unparks every idle worker so it can observe shutdown.
// Must be called with p.mu held.
func (p *Pool) wakeIdleLocked() {
	for {
		w, ok := p.idle.pop()
		if !ok {
			return
		}
		w.wake()
	}
}

func (p *Pool) joinErrs() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	return errors.Join(p.errs...)
}

// IsShutdown reports whether Shutdown or ShutdownNow has been called.
func (p *Pool) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shutdown
}

// Pending returns the number of queued tasks.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Active returns the number of currently executing tasks.
func (p *Pool) Active() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Workers returns the worker count fixed at creation.
func (p *Pool) Workers() int { return p.workers }

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	pending, active := p.pending, p.active
	p.mu.Unlock()
	return PoolStats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
		Pending:   pending,
		Active:    active,
		Workers:   p.workers,
	}
}
