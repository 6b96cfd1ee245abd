package threads

import "sync"

// Promise is the producer side of a single-assignment result cell.
// Exactly one of [Promise.Set] or [Promise.SetError] may be called,
// exactly once; a second settlement panics.
type Promise struct {
	f *Future
}

// Future is the consumer side of a [Promise]. Any number of goroutines
// may block on it; all of them observe the same settlement, whether
// they started waiting before or after it happened.
type Future struct {
	mu    sync.Mutex
	done  chan struct{} // closed on settlement
	isSet bool
	isErr bool
	val   any
	errst string
}

// NewPromise creates an unsettled promise and its future.
func NewPromise() *Promise {
	return &Promise{f: &Future{done: make(chan struct{})}}
}

// GetFuture returns the promise's single future. Every call returns the
// same value.
func (p *Promise) GetFuture() *Future { return p.f }

// Set settles the promise with a value. Panics if already settled.
func (p *Promise) Set(v any) {
	f := p.f
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isSet {
		panic("threads: Promise.Set: already completed")
	}
	f.isSet = true
	f.val = v
	close(f.done)
}

// SetError settles the promise with an error message. Panics if already
// settled.
func (p *Promise) SetError(msg string) {
	f := p.f
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.isSet {
		panic("threads: Promise.SetError: already completed")
	}
	f.isSet = true
	f.isErr = true
	f.errst = msg
	close(f.done)
}

// Get blocks until the future is settled, then returns the value.
// Panics with the stored message if the future was settled with an
// error; use [Future.IsError] to branch without trapping.
func (f *Future) Get() any {
	<-f.done
	if f.isErr {
		panic("threads: Future.Get: " + f.errst)
	}
	return f.val
}

// GetFor is [Future.Get] bounded by ms milliseconds; negative ms waits
// indefinitely. Returns false if the future was not settled in time.
// Panics with the stored message on an error settlement.
func (f *Future) GetFor(ms int64) (any, bool) {
	if !f.WaitFor(ms) {
		return nil, false
	}
	if f.isErr {
		panic("threads: Future.GetFor: " + f.errst)
	}
	return f.val, true
}

// TryGet returns the value without blocking. Returns false if the
// future is not yet settled. Panics with the stored message on an error
// settlement.
func (f *Future) TryGet() (any, bool) {
	select {
	case <-f.done:
	default:
		return nil, false
	}
	if f.isErr {
		panic("threads: Future.TryGet: " + f.errst)
	}
	return f.val, true
}

// WaitFor blocks until the future is settled or ms milliseconds have
// elapsed; negative ms waits indefinitely. Reports whether the future
// is settled.
func (f *Future) WaitFor(ms int64) bool {
	if ms < 0 {
		<-f.done
		return true
	}
	return awaitFor(f.done, ms)
}

// IsDone reports whether the future is settled, with a value or an
// error.
func (f *Future) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// IsError reports whether the future was settled with an error.
func (f *Future) IsError() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isErr
}

// Error returns the stored error message, or "" when the future is
// unsettled or settled with a value.
func (f *Future) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errst
}
