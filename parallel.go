package threads

import (
	"fmt"
	"runtime"
	"sync"
)

// Parallel combinators run work on a shared package-level pool sized by
// the machine's CPU count. They add no synchronization of their own:
// everything is expressed with [Pool], [Promise], and [sync.WaitGroup].
//
// Nesting combinators inside pool tasks can exhaust the workers and
// deadlock; nest with care or run the inner stage on a dedicated pool.

var (
	defaultPoolOnce sync.Once
	defaultPool     *Pool
)

// DefaultPool returns the shared pool used by the parallel combinators
// and [Async], created on first use with one worker per CPU.
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(runtime.NumCPU())
	})
	return defaultPool
}

// submitOrRun executes task on the default pool, falling back to the
// calling goroutine if the pool has been shut down.
func submitOrRun(task func()) {
	if !DefaultPool().Submit(task) {
		task()
	}
}

// ForEach applies fn to every item concurrently and returns when all
// applications have finished.
func ForEach[T any](items []T, fn func(T)) {
	var wg sync.WaitGroup
	wg.Add(len(items))
	for _, item := range items {
		item := item
		submitOrRun(func() {
			defer wg.Done()
			fn(item)
		})
	}
	wg.Wait()
}

// Map applies fn to every item concurrently and returns the results in
// input order.
func Map[T, R any](items []T, fn func(T) R) []R {
	results := make([]R, len(items))
	var wg sync.WaitGroup
	wg.Add(len(items))
	for i, item := range items {
		i, item := i, item
		submitOrRun(func() {
			defer wg.Done()
			results[i] = fn(item)
		})
	}
	wg.Wait()
	return results
}

// For applies fn to every index in [start, end) concurrently and
// returns when all applications have finished. A no-op when
// end <= start.
func For(start, end int, fn func(int)) {
	if end <= start {
		return
	}
	var wg sync.WaitGroup
	wg.Add(end - start)
	for i := start; i < end; i++ {
		i := i
		submitOrRun(func() {
			defer wg.Done()
			fn(i)
		})
	}
	wg.Wait()
}

// Invoke runs every function concurrently and returns when all have
// finished.
func Invoke(fns ...func()) {
	ForEach(fns, func(fn func()) { fn() })
}

// reduceSerialCutoff is the size at or below which Reduce folds inline
// rather than fanning out.
const reduceSerialCutoff = 4

// Reduce folds items with fn, seeding every fold with identity. Inputs
// larger than a small cutoff are split into one chunk per pool worker,
// folded concurrently, and the partial results folded serially. fn must
// be associative for the result to be deterministic.
func Reduce[T any](items []T, identity T, fn func(T, T) T) T {
	if len(items) <= reduceSerialCutoff {
		acc := identity
		for _, item := range items {
			acc = fn(acc, item)
		}
		return acc
	}

	chunks := DefaultPool().Workers()
	if chunks > len(items) {
		chunks = len(items)
	}
	size := (len(items) + chunks - 1) / chunks

	partials := make([]T, chunks)
	var wg sync.WaitGroup
	for c := 0; c < chunks; c++ {
		lo := c * size
		hi := min(lo+size, len(items))
		if lo >= hi {
			partials[c] = identity
			continue
		}
		c := c
		wg.Add(1)
		submitOrRun(func() {
			defer wg.Done()
			acc := identity
			for _, item := range items[lo:hi] {
				acc = fn(acc, item)
			}
			partials[c] = acc
		})
	}
	wg.Wait()

	acc := identity
	for _, p := range partials {
		acc = fn(acc, p)
	}
	return acc
}

// Async runs fn on the default pool and returns a future settled with
// its result. A panic in fn settles the future with an error instead of
// crossing goroutines.
func Async(fn func() any) *Future {
	p := NewPromise()
	submitOrRun(func() {
		defer func() {
			if r := recover(); r != nil {
				p.SetError(fmt.Sprint(r))
			}
		}()
		p.Set(fn())
	})
	return p.GetFuture()
}

// WaitAll blocks until every future is settled.
func WaitAll(futures ...*Future) {
	for _, f := range futures {
		f.WaitFor(-1)
	}
}

// WaitAny blocks until at least one future is settled and returns its
// index. Already-settled futures win immediately, lowest index first.
// Returns -1 when called with no futures.
func WaitAny(futures ...*Future) int {
	if len(futures) == 0 {
		return -1
	}
	for i, f := range futures {
		if f.IsDone() {
			return i
		}
	}
	first := make(chan int, len(futures))
	for i, f := range futures {
		i, f := i, f
		go func() {
			f.WaitFor(-1)
			first <- i
		}()
	}
	return <-first
}
