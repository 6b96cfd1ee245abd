package threads

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPool(t *testing.T) {
	p := DefaultPool()
	assert.Same(t, p, DefaultPool())
	assert.Equal(t, runtime.NumCPU(), p.Workers())
}

func TestForEach(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i + 1
	}

	var sum atomic.Int64
	ForEach(items, func(v int) {
		sum.Add(int64(v))
	})
	assert.Equal(t, int64(5050), sum.Load())
}

func TestForEachEmpty(t *testing.T) {
	require.NotPanics(t, func() {
		ForEach(nil, func(int) { t.Fatal("must not be called") })
	})
}

func TestMapPreservesOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	got := Map(items, func(v int) int { return v * v })
	assert.Equal(t, []int{1, 4, 9, 16, 25, 36, 49, 64}, got)
}

func TestFor(t *testing.T) {
	var (
		mu      sync.Mutex
		indices []int
	)
	For(2, 7, func(i int) {
		mu.Lock()
		indices = append(indices, i)
		mu.Unlock()
	})
	assert.ElementsMatch(t, []int{2, 3, 4, 5, 6}, indices)

	require.NotPanics(t, func() {
		For(5, 5, func(int) { t.Fatal("empty range") })
		For(5, 3, func(int) { t.Fatal("inverted range") })
	})
}

func TestInvoke(t *testing.T) {
	var a, b, c atomic.Bool
	Invoke(
		func() { a.Store(true) },
		func() { b.Store(true) },
		func() { c.Store(true) },
	)
	assert.True(t, a.Load() && b.Load() && c.Load())
}

func TestReduceSerial(t *testing.T) {
	got := Reduce([]int{1, 2, 3}, 0, func(a, b int) int { return a + b })
	assert.Equal(t, 6, got)

	assert.Equal(t, 10, Reduce(nil, 10, func(a, b int) int { return a + b }))
}

func TestReduceParallel(t *testing.T) {
	items := make([]int, 1000)
	for i := range items {
		items[i] = i + 1
	}
	got := Reduce(items, 0, func(a, b int) int { return a + b })
	assert.Equal(t, 500500, got)
}

func TestAsync(t *testing.T) {
	f := Async(func() any { return 21 * 2 })
	assert.Equal(t, 42, f.Get())
}

func TestAsyncPanicBecomesError(t *testing.T) {
	f := Async(func() any { panic("kaboom") })

	f.WaitFor(-1)
	assert.True(t, f.IsError())
	assert.Equal(t, "kaboom", f.Error())
	require.PanicsWithValue(t, "threads: Future.Get: kaboom", func() {
		f.Get()
	})
}

func TestWaitAll(t *testing.T) {
	f1 := Async(func() any {
		time.Sleep(20 * time.Millisecond)
		return 1
	})
	f2 := Async(func() any {
		time.Sleep(40 * time.Millisecond)
		return 2
	})

	WaitAll(f1, f2)
	assert.True(t, f1.IsDone())
	assert.True(t, f2.IsDone())
}

func TestWaitAny(t *testing.T) {
	assert.Equal(t, -1, WaitAny())

	slow := NewPromise()
	fast := Async(func() any {
		time.Sleep(20 * time.Millisecond)
		return "fast"
	})

	idx := WaitAny(slow.GetFuture(), fast)
	assert.Equal(t, 1, idx)
	slow.Set(nil) // release the watcher goroutine

	done := NewPromise()
	done.Set(1)
	alsoDone := NewPromise()
	alsoDone.Set(2)
	assert.Equal(t, 0, WaitAny(done.GetFuture(), alsoDone.GetFuture()),
		"already-settled futures win lowest index first")
}
