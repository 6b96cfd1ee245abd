package threads

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolBasic(t *testing.T) {
	p := NewPool(4)

	var count atomic.Int32
	for i := 0; i < 10; i++ {
		ok := p.Submit(func() {
			count.Add(1)
		})
		require.True(t, ok)
	}

	p.Wait()
	assert.Equal(t, int32(10), count.Load(), "all 10 tasks should have executed")

	err := p.Shutdown()
	require.NoError(t, err, "all tasks succeeded; Shutdown should return nil")
}

func TestPoolConcurrencyLimit(t *testing.T) {
	const workers = 3
	p := NewPool(workers)

	var (
		active    atomic.Int32
		maxActive atomic.Int32
	)
	for i := 0; i < 20; i++ {
		ok := p.Submit(func() {
			cur := active.Add(1)
			for {
				old := maxActive.Load()
				if cur <= old || maxActive.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			active.Add(-1)
		})
		require.True(t, ok)
	}

	require.NoError(t, p.Shutdown())
	assert.LessOrEqual(t, maxActive.Load(), int32(workers),
		"concurrent tasks should never exceed worker count")
}

func TestPoolFIFOOrder(t *testing.T) {
	p := NewPool(1)

	var (
		mu    sync.Mutex
		order []int
	)
	gate := make(chan struct{})
	require.True(t, p.Submit(func() { <-gate }))
	for i := 1; i <= 5; i++ {
		i := i
		require.True(t, p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	close(gate)

	require.NoError(t, p.Shutdown())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, order,
		"a single worker should drain the queue in submission order")
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := NewPool(2)
	require.NoError(t, p.Shutdown())

	assert.False(t, p.Submit(func() {}), "Submit after Shutdown must fail")
	assert.True(t, p.IsShutdown())
}

func TestPoolShutdownDrains(t *testing.T) {
	p := NewPool(2)

	var count atomic.Int32
	for i := 0; i < 20; i++ {
		require.True(t, p.Submit(func() {
			time.Sleep(time.Millisecond)
			count.Add(1)
		}))
	}

	require.NoError(t, p.Shutdown())
	assert.Equal(t, int32(20), count.Load(), "Shutdown must let the queue drain")
	assert.Equal(t, 0, p.Pending())
	assert.Equal(t, 0, p.Active())
}

func TestPoolShutdownNowDiscards(t *testing.T) {
	p := NewPool(1)

	gate := make(chan struct{})
	var count atomic.Int32
	require.True(t, p.Submit(func() {
		<-gate
		count.Add(1)
	}))
	time.Sleep(20 * time.Millisecond) // let the worker pick up the blocker

	for i := 0; i < 5; i++ {
		require.True(t, p.Submit(func() { count.Add(1) }))
	}

	discarded := p.ShutdownNow()
	assert.Equal(t, 5, discarded, "queued tasks are discarded")
	assert.False(t, p.Submit(func() {}))

	close(gate)
	p.Wait()
	assert.Equal(t, int32(1), count.Load(), "the in-flight task still runs to completion")
}

func TestPoolWaitFor(t *testing.T) {
	p := NewPool(1)

	require.True(t, p.Submit(func() {
		time.Sleep(100 * time.Millisecond)
	}))
	time.Sleep(10 * time.Millisecond)

	assert.False(t, p.WaitFor(10), "WaitFor should time out while a task runs")
	assert.False(t, p.WaitFor(-1), "negative timeout is an immediate check")
	assert.True(t, p.WaitFor(5000))

	require.NoError(t, p.Shutdown())
}

func TestPoolPanicCollected(t *testing.T) {
	p := NewPool(2)

	require.True(t, p.Submit(func() {
		panic("task panic!")
	}))

	// Submit a normal task to verify the pool still works.
	var ran atomic.Bool
	require.True(t, p.Submit(func() {
		ran.Store(true)
	}))

	err := p.Shutdown()
	require.Error(t, err, "panic should surface as error in Shutdown")

	var pe *PanicError
	assert.True(t, errors.As(err, &pe), "error should be a PanicError")
	assert.Equal(t, "task panic!", pe.Value)
	assert.True(t, ran.Load(), "subsequent tasks should still run after panic")
}

func TestPoolPanicHandler(t *testing.T) {
	caught := make(chan *PanicError, 1)
	p := NewPool(1, WithPanicHandler(func(pe *PanicError) {
		caught <- pe
	}))

	require.True(t, p.Submit(func() {
		panic("boom")
	}))

	select {
	case pe := <-caught:
		assert.Equal(t, "boom", pe.Value)
		assert.NotEmpty(t, pe.Stack)
	case <-time.After(2 * time.Second):
		t.Fatal("panic handler was never invoked")
	}

	require.NoError(t, p.Shutdown(), "handled panics are not collected")
}

func TestPoolQueueLimit(t *testing.T) {
	p := NewPool(1, WithQueueLimit(2))

	gate := make(chan struct{})
	require.True(t, p.Submit(func() { <-gate }))
	time.Sleep(20 * time.Millisecond)

	require.True(t, p.Submit(func() {}))
	require.True(t, p.Submit(func() {}))
	assert.False(t, p.Submit(func() {}), "the queue is at its limit")

	close(gate)
	require.NoError(t, p.Shutdown())
}

func TestPoolStats(t *testing.T) {
	p := NewPool(2)

	for i := 0; i < 4; i++ {
		require.True(t, p.Submit(func() {}))
	}
	p.Wait()

	stats := p.Stats()
	assert.Equal(t, int64(4), stats.Submitted)
	assert.Equal(t, int64(4), stats.Completed)
	assert.Equal(t, int64(0), stats.Panicked)
	assert.Equal(t, 0, stats.Pending)
	assert.Equal(t, 2, stats.Workers)

	require.NoError(t, p.Shutdown())
}

func TestPoolValidation(t *testing.T) {
	require.PanicsWithValue(t, "threads: NewPool requires n > 0", func() {
		NewPool(0)
	})
	p := NewPool(1)
	require.PanicsWithValue(t, "threads: Pool.Submit requires non-nil task", func() {
		p.Submit(nil)
	})
	require.NoError(t, p.Shutdown())
}
