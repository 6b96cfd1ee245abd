package threads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromiseSetGet(t *testing.T) {
	p := NewPromise()
	f := p.GetFuture()
	assert.Same(t, f, p.GetFuture(), "GetFuture always returns the same future")
	assert.False(t, f.IsDone())

	// A waiter parked before resolution and a reader arriving after it
	// observe the same value.
	early := make(chan any, 1)
	go func() {
		early <- f.Get()
	}()
	time.Sleep(20 * time.Millisecond)

	p.Set(42)

	assert.Equal(t, 42, <-early)
	assert.Equal(t, 42, f.Get())
	assert.True(t, f.IsDone())
	assert.False(t, f.IsError())
}

func TestPromiseDoubleSetPanics(t *testing.T) {
	p := NewPromise()
	p.Set(1)
	require.PanicsWithValue(t, "threads: Promise.Set: already completed", func() {
		p.Set(2)
	})
	require.PanicsWithValue(t, "threads: Promise.SetError: already completed", func() {
		p.SetError("late")
	})

	p2 := NewPromise()
	p2.SetError("first")
	require.PanicsWithValue(t, "threads: Promise.Set: already completed", func() {
		p2.Set(1)
	})
}

func TestFutureError(t *testing.T) {
	p := NewPromise()
	p.SetError("boom")
	f := p.GetFuture()

	assert.True(t, f.IsDone())
	assert.True(t, f.IsError())
	assert.Equal(t, "boom", f.Error())

	require.PanicsWithValue(t, "threads: Future.Get: boom", func() {
		f.Get()
	})
	require.PanicsWithValue(t, "threads: Future.TryGet: boom", func() {
		f.TryGet()
	})
}

func TestFutureGetFor(t *testing.T) {
	p := NewPromise()
	f := p.GetFuture()

	_, ok := f.GetFor(30)
	assert.False(t, ok, "GetFor should time out on an unsettled future")

	go func() {
		time.Sleep(30 * time.Millisecond)
		p.Set("done")
	}()
	v, ok := f.GetFor(2000)
	require.True(t, ok)
	assert.Equal(t, "done", v)

	v, ok = f.GetFor(-1)
	require.True(t, ok, "negative timeout waits indefinitely")
	assert.Equal(t, "done", v)
}

func TestFutureWaitFor(t *testing.T) {
	p := NewPromise()
	f := p.GetFuture()

	assert.False(t, f.WaitFor(0), "zero timeout is an immediate check")
	assert.False(t, f.WaitFor(20))

	go func() {
		time.Sleep(20 * time.Millisecond)
		p.Set(nil)
	}()
	assert.True(t, f.WaitFor(-1), "negative timeout waits indefinitely")
}

func TestFutureTryGet(t *testing.T) {
	p := NewPromise()
	f := p.GetFuture()

	_, ok := f.TryGet()
	assert.False(t, ok)

	p.Set(7)
	v, ok := f.TryGet()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}
