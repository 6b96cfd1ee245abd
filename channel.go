package threads

import "sync"

// chWaiter is a parked sender or receiver. A sender ticket carries the
// value to hand off; a receiver ticket has the value written into it.
// All fields are guarded by the channel's mutex until ready is closed.
type chWaiter[T any] struct {
	ready   chan struct{}
	granted bool
	closed  bool // woken by Close rather than a pairing
	val     T
}

// Channel is a bounded FIFO queue of values with blocking, try, and
// timeout variants of send and receive, and an explicit close protocol.
// Capacity 0 makes it a rendezvous channel: a send completes only when
// paired with a concurrent receive.
//
// Blocked senders and receivers are each served in strict arrival
// order. Handoff is direct: a receiver that frees a buffer slot moves
// the longest-parked sender's value in before releasing the mutex, so a
// woken sender never loses its place to a late arrival.
type Channel[T any] struct {
	mu     sync.Mutex
	cap    int
	buf    []T
	closed bool
	sendQ  waitList[*chWaiter[T]]
	recvQ  waitList[*chWaiter[T]]
}

// NewChannel creates a channel buffering up to capacity values.
// Capacity 0 creates a rendezvous channel. Panics if capacity < 0.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 0 {
		panic("threads: NewChannel requires capacity >= 0")
	}
	return &Channel[T]{cap: capacity}
}

// Send enqueues v, blocking while the channel is full (or, at capacity
// 0, until a receiver is ready). Panics if the channel is closed,
// including when Close happens while the sender is blocked.
func (c *Channel[T]) Send(v T) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic("threads: Channel.Send: send on closed channel")
	}
	if w, ok := c.recvQ.pop(); ok {
		w.val = v
		w.granted = true
		close(w.ready)
		c.mu.Unlock()
		return
	}
	if len(c.buf) < c.cap {
		c.buf = append(c.buf, v)
		c.mu.Unlock()
		return
	}
	w := &chWaiter[T]{ready: make(chan struct{}), val: v}
	c.sendQ.push(w)
	c.mu.Unlock()

	<-w.ready
	if w.closed {
		panic("threads: Channel.Send: send on closed channel")
	}
}

// TrySend enqueues v without blocking. Returns false if the channel is
// full. Panics if the channel is closed.
func (c *Channel[T]) TrySend(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("threads: Channel.TrySend: send on closed channel")
	}
	if w, ok := c.recvQ.pop(); ok {
		w.val = v
		w.granted = true
		close(w.ready)
		return true
	}
	if len(c.buf) < c.cap {
		c.buf = append(c.buf, v)
		return true
	}
	return false
}

// SendFor is [Channel.Send] bounded by ms milliseconds. Non-positive ms
// degenerates to [Channel.TrySend]. Returns false if the value could
// not be enqueued in time. Panics if the channel is closed, including
// when Close happens while the sender is blocked.
func (c *Channel[T]) SendFor(v T, ms int64) bool {
	if ms <= 0 {
		return c.TrySend(v)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		panic("threads: Channel.SendFor: send on closed channel")
	}
	if w, ok := c.recvQ.pop(); ok {
		w.val = v
		w.granted = true
		close(w.ready)
		c.mu.Unlock()
		return true
	}
	if len(c.buf) < c.cap {
		c.buf = append(c.buf, v)
		c.mu.Unlock()
		return true
	}
	w := &chWaiter[T]{ready: make(chan struct{}), val: v}
	c.sendQ.push(w)
	c.mu.Unlock()

	if !awaitFor(w.ready, ms) {
		c.mu.Lock()
		if !w.granted && !w.closed {
			c.sendQ.remove(w)
			c.mu.Unlock()
			return false
		}
		c.mu.Unlock()
		<-w.ready
	}
	if w.closed {
		panic("threads: Channel.SendFor: send on closed channel")
	}
	return true
}

// Recv dequeues the oldest value, blocking while the channel is empty
// and open. Once the channel is closed and drained it returns the zero
// value immediately.
func (c *Channel[T]) Recv() T {
	c.mu.Lock()
	if v, ok := c.takeLocked(); ok {
		c.mu.Unlock()
		return v
	}
	if c.closed {
		c.mu.Unlock()
		var zero T
		return zero
	}
	w := &chWaiter[T]{ready: make(chan struct{})}
	c.recvQ.push(w)
	c.mu.Unlock()

	<-w.ready
	if !w.granted {
		var zero T
		return zero
	}
	return w.val
}

// TryRecv dequeues without blocking. Returns the zero value and false
// when nothing is available, including when the channel is closed and
// drained.
func (c *Channel[T]) TryRecv() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.takeLocked(); ok {
		return v, true
	}
	var zero T
	return zero, false
}

// RecvFor is [Channel.Recv] bounded by ms milliseconds. Non-positive ms
// degenerates to [Channel.TryRecv]. Returns false when no value arrived
// in time or the channel closed while waiting.
func (c *Channel[T]) RecvFor(ms int64) (T, bool) {
	if ms <= 0 {
		return c.TryRecv()
	}

	var zero T
	c.mu.Lock()
	if v, ok := c.takeLocked(); ok {
		c.mu.Unlock()
		return v, true
	}
	if c.closed {
		c.mu.Unlock()
		return zero, false
	}
	w := &chWaiter[T]{ready: make(chan struct{})}
	c.recvQ.push(w)
	c.mu.Unlock()

	if !awaitFor(w.ready, ms) {
		c.mu.Lock()
		if !w.granted && !w.closed {
			c.recvQ.remove(w)
			c.mu.Unlock()
			return zero, false
		}
		c.mu.Unlock()
		<-w.ready
	}
	if !w.granted {
		return zero, false
	}
	return w.val, true
}

// takeLocked removes the next deliverable value: the buffer head when
// buffered, otherwise a parked sender's payload (rendezvous). When a
// buffer slot frees up, the longest-parked sender is moved in behind
// it. Must be called with c.mu held.
func (c *Channel[T]) takeLocked() (T, bool) {
	if len(c.buf) > 0 {
		v := c.buf[0]
		c.buf = c.buf[1:]
		if w, ok := c.sendQ.pop(); ok {
			c.buf = append(c.buf, w.val)
			w.granted = true
			close(w.ready)
		}
		return v, true
	}
	if w, ok := c.sendQ.pop(); ok {
		v := w.val
		w.granted = true
		close(w.ready)
		return v, true
	}
	var zero T
	return zero, false
}

// Close marks the channel closed and wakes every blocked sender and
// receiver. Buffered values remain drainable; blocked senders panic;
// blocked receivers observe closure. Panics if already closed.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		panic("threads: Channel.Close: already closed")
	}
	c.closed = true
	for {
		w, ok := c.sendQ.pop()
		if !ok {
			break
		}
		w.closed = true
		close(w.ready)
	}
	for {
		w, ok := c.recvQ.pop()
		if !ok {
			break
		}
		w.closed = true
		close(w.ready)
	}
}

// Len returns the number of buffered values.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Cap returns the buffer capacity fixed at construction.
func (c *Channel[T]) Cap() int { return c.cap }

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// IsEmpty reports whether no values are buffered.
func (c *Channel[T]) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) == 0
}

// IsFull reports whether the buffer is at capacity. A rendezvous
// channel is always full.
func (c *Channel[T]) IsFull() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) == c.cap
}
