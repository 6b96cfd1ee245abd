package threads

import "time"

// waiter is one blocked caller's ticket. The owning primitive closes
// ready exactly once, after setting granted (and any payload fields)
// under its own mutex.
type waiter struct {
	ready   chan struct{}
	granted bool
}

func newWaiter() *waiter {
	return &waiter{ready: make(chan struct{})}
}

func (w *waiter) wake() { close(w.ready) }

// waitList is a FIFO of blocked-caller tickets. Waiters are served in
// strict arrival order; a ticket leaves the list exactly once, either
// popped by a grant or removed by its own timeout path. All methods
// require the owning primitive's mutex.
type waitList[T comparable] struct {
	q []T
}

func (l *waitList[T]) push(t T) { l.q = append(l.q, t) }

func (l *waitList[T]) pop() (T, bool) {
	var zero T
	if len(l.q) == 0 {
		return zero, false
	}
	t := l.q[0]
	l.q[0] = zero
	l.q = l.q[1:]
	return t, true
}

// remove deletes t wherever it sits in the queue, preserving the order
// of the remaining tickets. Reports whether t was present.
func (l *waitList[T]) remove(t T) bool {
	for i, cur := range l.q {
		if cur == t {
			l.q = append(l.q[:i:i], l.q[i+1:]...)
			return true
		}
	}
	return false
}

func (l *waitList[T]) len() int { return len(l.q) }

// awaitFor blocks on ready for at most ms milliseconds. Non-positive ms
// polls without blocking. Reports whether ready fired in time; on false
// the caller must re-check its ticket under the primitive's mutex, since
// a grant may race the timer.
func awaitFor(ready <-chan struct{}, ms int64) bool {
	if ms <= 0 {
		select {
		case <-ready:
			return true
		default:
			return false
		}
	}
	t := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ready:
		return true
	case <-t.C:
		return false
	}
}
