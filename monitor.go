package threads

import "sync"

// Monitor operations attach a re-entrant mutex and condition queue to
// any comparable object. There is no constructor: the first operation
// on an object lazily creates its monitor record in a package-level
// table keyed by object identity.
//
// Both lock acquisition and wait/notify wakeups are FIFO-fair. A waiter
// woken by [Pause] re-contends for the lock at the tail of the entry
// queue, preserving its order relative to other paused waiters.

const (
	// in the wait queue, blocked until Pause/PauseAll moves it
	monWaitingPause = iota
	// in the entry queue, blocked until granted ownership
	monWaitingLock
	// owns the monitor; acquired channel is closed
	monAcquired
)

type monWaiter struct {
	gid       int64
	recursion int // recursion count restored on grant
	state     int
	acquired  chan struct{}
}

type monitor struct {
	mu        sync.Mutex
	owner     int64 // goroutine id, 0 when unlocked
	recursion int
	entryQ    waitList[*monWaiter]
	waitQ     waitList[*monWaiter]
}

var (
	monTabMu sync.Mutex
	monTab   = make(map[any]*monitor)
)

// monitorOf returns the monitor record for obj, creating it on first
// use. obj must be a comparable value, normally a pointer.
func monitorOf(obj any) *monitor {
	if obj == nil {
		panic("threads: Monitor: nil object")
	}
	monTabMu.Lock()
	defer monTabMu.Unlock()
	m, ok := monTab[obj]
	if !ok {
		m = &monitor{}
		monTab[obj] = m
	}
	return m
}

// grantLocked hands the monitor to the head of the entry queue if it is
// free. Must be called with m.mu held.
func (m *monitor) grantLocked() {
	if m.owner != 0 {
		return
	}
	w, ok := m.entryQ.pop()
	if !ok {
		return
	}
	m.owner = w.gid
	m.recursion = w.recursion
	w.state = monAcquired
	close(w.acquired)
}

// Enter blocks until the calling goroutine owns obj's monitor,
// incrementing the recursion count. Re-entrant for the current owner.
// Contending callers acquire in arrival order.
func Enter(obj any) {
	m := monitorOf(obj)
	id := gid()

	m.mu.Lock()
	if m.owner == id {
		m.recursion++
		m.mu.Unlock()
		return
	}
	if m.owner == 0 && m.entryQ.len() == 0 {
		m.owner = id
		m.recursion = 1
		m.mu.Unlock()
		return
	}
	w := &monWaiter{gid: id, recursion: 1, state: monWaitingLock, acquired: make(chan struct{})}
	m.entryQ.push(w)
	m.mu.Unlock()

	<-w.acquired
}

// TryEnter acquires obj's monitor only if it is immediately available,
// that is, re-entrant for the owner, or unowned with an empty entry
// queue. Reports whether the monitor was acquired.
func TryEnter(obj any) bool {
	m := monitorOf(obj)
	id := gid()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == id {
		m.recursion++
		return true
	}
	if m.owner == 0 && m.entryQ.len() == 0 {
		m.owner = id
		m.recursion = 1
		return true
	}
	return false
}

// TryEnterFor is [Enter] bounded by ms milliseconds. Negative ms is
// treated as 0 (an immediate [TryEnter]). Reports whether the monitor
// was acquired.
func TryEnterFor(obj any, ms int64) bool {
	if ms <= 0 {
		return TryEnter(obj)
	}

	m := monitorOf(obj)
	id := gid()

	m.mu.Lock()
	if m.owner == id {
		m.recursion++
		m.mu.Unlock()
		return true
	}
	if m.owner == 0 && m.entryQ.len() == 0 {
		m.owner = id
		m.recursion = 1
		m.mu.Unlock()
		return true
	}
	w := &monWaiter{gid: id, recursion: 1, state: monWaitingLock, acquired: make(chan struct{})}
	m.entryQ.push(w)
	m.mu.Unlock()

	if awaitFor(w.acquired, ms) {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A grant may have slipped in between the timer firing and the
	// mutex acquisition.
	if w.state == monAcquired {
		return true
	}
	m.entryQ.remove(w)
	return false
}

// Exit decrements the recursion count, releasing the monitor and
// granting the head of the entry queue when it reaches 0.
// Panics if the caller does not own the monitor.
func Exit(obj any) {
	m := monitorOf(obj)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != gid() {
		panic("threads: Monitor.Exit: not owner")
	}
	m.recursion--
	if m.recursion == 0 {
		m.owner = 0
		m.grantLocked()
	}
}

// Wait atomically releases obj's monitor (saving the full recursion
// count) and suspends the caller on the wait queue until a [Pause] or
// [PauseAll] moves it back to the entry queue and it re-acquires the
// monitor. The saved recursion count is restored on return.
// Panics if the caller does not own the monitor.
func Wait(obj any) {
	waitMonitor(obj, -1, "threads: Monitor.Wait: not owner")
}

// WaitFor is [Wait] bounded by ms milliseconds. Negative ms is treated
// as 0. Returns false if the timeout elapsed before a [Pause] arrived;
// even then, the monitor is re-acquired before WaitFor returns.
func WaitFor(obj any, ms int64) bool {
	if ms < 0 {
		ms = 0
	}
	return waitMonitor(obj, ms, "threads: Monitor.WaitFor: not owner")
}

func waitMonitor(obj any, ms int64, notOwner string) bool {
	m := monitorOf(obj)
	id := gid()

	m.mu.Lock()
	if m.owner != id {
		m.mu.Unlock()
		panic(notOwner)
	}
	w := &monWaiter{gid: id, recursion: m.recursion, state: monWaitingPause, acquired: make(chan struct{})}
	m.waitQ.push(w)
	m.owner = 0
	m.recursion = 0
	m.grantLocked()
	m.mu.Unlock()

	ok := true
	if ms < 0 {
		<-w.acquired
	} else if !awaitFor(w.acquired, ms) {
		m.mu.Lock()
		if w.state == monWaitingPause {
			// Timed out before any Pause reached us: move ourselves to
			// the entry queue tail and report the timeout. If a Pause
			// got there first the wait counts as signalled.
			m.waitQ.remove(w)
			w.state = monWaitingLock
			m.entryQ.push(w)
			m.grantLocked()
			ok = false
		}
		m.mu.Unlock()
		<-w.acquired
	}
	return ok
}

// Pause moves the head of obj's wait queue to the tail of the entry
// queue, where it re-contends for the monitor in FIFO order. A no-op
// when nothing is waiting. Panics if the caller does not own the
// monitor.
func Pause(obj any) {
	m := monitorOf(obj)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != gid() {
		panic("threads: Monitor.Pause: not owner")
	}
	if w, ok := m.waitQ.pop(); ok {
		w.state = monWaitingLock
		m.entryQ.push(w)
	}
}

// PauseAll moves every wait-queue entry to the entry queue, preserving
// their relative order. Panics if the caller does not own the monitor.
func PauseAll(obj any) {
	m := monitorOf(obj)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != gid() {
		panic("threads: Monitor.PauseAll: not owner")
	}
	for {
		w, ok := m.waitQ.pop()
		if !ok {
			return
		}
		w.state = monWaitingLock
		m.entryQ.push(w)
	}
}
