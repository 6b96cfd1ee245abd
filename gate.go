package threads

import "sync"

// Gate is a counting semaphore with FIFO-fair permit acquisition.
// Blocked [Gate.Enter] callers receive permits in strict arrival order;
// [Gate.TryEnter] never jumps that queue.
type Gate struct {
	mu      sync.Mutex
	permits int64
	entryQ  waitList[*waiter]
}

// NewGate creates a gate holding the given number of permits.
// Panics if permits < 0.
func NewGate(permits int) *Gate {
	if permits < 0 {
		panic("threads: NewGate requires permits >= 0")
	}
	return &Gate{permits: int64(permits)}
}

// grantLocked hands permits to queued waiters in FIFO order while any
// remain. Must be called with g.mu held.
func (g *Gate) grantLocked() {
	for g.permits > 0 {
		w, ok := g.entryQ.pop()
		if !ok {
			return
		}
		g.permits--
		w.granted = true
		w.wake()
	}
}

// Enter blocks until a permit is available, then takes it.
func (g *Gate) Enter() {
	g.mu.Lock()
	if g.permits > 0 && g.entryQ.len() == 0 {
		g.permits--
		g.mu.Unlock()
		return
	}
	w := newWaiter()
	g.entryQ.push(w)
	g.mu.Unlock()

	<-w.ready
}

// TryEnter takes a permit without blocking. It succeeds only when a
// permit is available and no earlier caller is queued.
func (g *Gate) TryEnter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.permits > 0 && g.entryQ.len() == 0 {
		g.permits--
		return true
	}
	return false
}

// TryEnterFor is [Gate.Enter] bounded by ms milliseconds. Negative ms
// is treated as 0 (an immediate [Gate.TryEnter]). Reports whether a
// permit was taken.
func (g *Gate) TryEnterFor(ms int64) bool {
	if ms <= 0 {
		return g.TryEnter()
	}

	g.mu.Lock()
	if g.permits > 0 && g.entryQ.len() == 0 {
		g.permits--
		g.mu.Unlock()
		return true
	}
	w := newWaiter()
	g.entryQ.push(w)
	g.mu.Unlock()

	if awaitFor(w.ready, ms) {
		return true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if w.granted {
		return true
	}
	g.entryQ.remove(w)
	return false
}

// Leave returns one permit, waking the longest-waiting [Gate.Enter]
// caller if any.
func (g *Gate) Leave() {
	g.LeaveMany(1)
}

// LeaveMany returns count permits, waking up to count waiters in FIFO
// order. Panics if count <= 0.
func (g *Gate) LeaveMany(count int) {
	if count <= 0 {
		panic("threads: Gate.LeaveMany requires count > 0")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.permits += int64(count)
	g.grantLocked()
}

// Permits returns the number of currently available permits.
// The value may be stale in concurrent contexts.
func (g *Gate) Permits() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return int(g.permits)
}
