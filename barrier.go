package threads

import "sync"

// Barrier is a reusable rendezvous point for a fixed number of parties.
// Each generation collects exactly Parties arrivals, releases them all
// together, and resets for the next round.
type Barrier struct {
	mu         sync.Mutex
	parties    int
	waiting    int
	generation int64
	release    chan struct{} // closed when the current generation trips
}

// NewBarrier creates a barrier for the given number of parties.
// Panics if parties < 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("threads: NewBarrier requires parties >= 1")
	}
	return &Barrier{
		parties: parties,
		release: make(chan struct{}),
	}
}

// Arrive registers the caller with the current generation and blocks
// until all parties have arrived. It returns the caller's 0-based
// arrival index; across one generation the indices form exactly the
// set {0, ..., Parties-1}. The final arrival trips the barrier and
// releases every waiter.
func (b *Barrier) Arrive() int {
	b.mu.Lock()
	index := b.waiting
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.generation++
		close(b.release)
		b.release = make(chan struct{})
		b.mu.Unlock()
		return index
	}
	release := b.release
	b.mu.Unlock()

	<-release
	return index
}

// Reset clears the arrival count without advancing the generation.
// Panics if any party is currently blocked in [Barrier.Arrive].
func (b *Barrier) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.waiting > 0 {
		panic("threads: Barrier.Reset: parties are waiting")
	}
	b.waiting = 0
}

// Parties returns the fixed party count.
func (b *Barrier) Parties() int { return b.parties }

// Waiting returns the number of parties arrived in the current
// generation. The value may be stale in concurrent contexts.
func (b *Barrier) Waiting() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.waiting
}

// Generation returns the number of times the barrier has tripped.
func (b *Barrier) Generation() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.generation
}
