package threads

import "sync"

type wrWaiter struct {
	waiter
	gid int64
}

// RwLock is a writer-preference reader/writer lock. A pending
// [RwLock.WriteEnter] blocks new readers even while no writer holds the
// lock, so a steady stream of readers cannot starve writers. Queued
// writers acquire in arrival order. The write side is re-entrant for
// the owning goroutine.
type RwLock struct {
	mu             sync.Mutex
	readers        int
	writerActive   bool
	writerOwner    int64
	writerDepth    int
	writersWaiting int
	writerQ        waitList[*wrWaiter]
	readerWake     chan struct{} // armed while readers are parked
}

// NewRwLock creates an unlocked reader/writer lock.
func NewRwLock() *RwLock {
	return &RwLock{}
}

// readerWakeLocked returns the broadcast channel parked readers block
// on, arming it on first use. Must be called with l.mu held.
func (l *RwLock) readerWakeLocked() chan struct{} {
	if l.readerWake == nil {
		l.readerWake = make(chan struct{})
	}
	return l.readerWake
}

// readerBroadcastLocked releases every parked reader and disarms the
// channel. Must be called with l.mu held.
func (l *RwLock) readerBroadcastLocked() {
	if l.readerWake != nil {
		close(l.readerWake)
		l.readerWake = nil
	}
}

// grantWriterLocked hands the lock to the longest-waiting writer once
// all readers have left. Must be called with l.mu held.
func (l *RwLock) grantWriterLocked() {
	if l.writerActive || l.readers > 0 {
		return
	}
	w, ok := l.writerQ.pop()
	if !ok {
		return
	}
	l.writersWaiting--
	l.writerActive = true
	l.writerOwner = w.gid
	l.writerDepth = 1
	w.granted = true
	w.wake()
}

// ReadEnter blocks while a writer is active or waiting, then registers
// the caller as a reader.
func (l *RwLock) ReadEnter() {
	l.mu.Lock()
	for l.writerActive || l.writersWaiting > 0 {
		wake := l.readerWakeLocked()
		l.mu.Unlock()
		<-wake
		l.mu.Lock()
	}
	l.readers++
	l.mu.Unlock()
}

// TryReadEnter registers a reader only if no writer is active or
// waiting. Reports whether the read lock was taken.
func (l *RwLock) TryReadEnter() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writerActive || l.writersWaiting > 0 {
		return false
	}
	l.readers++
	return true
}

// ReadExit releases one read hold. When the last reader leaves, the
// longest-waiting writer is granted. Panics if no reader holds the
// lock.
func (l *RwLock) ReadExit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.readers == 0 {
		panic("threads: RwLock.ReadExit: no readers")
	}
	l.readers--
	if l.readers == 0 {
		l.grantWriterLocked()
	}
}

// WriteEnter blocks until the caller holds the lock exclusively.
// Re-entrant for the current write owner.
func (l *RwLock) WriteEnter() {
	id := gid()

	l.mu.Lock()
	if l.writerActive && l.writerOwner == id {
		l.writerDepth++
		l.mu.Unlock()
		return
	}
	if !l.writerActive && l.readers == 0 && l.writersWaiting == 0 {
		l.writerActive = true
		l.writerOwner = id
		l.writerDepth = 1
		l.mu.Unlock()
		return
	}
	l.writersWaiting++
	w := &wrWaiter{waiter: waiter{ready: make(chan struct{})}, gid: id}
	l.writerQ.push(w)
	l.mu.Unlock()

	<-w.ready
}

// TryWriteEnter takes the lock exclusively only if it is immediately
// free of readers, writers, and queued writers. Re-entrant for the
// current write owner. Reports whether the write lock was taken.
func (l *RwLock) TryWriteEnter() bool {
	id := gid()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.writerActive && l.writerOwner == id {
		l.writerDepth++
		return true
	}
	if !l.writerActive && l.readers == 0 && l.writersWaiting == 0 {
		l.writerActive = true
		l.writerOwner = id
		l.writerDepth = 1
		return true
	}
	return false
}

// WriteExit releases one write hold. When the outermost hold is
// released, the next queued writer is granted; if none is queued,
// parked readers are released. Panics if the caller is not the write
// owner.
func (l *RwLock) WriteExit() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.writerActive || l.writerOwner != gid() {
		panic("threads: RwLock.WriteExit: not owner")
	}
	l.writerDepth--
	if l.writerDepth > 0 {
		return
	}
	l.writerActive = false
	l.writerOwner = 0
	l.grantWriterLocked()
	if !l.writerActive && l.writersWaiting == 0 {
		l.readerBroadcastLocked()
	}
}

// Readers returns the number of active readers.
// The value may be stale in concurrent contexts.
func (l *RwLock) Readers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readers
}

// IsWriteLocked reports whether a writer currently holds the lock.
// The value may be stale in concurrent contexts.
func (l *RwLock) IsWriteLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writerActive
}
