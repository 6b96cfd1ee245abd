package threads

import "time"

// Clock is the time source consulted by the rate-shaping helpers
// ([Debouncer], [Throttler]) and the [Scheduler]. Ticks is a monotonic
// millisecond counter; the zero point is arbitrary but fixed for the
// lifetime of the process.
//
// Production code uses [SystemClock]. Tests inject a fake via
// [WithClock] to drive time deterministically.
type Clock interface {
	// Ticks returns monotonic elapsed time in milliseconds.
	Ticks() int64

	// Sleep blocks the calling goroutine for ms milliseconds.
	// Non-positive values return immediately.
	Sleep(ms int64)
}

var clockEpoch = time.Now()

type systemClock struct{}

func (systemClock) Ticks() int64 {
	return time.Since(clockEpoch).Milliseconds()
}

func (systemClock) Sleep(ms int64) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// SystemClock returns the real wall clock backed by the Go runtime timer.
func SystemClock() Clock { return systemClock{} }
