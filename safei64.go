package threads

// SafeI64 is an int64 cell whose operations serialize through the
// cell's own monitor rather than hardware atomics. Callers may group
// several operations into one atomic region by bracketing them with
// [Enter] and [Exit] on the cell:
//
//	threads.Enter(counter)
//	if counter.Get() < limit {
//	    counter.Add(1)
//	}
//	threads.Exit(counter)
type SafeI64 struct {
	v int64
}

// NewSafeI64 creates a cell holding initial.
func NewSafeI64(initial int64) *SafeI64 {
	return &SafeI64{v: initial}
}

// Get returns the current value.
func (s *SafeI64) Get() int64 {
	Enter(s)
	defer Exit(s)
	return s.v
}

// Set stores v.
func (s *SafeI64) Set(v int64) {
	Enter(s)
	defer Exit(s)
	s.v = v
}

// Add adds delta and returns the updated value.
func (s *SafeI64) Add(delta int64) int64 {
	Enter(s)
	defer Exit(s)
	s.v += delta
	return s.v
}

// CompareExchange stores desired only if the current value equals
// expected. It returns the value observed before the update; the swap
// happened exactly when that value equals expected.
func (s *SafeI64) CompareExchange(expected, desired int64) int64 {
	Enter(s)
	defer Exit(s)
	prev := s.v
	if prev == expected {
		s.v = desired
	}
	return prev
}
