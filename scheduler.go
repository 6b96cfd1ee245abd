package threads

import (
	"strings"
	"sync"

	"golang.org/x/exp/slices"
)

// Scheduler is a poll-based registry of named delayed tasks. It runs no
// background goroutine: an entry becomes observable as due only when
// the host calls [Scheduler.Poll] or [Scheduler.IsDue].
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]int64 // name -> due tick
}

// NewScheduler creates an empty scheduler.
func NewScheduler(opts ...ClockOption) *Scheduler {
	cfg := clockConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Scheduler{
		clock:   cfg.orSystem(),
		entries: make(map[string]int64),
	}
}

// Schedule registers name to come due after delayMs milliseconds,
// replacing any existing entry of the same name. Negative delays are
// treated as 0 (due at the next poll).
func (s *Scheduler) Schedule(name string, delayMs int64) {
	if delayMs < 0 {
		delayMs = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = s.clock.Ticks() + delayMs
}

// Cancel removes name's entry. Reports whether an entry existed.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	delete(s.entries, name)
	return ok
}

// IsDue reports whether name is registered and its delay has elapsed.
// It does not remove the entry.
func (s *Scheduler) IsDue(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	dueAt, ok := s.entries[name]
	return ok && dueAt <= s.clock.Ticks()
}

// Poll atomically removes and returns the names of all entries whose
// delay has elapsed, ordered by due time, ties broken by name.
func (s *Scheduler) Poll() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Ticks()
	type entry struct {
		name  string
		dueAt int64
	}
	var due []entry
	for name, dueAt := range s.entries {
		if dueAt <= now {
			due = append(due, entry{name, dueAt})
		}
	}
	if len(due) == 0 {
		return nil
	}
	for _, e := range due {
		delete(s.entries, e.name)
	}
	slices.SortFunc(due, func(a, b entry) int {
		if a.dueAt != b.dueAt {
			if a.dueAt < b.dueAt {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})
	names := make([]string, len(due))
	for i, e := range due {
		names[i] = e.name
	}
	return names
}

// Len returns the number of registered entries, due or not.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
