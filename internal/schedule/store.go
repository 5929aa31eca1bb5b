package schedule

import "sync"

// Store holds the live schedule behind a whole-reference swap. A reload
// replaces the entire list at once, so a concurrent reader sees either the
// fully-old or fully-new schedule, never a partial one.
type Store struct {
	mu    sync.RWMutex
	sched Schedule
}

// NewStore creates a Store, optionally seeded with an initial schedule.
func NewStore(initial Schedule) *Store {
	return &Store{sched: initial}
}

// Replace swaps in a new schedule.
func (s *Store) Replace(next Schedule) {
	s.mu.Lock()
	s.sched = next
	s.mu.Unlock()
}

// Snapshot returns the current schedule reference. The returned slice must
// be treated as read-only.
func (s *Store) Snapshot() Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sched
}
