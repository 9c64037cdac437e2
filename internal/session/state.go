package session

import (
	"sync"

	"pastforward/internal/era"
)

// State serializes updates to the item records of one active session. Every
// mutation goes through Apply, which returns the full snapshot that resulted
// from it so callers can mirror a consistent view.
//
// State also tracks which items have an operation in flight. Begin and End
// form an explicit guard: a second operation on the same era is refused until
// the first one finishes.
type State struct {
	mu       sync.Mutex
	items    map[era.Key]ItemRecord
	inflight map[era.Key]struct{}
}

// NewState builds a State seeded with the given records.
func NewState(items map[era.Key]ItemRecord) *State {
	return &State{
		items:    CloneItems(items),
		inflight: make(map[era.Key]struct{}),
	}
}

// Apply replaces the record for one era and returns a snapshot of the full
// item map as it stands after the update.
func (s *State) Apply(key era.Key, rec ItemRecord) map[era.Key]ItemRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[era.Key]ItemRecord)
	}
	s.items[key] = rec
	return CloneItems(s.items)
}

// Get returns the current record for one era.
func (s *State) Get(key era.Key) (ItemRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	return rec, ok
}

// Snapshot returns a copy of the full item map.
func (s *State) Snapshot() map[era.Key]ItemRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CloneItems(s.items)
}

// Begin marks an era as having an operation in flight. It reports false when
// the era is already busy, in which case the caller must not proceed.
func (s *State) Begin(key era.Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

// End clears the in-flight mark set by Begin.
func (s *State) End(key era.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}
