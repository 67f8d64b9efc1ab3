package utils

import "sync"

// ItemSet is a thread-safe set of item identifiers used for first-wins
// deduplication: Add reports whether the id was newly seen.
type ItemSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewItemSet creates an empty ItemSet.
func NewItemSet() *ItemSet {
	return &ItemSet{seen: make(map[string]struct{})}
}

// Add returns true if the id was newly added, false if already present.
func (s *ItemSet) Add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[id]; exists {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Contains returns true if the id has already been seen.
func (s *ItemSet) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[id]
	return exists
}

// Size returns the number of unique ids tracked.
func (s *ItemSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
