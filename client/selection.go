package client

import (
	"sync"

	"github.com/google/uuid"
)

// SelectionStore tracks which entities the user currently has selected,
// per entity kind. Selection has set semantics: selecting an already
// selected id is a no-op, never a duplicate. Order of first selection is
// preserved.
type SelectionStore struct {
	mu       sync.Mutex
	byKind   map[string][]uuid.UUID
	stateDir string
}

// NewSelectionStore creates an empty in-memory selection store.
func NewSelectionStore() *SelectionStore {
	return &SelectionStore{
		byKind: make(map[string][]uuid.UUID),
	}
}

// Select adds an id to the kind's selection. Duplicates are ignored.
func (s *SelectionStore) Select(kind string, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byKind[kind] {
		if existing == id {
			return
		}
	}
	s.byKind[kind] = append(s.byKind[kind], id)
	s.saveLocked()
}

// Deselect removes an id from the kind's selection. Removing an id that is
// not selected is a no-op.
func (s *SelectionStore) Deselect(kind string, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byKind[kind]
	for i, existing := range ids {
		if existing == id {
			s.byKind[kind] = append(ids[:i], ids[i+1:]...)
			s.saveLocked()
			return
		}
	}
}

// Selected returns a copy of the kind's selection in selection order.
func (s *SelectionStore) Selected(kind string) []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.byKind[kind]
	out := make([]uuid.UUID, len(ids))
	copy(out, ids)
	return out
}

// IsSelected reports whether the id is in the kind's selection.
func (s *SelectionStore) IsSelected(kind string, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byKind[kind] {
		if existing == id {
			return true
		}
	}
	return false
}

// Clear empties the kind's selection.
func (s *SelectionStore) Clear(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byKind, kind)
	s.saveLocked()
}
