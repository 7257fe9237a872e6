package client

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecencyCap bounds the recency list. The oldest entry falls off when a new
// one would exceed it.
const RecencyCap = 50

// RecentItem is one entry in the recency list.
type RecentItem struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	AccessedAt time.Time `json:"accessed_at"`
}

// RecentRef is the projection returned by per-kind queries.
type RecentRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RecencyStore is a single bounded most-recently-used list shared by all
// entity kinds. Touching an (id, kind) that is already present moves it to
// the front and refreshes its name and timestamp.
type RecencyStore struct {
	mu       sync.Mutex
	items    []RecentItem
	stateDir string
}

// NewRecencyStore creates an empty in-memory recency store.
func NewRecencyStore() *RecencyStore {
	return &RecencyStore{}
}

// Touch records an access. Most recent first; the list never exceeds
// RecencyCap.
func (r *RecencyStore) Touch(kind string, id uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id && item.Kind == kind {
			r.items = append(r.items[:i], r.items[i+1:]...)
			break
		}
	}

	entry := RecentItem{ID: id, Name: name, Kind: kind, AccessedAt: time.Now().UTC()}
	r.items = append([]RecentItem{entry}, r.items...)
	if len(r.items) > RecencyCap {
		r.items = r.items[:RecencyCap]
	}
	r.saveLocked()
}

// Remove drops an (id, kind) from the list if present.
func (r *RecencyStore) Remove(kind string, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, item := range r.items {
		if item.ID == id && item.Kind == kind {
			r.items = append(r.items[:i], r.items[i+1:]...)
			r.saveLocked()
			return
		}
	}
}

// Recent returns up to limit entries, most recent first. limit <= 0 means
// all.
func (r *RecencyStore) Recent(limit int) []RecentItem {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.items)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]RecentItem, n)
	copy(out, r.items[:n])
	return out
}

// RecentByKind returns up to limit {id, name} refs of one kind, most recent
// first.
func (r *RecencyStore) RecentByKind(kind string, limit int) []RecentRef {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RecentRef
	for _, item := range r.items {
		if item.Kind != kind {
			continue
		}
		out = append(out, RecentRef{ID: item.ID, Name: item.Name})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
