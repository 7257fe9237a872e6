package client

import (
	"net/url"
	"sync"

	"github.com/google/uuid"
)

// queryCache holds confirmed server state for one entity type: list results
// keyed by their canonical query string, plus single entities keyed by id.
//
// Every cache slot carries a generation counter. A fetch snapshots the
// generation before going to the network and commits only if it is
// unchanged, so a slow response issued before an invalidation or overwrite
// can never clobber newer data.
type queryCache[T any] struct {
	mu    sync.Mutex
	lists map[string]*listEntry[T]
	items map[uuid.UUID]*T
	gens  map[string]uint64

	idOf func(*T) uuid.UUID
}

type listEntry[T any] struct {
	filter url.Values
	items  []*T
}

func newQueryCache[T any](idOf func(*T) uuid.UUID) *queryCache[T] {
	return &queryCache[T]{
		lists: make(map[string]*listEntry[T]),
		items: make(map[uuid.UUID]*T),
		gens:  make(map[string]uint64),
		idOf:  idOf,
	}
}

func itemKey(id uuid.UUID) string { return "item:" + id.String() }

func listKey(query string) string { return "list:" + query }

// snapshot returns the current generation for a cache slot.
func (c *queryCache[T]) snapshot(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key]
}

// getList returns a copy of the cached list for a query, if present.
func (c *queryCache[T]) getList(query string) ([]*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lists[listKey(query)]
	if !ok {
		return nil, false
	}
	out := make([]*T, len(entry.items))
	copy(out, entry.items)
	return out, true
}

// storeList commits a fetched list if the slot's generation still matches
// the pre-fetch snapshot. Returns false when the response was stale and
// discarded. Fetched entities also refresh the single-entity cache.
func (c *queryCache[T]) storeList(query string, filter url.Values, gen uint64, items []*T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := listKey(query)
	if c.gens[key] != gen {
		return false
	}
	c.lists[key] = &listEntry[T]{filter: filter, items: items}
	for _, item := range items {
		c.items[c.idOf(item)] = item
	}
	return true
}

// getItem returns the cached entity for an id, if present.
func (c *queryCache[T]) getItem(id uuid.UUID) (*T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item, ok := c.items[id]
	return item, ok
}

// storeItem commits a fetched entity under the same staleness rule as
// storeList.
func (c *queryCache[T]) storeItem(id uuid.UUID, gen uint64, item *T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[itemKey(id)] != gen {
		return false
	}
	c.items[id] = item
	return true
}

// invalidateList drops one cached list and bumps its generation so
// in-flight fetches for the old state are discarded.
func (c *queryCache[T]) invalidateList(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := listKey(query)
	delete(c.lists, key)
	c.gens[key]++
}

// invalidateItem drops one cached entity and bumps its generation.
func (c *queryCache[T]) invalidateItem(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	c.gens[itemKey(id)]++
}

// appendMatching adds a confirmed new entity to every cached list whose
// filter the entity satisfies. Lists for other scopes are left untouched.
func (c *queryCache[T]) appendMatching(item *T, matches func(filter url.Values, item *T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[c.idOf(item)] = item
	for key, entry := range c.lists {
		if matches(entry.filter, item) {
			entry.items = append(entry.items, item)
			c.gens[key]++
		}
	}
}

// upsert replaces the entity by id in every cached list that holds it and,
// when matches is non-nil, appends it to matching lists that do not. The
// single-entity slot is refreshed too. Applying the same confirmed state
// twice is a no-op.
func (c *queryCache[T]) upsert(item *T, matches func(filter url.Values, item *T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.idOf(item)
	c.items[id] = item

	for key, entry := range c.lists {
		replaced := false
		for i, existing := range entry.items {
			if c.idOf(existing) == id {
				entry.items[i] = item
				replaced = true
				break
			}
		}
		if !replaced && matches != nil && matches(entry.filter, item) {
			entry.items = append(entry.items, item)
		}
		c.gens[key]++
	}
}

// remove deletes the entity by id from every cached list and from the
// single-entity cache.
func (c *queryCache[T]) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, id)
	c.gens[itemKey(id)]++

	for key, entry := range c.lists {
		for i, existing := range entry.items {
			if c.idOf(existing) == id {
				entry.items = append(entry.items[:i], entry.items[i+1:]...)
				c.gens[key]++
				break
			}
		}
	}
}

// removeWhere deletes every cached entity matching pred from the lists and
// the single-entity cache, returning the removed ids.
func (c *queryCache[T]) removeWhere(pred func(*T) bool) []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed []uuid.UUID
	for id, item := range c.items {
		if pred(item) {
			delete(c.items, id)
			c.gens[itemKey(id)]++
			removed = append(removed, id)
		}
	}

	for key, entry := range c.lists {
		kept := entry.items[:0]
		for _, item := range entry.items {
			if !pred(item) {
				kept = append(kept, item)
			}
		}
		if len(kept) != len(entry.items) {
			entry.items = kept
			c.gens[key]++
		}
	}
	return removed
}

// clear drops everything, bumping every generation so in-flight responses
// for the old state are discarded.
func (c *queryCache[T]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.gens {
		c.gens[key]++
	}
	c.lists = make(map[string]*listEntry[T])
	c.items = make(map[uuid.UUID]*T)
}
