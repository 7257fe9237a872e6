package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// ErrNotCached is returned by update operations when the entity has never
// been fetched. Updates are fail-closed: without a cached copy there is no
// base version to send, so the client refuses rather than guessing.
var ErrNotCached = errors.New("entity not cached: fetch it before updating")

// baseHolder is satisfied by every entity model via the embedded Base.
type baseHolder interface {
	GetBase() *models.Base
}

// store is the shared cache-and-fetch plumbing under the per-entity stores.
type store[T any, PT interface {
	*T
	baseHolder
}] struct {
	c     *Client
	cache *queryCache[T]
	path  string
	kind  string

	// matches reports whether an entity belongs in a cached list's scope
	matches func(filter url.Values, item *T) bool
}

func newStore[T any, PT interface {
	*T
	baseHolder
}](c *Client, path, kind string, matches func(filter url.Values, item *T) bool) *store[T, PT] {
	return &store[T, PT]{
		c: c,
		cache: newQueryCache[T](func(item *T) uuid.UUID {
			return PT(item).GetBase().ID
		}),
		path:    path,
		kind:    kind,
		matches: matches,
	}
}

// list returns the entities matching the filter, from cache when the same
// query has been fetched before. Nil filter values must already be omitted
// by the caller.
func (s *store[T, PT]) list(ctx context.Context, filter url.Values) ([]*T, error) {
	query := filter.Encode()
	if cached, ok := s.cache.getList(query); ok {
		return cached, nil
	}

	gen := s.cache.snapshot(listKey(query))

	var fetched []T
	if err := s.c.get(ctx, s.path, filter, &fetched); err != nil {
		return nil, err
	}

	items := make([]*T, len(fetched))
	for i := range fetched {
		items[i] = &fetched[i]
	}

	if !s.cache.storeList(query, filter, gen, items) {
		s.c.logger.Debug("discarded stale list response", "kind", s.kind, "query", query)
	}
	return items, nil
}

// get returns one entity, from cache when present.
func (s *store[T, PT]) get(ctx context.Context, id uuid.UUID) (*T, error) {
	if cached, ok := s.cache.getItem(id); ok {
		return cached, nil
	}

	gen := s.cache.snapshot(itemKey(id))

	item := new(T)
	if err := s.c.get(ctx, s.path+"/"+id.String(), nil, item); err != nil {
		return nil, err
	}

	if !s.cache.storeItem(id, gen, item) {
		s.c.logger.Debug("discarded stale entity response", "kind", s.kind, "id", id)
	}
	return item, nil
}

// create sends the entity with the well-known initial metadata (version 1,
// both timestamps set to now) and, once the server confirms it, appends the
// confirmed copy to every cached list whose scope matches. Nothing is
// cached before confirmation.
func (s *store[T, PT]) create(ctx context.Context, item PT) (*T, error) {
	now := time.Now().UTC()
	base := item.GetBase()
	base.Version = 1
	base.CreatedAt = &now
	base.UpdatedAt = &now

	created := new(T)
	if err := s.c.do(ctx, http.MethodPost, s.path, nil, item, created); err != nil {
		return nil, err
	}

	s.cache.appendMatching(created, s.matches)
	return created, nil
}

// update sends a partial update carrying the cached base version. Absent a
// cached copy it fails closed with ErrNotCached. On confirmation the server
// copy replaces the entity everywhere it is cached.
func (s *store[T, PT]) update(ctx context.Context, id uuid.UUID, body interface{}, setVersion func(int64)) (*T, error) {
	cached, ok := s.cache.getItem(id)
	if !ok {
		return nil, fmt.Errorf("%w (%s %s)", ErrNotCached, s.kind, id)
	}
	setVersion(PT(cached).GetBase().Version)

	updated := new(T)
	if err := s.c.do(ctx, http.MethodPatch, s.path+"/"+id.String(), nil, body, updated); err != nil {
		return nil, err
	}

	s.cache.upsert(updated, nil)
	return updated, nil
}

// delete removes the entity server-side, then scrubs it from every local
// store: list caches, the single-entity cache, selection, and recency.
func (s *store[T, PT]) delete(ctx context.Context, id uuid.UUID) error {
	if err := s.c.do(ctx, http.MethodDelete, s.path+"/"+id.String(), nil, nil, nil); err != nil {
		return err
	}

	s.cache.remove(id)
	s.c.Selection.Deselect(s.kind, id)
	s.c.Recency.Remove(s.kind, id)
	return nil
}
