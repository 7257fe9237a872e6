package client

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

// KindCollection is the entity kind used by the selection and recency stores.
const KindCollection = "collection"

// CollectionFilter narrows a collection listing. A nil ParentID omits the
// constraint; RootsOnly lists collections with no parent.
type CollectionFilter struct {
	ParentID  *uuid.UUID
	RootsOnly bool
}

func (f CollectionFilter) values() url.Values {
	v := url.Values{}
	if f.ParentID != nil {
		v.Set("parent_id", f.ParentID.String())
	}
	if f.RootsOnly {
		v.Set("roots", "true")
	}
	return v
}

// CollectionStore is the cached view of collections.
type CollectionStore struct {
	*store[models.Collection, *models.Collection]
}

func newCollectionStore(c *Client) *CollectionStore {
	return &CollectionStore{
		store: newStore[models.Collection, *models.Collection](c, "/api/collections", KindCollection, collectionMatches),
	}
}

func collectionMatches(filter url.Values, item *models.Collection) bool {
	if want := filter.Get("parent_id"); want != "" {
		if item.ParentID == nil || item.ParentID.String() != want {
			return false
		}
	}
	if filter.Get("roots") == "true" && item.ParentID != nil {
		return false
	}
	return true
}

// List returns collections matching the filter, from cache when possible.
func (s *CollectionStore) List(ctx context.Context, filter CollectionFilter) ([]*models.Collection, error) {
	return s.list(ctx, filter.values())
}

// Get returns one collection and records the access in the recency store.
func (s *CollectionStore) Get(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	collection, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.c.Recency.Touch(KindCollection, collection.ID, collection.Name)
	return collection, nil
}

// Create creates a collection and adds the confirmed copy to every cached
// list whose filter it satisfies.
func (s *CollectionStore) Create(ctx context.Context, collection *models.Collection) (*models.Collection, error) {
	return s.create(ctx, collection)
}

// Update applies a partial update using the cached version as the
// compare-and-swap base.
func (s *CollectionStore) Update(ctx context.Context, id uuid.UUID, req *services.UpdateCollectionRequest) (*models.Collection, error) {
	return s.update(ctx, id, req, func(v int64) { req.Version = v })
}

// Delete removes the collection server-side and scrubs it locally.
func (s *CollectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
