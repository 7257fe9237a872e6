package client

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

// KindExternalDoc is the entity kind used by the selection and recency stores.
const KindExternalDoc = "external_doc"

// ExternalDocFilter narrows an external-doc listing. Nil fields are omitted
// from the query string entirely.
type ExternalDocFilter struct {
	CollectionID *uuid.UUID
	DocType      *string
}

func (f ExternalDocFilter) values() url.Values {
	v := url.Values{}
	if f.CollectionID != nil {
		v.Set("collection_id", f.CollectionID.String())
	}
	if f.DocType != nil {
		v.Set("doc_type", *f.DocType)
	}
	return v
}

// ExternalDocStore is the cached view of external reference documents.
type ExternalDocStore struct {
	*store[models.ExternalDoc, *models.ExternalDoc]
}

func newExternalDocStore(c *Client) *ExternalDocStore {
	return &ExternalDocStore{
		store: newStore[models.ExternalDoc, *models.ExternalDoc](c, "/api/docs", KindExternalDoc, externalDocMatches),
	}
}

func externalDocMatches(filter url.Values, item *models.ExternalDoc) bool {
	if want := filter.Get("collection_id"); want != "" {
		if item.CollectionID == nil || item.CollectionID.String() != want {
			return false
		}
	}
	if want := filter.Get("doc_type"); want != "" && item.DocType != want {
		return false
	}
	return true
}

// List returns external docs matching the filter, from cache when possible.
func (s *ExternalDocStore) List(ctx context.Context, filter ExternalDocFilter) ([]*models.ExternalDoc, error) {
	return s.list(ctx, filter.values())
}

// Get returns one external doc and records the access in the recency store.
func (s *ExternalDocStore) Get(ctx context.Context, id uuid.UUID) (*models.ExternalDoc, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.c.Recency.Touch(KindExternalDoc, doc.ID, doc.Title)
	return doc, nil
}

// Create registers an external doc and adds the confirmed copy to every
// cached list whose filter it satisfies.
func (s *ExternalDocStore) Create(ctx context.Context, doc *models.ExternalDoc) (*models.ExternalDoc, error) {
	return s.create(ctx, doc)
}

// Update applies a partial update using the cached version as the
// compare-and-swap base.
func (s *ExternalDocStore) Update(ctx context.Context, id uuid.UUID, req *services.UpdateExternalDocRequest) (*models.ExternalDoc, error) {
	return s.update(ctx, id, req, func(v int64) { req.Version = v })
}

// Delete removes the external doc server-side and scrubs it locally.
func (s *ExternalDocStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
