package client

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

// KindRequirement is the entity kind used by the selection and recency stores.
const KindRequirement = "requirement"

// RequirementFilter narrows a requirement listing. Nil fields are omitted
// from the query string entirely.
type RequirementFilter struct {
	ProjectID *uuid.UUID
	ParentID  *uuid.UUID
}

func (f RequirementFilter) values() url.Values {
	v := url.Values{}
	if f.ProjectID != nil {
		v.Set("project_id", f.ProjectID.String())
	}
	if f.ParentID != nil {
		v.Set("parent_id", f.ParentID.String())
	}
	return v
}

// RequirementStore is the cached view of requirements.
type RequirementStore struct {
	*store[models.Requirement, *models.Requirement]
}

func newRequirementStore(c *Client) *RequirementStore {
	return &RequirementStore{
		store: newStore[models.Requirement, *models.Requirement](c, "/api/requirements", KindRequirement, requirementMatches),
	}
}

// requirementMatches reports whether a requirement belongs in a list cached
// under the given filter. A filter key that is absent constrains nothing.
func requirementMatches(filter url.Values, item *models.Requirement) bool {
	if want := filter.Get("project_id"); want != "" {
		if item.ProjectID == nil || item.ProjectID.String() != want {
			return false
		}
	}
	if want := filter.Get("parent_id"); want != "" {
		if item.ParentID == nil || item.ParentID.String() != want {
			return false
		}
	}
	return true
}

// List returns requirements matching the filter, from cache when the same
// query was fetched before.
func (s *RequirementStore) List(ctx context.Context, filter RequirementFilter) ([]*models.Requirement, error) {
	return s.list(ctx, filter.values())
}

// Get returns one requirement and records the access in the recency store.
func (s *RequirementStore) Get(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	requirement, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.c.Recency.Touch(KindRequirement, requirement.ID, requirement.Title)
	return requirement, nil
}

// Create creates a requirement and adds the confirmed copy to every cached
// list whose filter it satisfies.
func (s *RequirementStore) Create(ctx context.Context, requirement *models.Requirement) (*models.Requirement, error) {
	return s.create(ctx, requirement)
}

// Update applies a partial update using the cached version as the
// compare-and-swap base. Fails with ErrNotCached when the requirement has
// not been fetched.
func (s *RequirementStore) Update(ctx context.Context, id uuid.UUID, req *services.UpdateRequirementRequest) (*models.Requirement, error) {
	return s.update(ctx, id, req, func(v int64) { req.Version = v })
}

// ApplyAnalysis stores a pipeline rewrite result on the requirement. Like
// Update it requires a cached copy for the version base.
func (s *RequirementStore) ApplyAnalysis(ctx context.Context, id uuid.UUID, req *services.ApplyAnalysisRequest) (*models.Requirement, error) {
	cached, ok := s.cache.getItem(id)
	if !ok {
		return nil, ErrNotCached
	}
	req.Version = cached.Version

	var updated models.Requirement
	if err := s.c.do(ctx, "POST", s.path+"/"+id.String()+"/analysis", nil, req, &updated); err != nil {
		return nil, err
	}

	s.cache.upsert(&updated, nil)
	return &updated, nil
}

// removeByProject scrubs every cached requirement belonging to the project,
// along with its selection and recency entries. Called when a project delete
// cascades server-side, so the caches never serve orphaned requirements.
func (s *RequirementStore) removeByProject(projectID uuid.UUID) {
	removed := s.cache.removeWhere(func(r *models.Requirement) bool {
		return r.ProjectID != nil && *r.ProjectID == projectID
	})
	for _, id := range removed {
		s.c.Selection.Deselect(KindRequirement, id)
		s.c.Recency.Remove(KindRequirement, id)
	}
}

// Delete removes the requirement server-side and scrubs it locally.
func (s *RequirementStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.delete(ctx, id)
}
