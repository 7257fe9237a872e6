package client

import (
	"context"
	"net/url"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

// KindProject is the entity kind used by the selection and recency stores.
const KindProject = "project"

// ProjectStore is the cached view of the caller's projects.
type ProjectStore struct {
	*store[models.Project, *models.Project]
}

func newProjectStore(c *Client) *ProjectStore {
	// The project list is owner-scoped server-side and carries no filter,
	// so every created project belongs in it.
	return &ProjectStore{
		store: newStore[models.Project, *models.Project](c, "/api/projects", KindProject,
			func(filter url.Values, item *models.Project) bool { return true }),
	}
}

// List returns the caller's projects, from cache after the first fetch.
func (s *ProjectStore) List(ctx context.Context) ([]*models.Project, error) {
	return s.list(ctx, nil)
}

// Get returns one project and records the access in the recency store.
func (s *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.c.Recency.Touch(KindProject, project.ID, project.Name)
	return project, nil
}

// Create creates a project and adds the confirmed copy to the cached list.
func (s *ProjectStore) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	return s.create(ctx, project)
}

// Update applies a partial update using the cached version as the
// compare-and-swap base. Fails with ErrNotCached when the project has not
// been fetched.
func (s *ProjectStore) Update(ctx context.Context, id uuid.UUID, req *services.UpdateProjectRequest) (*models.Project, error) {
	return s.update(ctx, id, req, func(v int64) { req.Version = v })
}

// Delete removes the project server-side (cascading to its requirements)
// and scrubs it from every local store. The cascaded requirements are
// scrubbed too, whether or not a change subscription is running.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.delete(ctx, id); err != nil {
		return err
	}
	s.c.Requirements.removeByProject(id)
	return nil
}
