package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProjectRepo is an in-memory ProjectRepository with the same
// compare-and-swap semantics as the real store. It stores whatever the
// caller hands over, assigning only the ID, so tests observe exactly the
// timestamps and version the service stamped. Error fields, when set,
// short-circuit the corresponding operation.
type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]models.Project

	createErr error
	deleteErr error
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]models.Project)}
}

func (r *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	project.ID = uuid.New()
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProjectRepo) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Project{}
	for _, p := range r.projects {
		if p.CreatedBy != nil && *p.CreatedBy == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Update(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.projects[project.ID]
	if !ok {
		return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
	}
	if stored.Version != project.Version {
		return &domain.VersionConflictError{
			ResourceType:    "project",
			ResourceID:      project.ID.String(),
			ExpectedVersion: project.Version,
			StoredVersion:   stored.Version,
		}
	}
	project.Version++
	r.projects[project.ID] = *project
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	delete(r.projects, id)
	return nil
}

// fakeRequirementRepo is an in-memory RequirementRepository.
type fakeRequirementRepo struct {
	mu   sync.Mutex
	reqs map[uuid.UUID]models.Requirement

	deleteByProjectErr error
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{reqs: make(map[uuid.UUID]models.Requirement)}
}

func (r *fakeRequirementRepo) Create(ctx context.Context, req *models.Requirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.ID = uuid.New()
	r.reqs[req.ID] = *req
	return nil
}

func (r *fakeRequirementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.reqs[id]
	if !ok {
		return nil, fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	return &m, nil
}

func (r *fakeRequirementRepo) List(ctx context.Context, filter repositories.RequirementFilter) ([]models.Requirement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Requirement{}
	for _, m := range r.reqs {
		if filter.ProjectID != nil && (m.ProjectID == nil || *m.ProjectID != *filter.ProjectID) {
			continue
		}
		if filter.ParentID != nil && (m.ParentID == nil || *m.ParentID != *filter.ParentID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeRequirementRepo) Update(ctx context.Context, req *models.Requirement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.reqs[req.ID]
	if !ok {
		return fmt.Errorf("requirement %s: %w", req.ID, domain.ErrNotFound)
	}
	if stored.Version != req.Version {
		return &domain.VersionConflictError{
			ResourceType:    "requirement",
			ResourceID:      req.ID.String(),
			ExpectedVersion: req.Version,
			StoredVersion:   stored.Version,
		}
	}
	req.Version++
	r.reqs[req.ID] = *req
	return nil
}

func (r *fakeRequirementRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reqs[id]; !ok {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}
	delete(r.reqs, id)
	return nil
}

func (r *fakeRequirementRepo) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	if r.deleteByProjectErr != nil {
		return 0, r.deleteByProjectErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, m := range r.reqs {
		if m.ProjectID != nil && *m.ProjectID == projectID {
			delete(r.reqs, id)
			n++
		}
	}
	return n, nil
}

// fakeProfileRepo is an in-memory UserProfileRepository keyed by auth
// subject.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.UserProfile

	createErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]models.UserProfile)}
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.AuthID]; ok {
		return &domain.ConflictError{Message: "profile exists", ResourceType: "user_profile"}
	}
	profile.ID = uuid.New()
	r.profiles[profile.AuthID] = *profile
	return nil
}

func (r *fakeProfileRepo) GetByAuthID(ctx context.Context, authID string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[authID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", authID, domain.ErrNotFound)
	}
	return &p, nil
}

func (r *fakeProfileRepo) Update(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.profiles[profile.AuthID]
	if !ok {
		return fmt.Errorf("profile %s: %w", profile.AuthID, domain.ErrNotFound)
	}
	if stored.Version != profile.Version {
		return &domain.VersionConflictError{
			ResourceType:    "user_profile",
			ResourceID:      profile.ID.String(),
			ExpectedVersion: profile.Version,
			StoredVersion:   stored.Version,
		}
	}
	profile.Version++
	r.profiles[profile.AuthID] = *profile
	return nil
}

// fakeTxManager runs the function directly and counts invocations.
// Atomicity is asserted through error propagation: when the function fails,
// tests verify no later step in it took effect.
type fakeTxManager struct {
	calls int
}

func (tm *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.calls++
	return fn(ctx)
}
