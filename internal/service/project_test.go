package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
)

func newProjectService(projectRepo *fakeProjectRepo, reqRepo *fakeRequirementRepo) services.ProjectService {
	return NewProjectService(projectRepo, reqRepo, &fakeTxManager{}, testLogger())
}

func TestCreateProject_DefaultsAndOwnership(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeRequirementRepo())

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProjectDraft, project.Status)
	require.NotNil(t, project.CreatedBy)
	assert.Equal(t, "auth0|alice", *project.CreatedBy)
	assert.Equal(t, int64(1), project.Version)
	assert.NotNil(t, project.CreatedAt)
}

func TestCreateProject_StampsTimestampsForStore(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	svc := newProjectService(projectRepo, newFakeRequirementRepo())

	before := time.Now()
	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	// The store receives concrete timestamps, never nil.
	stored, err := projectRepo.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CreatedAt)
	require.NotNil(t, stored.UpdatedAt)
	assert.False(t, stored.CreatedAt.Before(before))
	assert.Equal(t, *stored.CreatedAt, *stored.UpdatedAt)
	assert.Equal(t, int64(1), stored.Version)
}

func TestUpdateProject_RefreshesUpdatedAt(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	svc := newProjectService(projectRepo, newFakeRequirementRepo())

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)
	createdAt := *project.CreatedAt

	base := time.Now()
	name := "Avionics v2"
	updated, err := svc.UpdateProject(context.Background(), project.ID, "auth0|alice", &services.UpdateProjectRequest{
		Version: 1,
		Name:    &name,
	})
	require.NoError(t, err)

	// updated_at moves to the mutation instant; created_at stays put.
	stored, err := projectRepo.GetByID(context.Background(), updated.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.UpdatedAt)
	assert.False(t, stored.UpdatedAt.Before(base))
	require.NotNil(t, stored.CreatedAt)
	assert.Equal(t, createdAt, *stored.CreatedAt)
}

func TestCreateProject_RequiresName(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeRequirementRepo())

	_, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateProject_RejectsUnknownStatus(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeRequirementRepo())

	bad := models.ProjectStatus("cancelled")
	_, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
		Status:  &bad,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateProject_PartialApply(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	svc := newProjectService(projectRepo, newFakeRequirementRepo())

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	desc := "flight computer requirements"
	updated, err := svc.UpdateProject(context.Background(), project.ID, "auth0|bob", &services.UpdateProjectRequest{
		Version:     1,
		Description: &desc,
	})
	require.NoError(t, err)

	assert.Equal(t, "Avionics", updated.Name)
	assert.Equal(t, &desc, updated.Description)
	assert.Equal(t, int64(2), updated.Version)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "auth0|bob", *updated.UpdatedBy)
}

func TestUpdateProject_StaleVersionConflicts(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	svc := newProjectService(projectRepo, newFakeRequirementRepo())

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	name := "Avionics v2"
	_, err = svc.UpdateProject(context.Background(), project.ID, "auth0|alice", &services.UpdateProjectRequest{
		Version: 1,
		Name:    &name,
	})
	require.NoError(t, err)

	// Same base version again: the first update already advanced the row.
	_, err = svc.UpdateProject(context.Background(), project.ID, "auth0|alice", &services.UpdateProjectRequest{
		Version: 1,
		Name:    &name,
	})
	require.Error(t, err)

	var conflict *domain.VersionConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(1), conflict.ExpectedVersion)
	assert.Equal(t, int64(2), conflict.StoredVersion)
}

func TestUpdateProject_RequiresBaseVersion(t *testing.T) {
	svc := newProjectService(newFakeProjectRepo(), newFakeRequirementRepo())

	name := "x"
	_, err := svc.UpdateProject(context.Background(), uuid.Nil, "auth0|alice", &services.UpdateProjectRequest{
		Name: &name,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestDeleteProject_CascadesRequirements(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	reqRepo := newFakeRequirementRepo()
	svc := newProjectService(projectRepo, reqRepo)

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		req := &models.Requirement{ProjectID: &project.ID, Title: "r"}
		require.NoError(t, reqRepo.Create(context.Background(), req))
	}

	require.NoError(t, svc.DeleteProject(context.Background(), project.ID))

	_, err = projectRepo.GetByID(context.Background(), project.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	left, err := reqRepo.List(context.Background(), repositories.RequirementFilter{ProjectID: &project.ID})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestDeleteProject_RequirementFailureLeavesProject(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	reqRepo := newFakeRequirementRepo()
	svc := newProjectService(projectRepo, reqRepo)

	project, err := svc.CreateProject(context.Background(), &services.CreateProjectRequest{
		OwnerID: "auth0|alice",
		Name:    "Avionics",
	})
	require.NoError(t, err)

	reqRepo.deleteByProjectErr = errors.New("connection reset")

	err = svc.DeleteProject(context.Background(), project.ID)
	require.Error(t, err)

	// The cascade aborted before the project row was touched.
	_, err = projectRepo.GetByID(context.Background(), project.ID)
	require.NoError(t, err)
}
