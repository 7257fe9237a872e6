package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/services"
)

func newProfileService(profileRepo *fakeProfileRepo, projectRepo *fakeProjectRepo, reqRepo *fakeRequirementRepo) services.ProfileService {
	return NewProfileService(profileRepo, projectRepo, reqRepo, &fakeTxManager{}, testLogger())
}

func TestGetProfile_CreatesDefaultOnFirstAccess(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	svc := newProfileService(profileRepo, newFakeProjectRepo(), newFakeRequirementRepo())

	profile, err := svc.GetProfile(context.Background(), "auth0|alice")
	require.NoError(t, err)

	assert.Equal(t, "auth0|alice", profile.AuthID)
	assert.Equal(t, "New User", profile.DisplayName)
	assert.Equal(t, "system", profile.Theme)
	assert.True(t, profile.EmailNotifications)
	assert.Equal(t, int64(1), profile.Version)

	// Second access returns the stored profile, not a fresh default.
	again, err := svc.GetProfile(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestGetProfile_ConcurrentFirstAccessRefetches(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	svc := newProfileService(profileRepo, newFakeProjectRepo(), newFakeRequirementRepo())

	// Simulate another request winning the insert between our miss and
	// our create.
	stored := defaultProfile("auth0|alice")
	require.NoError(t, profileRepo.Create(context.Background(), stored))
	profileRepo.createErr = &domain.ConflictError{Message: "profile exists", ResourceType: "user_profile"}

	profile, err := svc.GetProfile(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, profile.ID)
}

func TestUpdateProfile_PartialApply(t *testing.T) {
	profileRepo := newFakeProfileRepo()
	svc := newProfileService(profileRepo, newFakeProjectRepo(), newFakeRequirementRepo())

	_, err := svc.GetProfile(context.Background(), "auth0|alice")
	require.NoError(t, err)

	name := "Alice"
	theme := "dark"
	updated, err := svc.UpdateProfile(context.Background(), "auth0|alice", &services.UpdateProfileRequest{
		Version:     1,
		DisplayName: &name,
		Theme:       &theme,
	})
	require.NoError(t, err)

	assert.Equal(t, "Alice", updated.DisplayName)
	assert.Equal(t, "dark", updated.Theme)
	assert.Equal(t, "UTC", updated.Timezone)
	assert.Equal(t, int64(2), updated.Version)
}

func TestEnsureOnboarded_NoopWithExistingProjects(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	svc := newProfileService(newFakeProfileRepo(), projectRepo, newFakeRequirementRepo())

	seedProject(t, projectRepo, "auth0|alice")

	result, err := svc.EnsureOnboarded(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Nil(t, result.Project)
}

func TestEnsureOnboarded_CreatesStarterPair(t *testing.T) {
	projectRepo := newFakeProjectRepo()
	reqRepo := newFakeRequirementRepo()
	svc := newProfileService(newFakeProfileRepo(), projectRepo, reqRepo)

	result, err := svc.EnsureOnboarded(context.Background(), "auth0|alice")
	require.NoError(t, err)

	assert.True(t, result.Created)
	require.NotNil(t, result.Project)
	require.NotNil(t, result.Requirement)
	assert.Equal(t, models.ProjectActive, result.Project.Status)
	require.NotNil(t, result.Requirement.ProjectID)
	assert.Equal(t, result.Project.ID, *result.Requirement.ProjectID)

	// Running it again must not create a second starter project.
	again, err := svc.EnsureOnboarded(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.False(t, again.Created)
}
