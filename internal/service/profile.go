package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqwire/internal/config"
	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
)

// Starter content created by the explicit onboarding step.
const (
	onboardingProjectName      = "Getting Started"
	onboardingRequirementTitle = "Write your first requirement"
)

// profileService implements the ProfileService interface
type profileService struct {
	profileRepo repositories.UserProfileRepository
	projectRepo repositories.ProjectRepository
	reqRepo     repositories.RequirementRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	profileRepo repositories.UserProfileRepository,
	projectRepo repositories.ProjectRepository,
	reqRepo repositories.RequirementRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		projectRepo: projectRepo,
		reqRepo:     reqRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetProfile returns the caller's profile, creating a default one on first
// access for a previously unseen auth subject.
func (s *profileService) GetProfile(ctx context.Context, authID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByAuthID(ctx, authID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	profile = defaultProfile(authID)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// A concurrent first request may have won the insert
		if errors.Is(err, domain.ErrConflict) {
			return s.profileRepo.GetByAuthID(ctx, authID)
		}
		return nil, err
	}

	s.logger.Info("profile created", "auth_id", authID, "id", profile.ID)
	return profile, nil
}

// UpdateProfile applies a partial update with a compare-and-swap on the
// caller's base version.
func (s *profileService) UpdateProfile(ctx context.Context, authID string, req *services.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.DisplayName, validation.Length(1, config.MaxDisplayNameLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	profile, err := s.profileRepo.GetByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	if req.JobTitle != nil {
		profile.JobTitle = req.JobTitle
	}
	if req.Department != nil {
		profile.Department = req.Department
	}
	if req.Theme != nil {
		profile.Theme = *req.Theme
	}
	if req.NotificationPref != nil {
		profile.NotificationPref = *req.NotificationPref
	}
	if req.EmailNotifications != nil {
		profile.EmailNotifications = *req.EmailNotifications
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.Bio != nil {
		profile.Bio = req.Bio
	}
	if req.Tags != nil {
		profile.Tags = *req.Tags
	}

	profile.Version = req.Version
	profile.UpdatedBy = &authID
	stamp := time.Now()
	profile.UpdatedAt = &stamp

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated",
		"auth_id", authID,
		"version", profile.Version,
	)

	return profile, nil
}

// EnsureOnboarded creates the starter project and its first requirement for
// users with zero projects. Both inserts run in one transaction so a failure
// never leaves a starter project without its requirement.
func (s *profileService) EnsureOnboarded(ctx context.Context, authID string) (*services.OnboardingResult, error) {
	projects, err := s.projectRepo.List(ctx, authID)
	if err != nil {
		return nil, err
	}
	if len(projects) > 0 {
		return &services.OnboardingResult{Created: false}, nil
	}

	description := "A starter project to help you learn the ropes."
	project := &models.Project{
		Name:        onboardingProjectName,
		Description: &description,
		Status:      models.ProjectActive,
		Tags:        []string{"starter"},
	}
	project.CreatedBy = &authID
	project.UpdatedBy = &authID
	stamp := time.Now()
	project.CreatedAt = &stamp
	project.UpdatedAt = &stamp
	project.Version = 1

	reqDescription := "Capture one need your system must satisfy. Keep it testable."
	requirement := &models.Requirement{
		Title:       onboardingRequirementTitle,
		Description: &reqDescription,
		Priority:    models.PriorityMedium,
		Status:      models.RequirementDraft,
		Tags:        []string{"starter"},
	}
	requirement.CreatedBy = &authID
	requirement.UpdatedBy = &authID
	requirement.CreatedAt = &stamp
	requirement.UpdatedAt = &stamp
	requirement.Version = 1

	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.projectRepo.Create(ctx, project); err != nil {
			return fmt.Errorf("create starter project: %w", err)
		}
		requirement.ProjectID = &project.ID
		if err := s.reqRepo.Create(ctx, requirement); err != nil {
			return fmt.Errorf("create starter requirement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user onboarded",
		"auth_id", authID,
		"project_id", project.ID,
		"requirement_id", requirement.ID,
	)

	return &services.OnboardingResult{
		Created:     true,
		Project:     project,
		Requirement: requirement,
	}, nil
}

// defaultProfile builds the profile record used for a first-time user.
func defaultProfile(authID string) *models.UserProfile {
	profile := &models.UserProfile{
		AuthID:             authID,
		DisplayName:        "New User",
		Theme:              "system",
		NotificationPref:   "mentions",
		EmailNotifications: true,
		Timezone:           "UTC",
	}
	profile.CreatedBy = &authID
	profile.UpdatedBy = &authID
	stamp := time.Now()
	profile.CreatedAt = &stamp
	profile.UpdatedAt = &stamp
	profile.Version = 1
	return profile
}
