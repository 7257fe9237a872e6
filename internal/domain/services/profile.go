package services

import (
	"context"

	"reqwire/internal/domain/models"
)

// UpdateProfileRequest represents a partial update to the caller's profile
type UpdateProfileRequest struct {
	Version            int64     `json:"version"`
	DisplayName        *string   `json:"display_name"`
	AvatarURL          *string   `json:"avatar_url"`
	JobTitle           *string   `json:"job_title"`
	Department         *string   `json:"department"`
	Theme              *string   `json:"theme"`
	NotificationPref   *string   `json:"notification_pref"`
	EmailNotifications *bool     `json:"email_notifications"`
	Timezone           *string   `json:"timezone"`
	Bio                *string   `json:"bio"`
	Tags               *[]string `json:"tags"`
}

// OnboardingResult reports what the explicit onboarding step created.
// Created is false when the user already had at least one project and the
// step was a no-op.
type OnboardingResult struct {
	Created     bool                `json:"created"`
	Project     *models.Project     `json:"project,omitempty"`
	Requirement *models.Requirement `json:"requirement,omitempty"`
}

// ProfileService defines business logic for user profiles and onboarding
type ProfileService interface {
	// GetProfile returns the caller's profile, creating a default one on
	// first access for a previously unseen auth subject
	GetProfile(ctx context.Context, authID string) (*models.UserProfile, error)

	// UpdateProfile applies a partial update with compare-and-swap on version
	UpdateProfile(ctx context.Context, authID string, req *UpdateProfileRequest) (*models.UserProfile, error)

	// EnsureOnboarded creates the starter "Getting Started" project and its
	// first requirement for users with zero projects. It is an explicit
	// account-setup step, never a side effect of a read path.
	EnsureOnboarded(ctx context.Context, authID string) (*OnboardingResult, error)
}
