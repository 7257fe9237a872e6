package repositories

import (
	"context"

	"reqwire/internal/domain/models"
)

// UserProfileRepository defines persistence operations for user profiles
type UserProfileRepository interface {
	// Create inserts a new profile for an auth-provider subject
	Create(ctx context.Context, profile *models.UserProfile) error

	// GetByAuthID retrieves the profile bridging the given auth subject
	GetByAuthID(ctx context.Context, authID string) (*models.UserProfile, error)

	// Update persists with a compare-and-swap on version
	Update(ctx context.Context, profile *models.UserProfile) error
}
