package postgres

import (
	"context"
	"fmt"


	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// UserProfileRepository implements the repositories.UserProfileRepository interface
type UserProfileRepository struct {
	pool   repositories.DBTX
	tables *TableNames
}

// NewUserProfileRepository creates a new user-profile repository
func NewUserProfileRepository(config *RepositoryConfig) repositories.UserProfileRepository {
	return &UserProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const userProfileColumns = `id, auth_id, display_name, avatar_url, job_title, department,
		theme, notification_pref, email_notifications, timezone, bio, tags,
		created_at, updated_at, created_by, updated_by, version`

func scanUserProfile(row interface{ Scan(dest ...any) error }, p *models.UserProfile) error {
	return row.Scan(
		&p.ID,
		&p.AuthID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.JobTitle,
		&p.Department,
		&p.Theme,
		&p.NotificationPref,
		&p.EmailNotifications,
		&p.Timezone,
		&p.Bio,
		&p.Tags,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.Version,
	)
}

// Create inserts a new profile for an auth-provider subject
func (r *UserProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (auth_id, display_name, avatar_url, job_title, department,
			theme, notification_pref, email_notifications, timezone, bio, tags,
			created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at, version
	`, r.tables.UserProfiles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.AuthID,
		profile.DisplayName,
		profile.AvatarURL,
		profile.JobTitle,
		profile.Department,
		profile.Theme,
		profile.NotificationPref,
		profile.EmailNotifications,
		profile.Timezone,
		profile.Bio,
		profile.Tags,
		profile.CreatedAt,
		profile.UpdatedAt,
		profile.CreatedBy,
		profile.UpdatedBy,
		profile.Version,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt, &profile.Version)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("profile for auth subject '%s' already exists", profile.AuthID),
				ResourceType: "user_profile",
			}
		}
		return fmt.Errorf("create user profile: %w", err)
	}

	return nil
}

// GetByAuthID retrieves the profile bridging the given auth subject
func (r *UserProfileRepository) GetByAuthID(ctx context.Context, authID string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE auth_id = $1`, userProfileColumns, r.tables.UserProfiles)

	var profile models.UserProfile
	executor := GetExecutor(ctx, r.pool)
	err := scanUserProfile(executor.QueryRow(ctx, query, authID), &profile)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("profile for %s: %w", authID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	return &profile, nil
}

// Update persists the profile's mutable fields with a compare-and-swap on version.
func (r *UserProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET display_name = $1, avatar_url = $2, job_title = $3, department = $4,
			theme = $5, notification_pref = $6, email_notifications = $7,
			timezone = $8, bio = $9, tags = $10,
			updated_at = $11, updated_by = $12, version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING updated_at, version
	`, r.tables.UserProfiles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.DisplayName,
		profile.AvatarURL,
		profile.JobTitle,
		profile.Department,
		profile.Theme,
		profile.NotificationPref,
		profile.EmailNotifications,
		profile.Timezone,
		profile.Bio,
		profile.Tags,
		profile.UpdatedAt,
		profile.UpdatedBy,
		profile.ID,
		profile.Version,
	).Scan(&profile.UpdatedAt, &profile.Version)

	if err != nil {
		if IsPgNoRowsError(err) {
			return resolveUpdateMiss(ctx, executor, r.tables.UserProfiles, "user profile", profile.ID, profile.Version)
		}
		return fmt.Errorf("update user profile: %w", err)
	}

	return nil
}
