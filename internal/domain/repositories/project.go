package repositories

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	// Create inserts a new project and fills in the server-assigned fields
	// (id, timestamps, version) on the passed model
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)

	// List retrieves all projects owned by a user, ordered by updated_at DESC
	List(ctx context.Context, ownerID string) ([]models.Project, error)

	// Update persists the project's mutable fields. The update succeeds only
	// if the stored version equals project.Version (compare-and-swap); on
	// success the model's Version and UpdatedAt reflect the stored row.
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project row by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
