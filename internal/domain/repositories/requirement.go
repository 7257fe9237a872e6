package repositories

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// RequirementFilter narrows a requirement listing by equality over indexed
// columns. Nil fields are omitted from the query entirely rather than
// matching nothing.
type RequirementFilter struct {
	ProjectID *uuid.UUID
	ParentID  *uuid.UUID
}

// RequirementRepository defines persistence operations for requirements
type RequirementRepository interface {
	// Create inserts a new requirement and fills in the server-assigned
	// fields (id, timestamps, version) on the passed model
	Create(ctx context.Context, req *models.Requirement) error

	// GetByID retrieves a requirement by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error)

	// List retrieves requirements matching the filter, ordered by created_at
	List(ctx context.Context, filter RequirementFilter) ([]models.Requirement, error)

	// Update persists the requirement's mutable fields with a
	// compare-and-swap on version (see ProjectRepository.Update)
	Update(ctx context.Context, req *models.Requirement) error

	// Delete removes a requirement row by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByProject bulk-deletes every requirement referencing the project
	// and returns the number of rows removed. Used by the project cascade
	// delete, which must run requirements-first inside a transaction.
	DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}
