package repositories

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// ExternalDocFilter narrows an external-doc listing by equality over one or
// two indexed columns. Nil fields are omitted from the query.
type ExternalDocFilter struct {
	CollectionID *uuid.UUID
	DocType      *string
}

// ExternalDocRepository defines persistence operations for external docs
type ExternalDocRepository interface {
	Create(ctx context.Context, doc *models.ExternalDoc) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ExternalDoc, error)
	List(ctx context.Context, filter ExternalDocFilter) ([]models.ExternalDoc, error)

	// Update persists with a compare-and-swap on version
	Update(ctx context.Context, doc *models.ExternalDoc) error
	Delete(ctx context.Context, id uuid.UUID) error
}
