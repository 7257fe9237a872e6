package repositories

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// CollectionFilter narrows a collection listing. A nil ParentID omits the
// constraint; RootsOnly lists collections with no parent.
type CollectionFilter struct {
	ParentID  *uuid.UUID
	RootsOnly bool
}

// CollectionRepository defines persistence operations for collections
type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	List(ctx context.Context, filter CollectionFilter) ([]models.Collection, error)

	// Update persists with a compare-and-swap on version
	Update(ctx context.Context, collection *models.Collection) error
	Delete(ctx context.Context, id uuid.UUID) error
}
