package services

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// CreateCollectionRequest represents a request to create a collection
type CreateCollectionRequest struct {
	CreatorID   string              `json:"-"`
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	ParentID    *uuid.UUID          `json:"parent_id"`
	AccessLevel *models.AccessLevel `json:"access_level"`
	Tags        []string            `json:"tags"`
}

// UpdateCollectionRequest represents a partial update to a collection
type UpdateCollectionRequest struct {
	Version     int64               `json:"version"`
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	ParentID    *uuid.UUID          `json:"parent_id"`
	AccessLevel *models.AccessLevel `json:"access_level"`
	Tags        *[]string           `json:"tags"`
}

// CollectionService defines business logic operations for collections
type CollectionService interface {
	CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*models.Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)
	ListCollections(ctx context.Context, filter repositories.CollectionFilter) ([]models.Collection, error)
	UpdateCollection(ctx context.Context, id uuid.UUID, userID string, req *UpdateCollectionRequest) (*models.Collection, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) error
}
