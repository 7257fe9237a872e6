package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// CreateExternalDocRequest represents a request to register an external doc
type CreateExternalDocRequest struct {
	CreatorID    string     `json:"-"`
	CollectionID *uuid.UUID `json:"collection_id"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	DocType      string     `json:"doc_type"`
	DocVersion   *string    `json:"doc_version"`
	Author       *string    `json:"author"`
	PublishedAt  *time.Time `json:"published_at"`
	Status       *string    `json:"status"`
	Tags         []string   `json:"tags"`
}

// UpdateExternalDocRequest represents a partial update to an external doc
type UpdateExternalDocRequest struct {
	Version        int64      `json:"version"`
	CollectionID   *uuid.UUID `json:"collection_id"`
	Title          *string    `json:"title"`
	URL            *string    `json:"url"`
	DocType        *string    `json:"doc_type"`
	DocVersion     *string    `json:"doc_version"`
	Author         *string    `json:"author"`
	PublishedAt    *time.Time `json:"published_at"`
	LastVerifiedAt *time.Time `json:"last_verified_at"`
	Status         *string    `json:"status"`
	Tags           *[]string  `json:"tags"`
}

// ExternalDocService defines business logic operations for external docs
type ExternalDocService interface {
	CreateExternalDoc(ctx context.Context, req *CreateExternalDocRequest) (*models.ExternalDoc, error)
	GetExternalDoc(ctx context.Context, id uuid.UUID) (*models.ExternalDoc, error)
	ListExternalDocs(ctx context.Context, filter repositories.ExternalDocFilter) ([]models.ExternalDoc, error)
	UpdateExternalDoc(ctx context.Context, id uuid.UUID, userID string, req *UpdateExternalDocRequest) (*models.ExternalDoc, error)
	DeleteExternalDoc(ctx context.Context, id uuid.UUID) error
}
