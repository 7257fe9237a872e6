package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"reqwire/internal/config"
	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
)

// collectionService implements the CollectionService interface
type collectionService struct {
	collRepo repositories.CollectionRepository
	logger   *slog.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(
	collRepo repositories.CollectionRepository,
	logger *slog.Logger,
) services.CollectionService {
	return &collectionService{
		collRepo: collRepo,
		logger:   logger,
	}
}

// CreateCollection creates a new collection, optionally nested under a parent
func (s *collectionService) CreateCollection(ctx context.Context, req *services.CreateCollectionRequest) (*models.Collection, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.ParentID != nil {
		if _, err := s.collRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
	}

	access := models.AccessPrivate
	if req.AccessLevel != nil {
		access = *req.AccessLevel
	}

	collection := &models.Collection{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		AccessLevel: access,
		Tags:        req.Tags,
	}
	collection.CreatedBy = &req.CreatorID
	collection.UpdatedBy = &req.CreatorID
	stamp := time.Now()
	collection.CreatedAt = &stamp
	collection.UpdatedAt = &stamp
	collection.Version = 1

	if err := s.collRepo.Create(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Info("collection created",
		"id", collection.ID,
		"name", collection.Name,
		"parent_id", req.ParentID,
	)

	return collection, nil
}

// GetCollection retrieves a collection by ID
func (s *collectionService) GetCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return s.collRepo.GetByID(ctx, id)
}

// ListCollections retrieves collections matching the filter
func (s *collectionService) ListCollections(ctx context.Context, filter repositories.CollectionFilter) ([]models.Collection, error) {
	return s.collRepo.List(ctx, filter)
}

// UpdateCollection applies a partial update with a compare-and-swap on the
// caller's base version.
func (s *collectionService) UpdateCollection(ctx context.Context, id uuid.UUID, userID string, req *services.UpdateCollectionRequest) (*models.Collection, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	collection, err := s.collRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, fmt.Errorf("%w: collection cannot be its own parent", domain.ErrValidation)
		}
		if _, err := s.collRepo.GetByID(ctx, *req.ParentID); err != nil {
			return nil, err
		}
		collection.ParentID = req.ParentID
	}
	if req.Name != nil {
		collection.Name = *req.Name
	}
	if req.Description != nil {
		collection.Description = req.Description
	}
	if req.AccessLevel != nil {
		collection.AccessLevel = *req.AccessLevel
	}
	if req.Tags != nil {
		collection.Tags = *req.Tags
	}

	collection.Version = req.Version
	collection.UpdatedBy = &userID
	stamp := time.Now()
	collection.UpdatedAt = &stamp

	if err := s.collRepo.Update(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Info("collection updated",
		"id", collection.ID,
		"version", collection.Version,
		"user_id", userID,
	)

	return collection, nil
}

// DeleteCollection deletes a collection
func (s *collectionService) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	if err := s.collRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("collection deleted", "id", id)
	return nil
}

// validateCreateRequest validates a collection creation request
func (s *collectionService) validateCreateRequest(req *services.CreateCollectionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CreatorID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxCollectionNameLength),
		),
		validation.Field(&req.AccessLevel, validation.In(models.ValidAccessLevels...)),
	)
}

// validateUpdateRequest validates a collection update request
func (s *collectionService) validateUpdateRequest(req *services.UpdateCollectionRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.Name, validation.Length(1, config.MaxCollectionNameLength)),
		validation.Field(&req.AccessLevel, validation.In(models.ValidAccessLevels...)),
	)
}
