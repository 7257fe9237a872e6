package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"reqwire/internal/config"
	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
	"reqwire/internal/domain/services"
)

// externalDocService implements the ExternalDocService interface
type externalDocService struct {
	docRepo  repositories.ExternalDocRepository
	collRepo repositories.CollectionRepository
	logger   *slog.Logger
}

// NewExternalDocService creates a new external doc service
func NewExternalDocService(
	docRepo repositories.ExternalDocRepository,
	collRepo repositories.CollectionRepository,
	logger *slog.Logger,
) services.ExternalDocService {
	return &externalDocService{
		docRepo:  docRepo,
		collRepo: collRepo,
		logger:   logger,
	}
}

// CreateExternalDoc registers a reference to an external document
func (s *externalDocService) CreateExternalDoc(ctx context.Context, req *services.CreateExternalDocRequest) (*models.ExternalDoc, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.CollectionID != nil {
		if _, err := s.collRepo.GetByID(ctx, *req.CollectionID); err != nil {
			return nil, err
		}
	}

	status := "active"
	if req.Status != nil {
		status = *req.Status
	}

	doc := &models.ExternalDoc{
		CollectionID: req.CollectionID,
		Title:        req.Title,
		URL:          req.URL,
		DocType:      req.DocType,
		DocVersion:   req.DocVersion,
		Author:       req.Author,
		PublishedAt:  req.PublishedAt,
		Status:       status,
		Tags:         req.Tags,
	}
	doc.CreatedBy = &req.CreatorID
	doc.UpdatedBy = &req.CreatorID
	stamp := time.Now()
	doc.CreatedAt = &stamp
	doc.UpdatedAt = &stamp
	doc.Version = 1

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("external doc created",
		"id", doc.ID,
		"title", doc.Title,
		"collection_id", req.CollectionID,
	)

	return doc, nil
}

// GetExternalDoc retrieves an external doc by ID
func (s *externalDocService) GetExternalDoc(ctx context.Context, id uuid.UUID) (*models.ExternalDoc, error) {
	return s.docRepo.GetByID(ctx, id)
}

// ListExternalDocs retrieves external docs matching the filter
func (s *externalDocService) ListExternalDocs(ctx context.Context, filter repositories.ExternalDocFilter) ([]models.ExternalDoc, error) {
	return s.docRepo.List(ctx, filter)
}

// UpdateExternalDoc applies a partial update with a compare-and-swap on the
// caller's base version.
func (s *externalDocService) UpdateExternalDoc(ctx context.Context, id uuid.UUID, userID string, req *services.UpdateExternalDocRequest) (*models.ExternalDoc, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CollectionID != nil {
		if _, err := s.collRepo.GetByID(ctx, *req.CollectionID); err != nil {
			return nil, err
		}
		doc.CollectionID = req.CollectionID
	}
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.URL != nil {
		doc.URL = *req.URL
	}
	if req.DocType != nil {
		doc.DocType = *req.DocType
	}
	if req.DocVersion != nil {
		doc.DocVersion = req.DocVersion
	}
	if req.Author != nil {
		doc.Author = req.Author
	}
	if req.PublishedAt != nil {
		doc.PublishedAt = req.PublishedAt
	}
	if req.LastVerifiedAt != nil {
		doc.LastVerifiedAt = req.LastVerifiedAt
	}
	if req.Status != nil {
		doc.Status = *req.Status
	}
	if req.Tags != nil {
		doc.Tags = *req.Tags
	}

	doc.Version = req.Version
	doc.UpdatedBy = &userID
	stamp := time.Now()
	doc.UpdatedAt = &stamp

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("external doc updated",
		"id", doc.ID,
		"version", doc.Version,
		"user_id", userID,
	)

	return doc, nil
}

// DeleteExternalDoc deletes an external doc
func (s *externalDocService) DeleteExternalDoc(ctx context.Context, id uuid.UUID) error {
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("external doc deleted", "id", id)
	return nil
}

// validateCreateRequest validates an external doc creation request
func (s *externalDocService) validateCreateRequest(req *services.CreateExternalDocRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CreatorID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxDocTitleLength),
		),
		validation.Field(&req.URL,
			validation.Required,
			validation.Length(1, config.MaxURLLength),
			is.URL,
		),
		validation.Field(&req.DocType, validation.Required),
	)
}

// validateUpdateRequest validates an external doc update request
func (s *externalDocService) validateUpdateRequest(req *services.UpdateExternalDocRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.Title, validation.Length(1, config.MaxDocTitleLength)),
		validation.Field(&req.URL, validation.Length(1, config.MaxURLLength), is.URL),
	)
}
