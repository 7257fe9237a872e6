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

// requirementService implements the RequirementService interface
type requirementService struct {
	reqRepo     repositories.RequirementRepository
	projectRepo repositories.ProjectRepository
	logger      *slog.Logger
}

// NewRequirementService creates a new requirement service
func NewRequirementService(
	reqRepo repositories.RequirementRepository,
	projectRepo repositories.ProjectRepository,
	logger *slog.Logger,
) services.RequirementService {
	return &requirementService{
		reqRepo:     reqRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateRequirement creates a new requirement under a project
func (s *requirementService) CreateRequirement(ctx context.Context, req *services.CreateRequirementRequest) (*models.Requirement, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The project must exist before requirements can reference it
	if _, err := s.projectRepo.GetByID(ctx, *req.ProjectID); err != nil {
		return nil, err
	}

	// Parent must belong to the same project
	if req.ParentID != nil {
		parent, err := s.reqRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID == nil || *parent.ProjectID != *req.ProjectID {
			return nil, fmt.Errorf("%w: parent requirement belongs to a different project", domain.ErrValidation)
		}
	}

	priority := models.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}
	status := models.RequirementDraft
	if req.Status != nil {
		status = *req.Status
	}

	requirement := &models.Requirement{
		ProjectID:          req.ProjectID,
		ParentID:           req.ParentID,
		Title:              req.Title,
		Description:        req.Description,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Priority:           priority,
		Status:             status,
		AssigneeID:         req.AssigneeID,
		ReviewerID:         req.ReviewerID,
		Tags:               req.Tags,
		OriginalText:       req.OriginalText,
	}
	requirement.CreatedBy = &req.CreatorID
	requirement.UpdatedBy = &req.CreatorID
	stamp := time.Now()
	requirement.CreatedAt = &stamp
	requirement.UpdatedAt = &stamp
	requirement.Version = 1

	if err := s.reqRepo.Create(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement created",
		"id", requirement.ID,
		"project_id", req.ProjectID,
		"title", requirement.Title,
	)

	return requirement, nil
}

// GetRequirement retrieves a requirement by ID
func (s *requirementService) GetRequirement(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	return s.reqRepo.GetByID(ctx, id)
}

// ListRequirements retrieves requirements matching the filter
func (s *requirementService) ListRequirements(ctx context.Context, filter repositories.RequirementFilter) ([]models.Requirement, error) {
	return s.reqRepo.List(ctx, filter)
}

// UpdateRequirement applies a partial update with a compare-and-swap on the
// caller's base version.
func (s *requirementService) UpdateRequirement(ctx context.Context, id uuid.UUID, userID string, req *services.UpdateRequirementRequest) (*models.Requirement, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	requirement, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, fmt.Errorf("%w: requirement cannot be its own parent", domain.ErrValidation)
		}
		parent, err := s.reqRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ProjectID == nil || requirement.ProjectID == nil || *parent.ProjectID != *requirement.ProjectID {
			return nil, fmt.Errorf("%w: parent requirement belongs to a different project", domain.ErrValidation)
		}
		requirement.ParentID = req.ParentID
	}
	if req.Title != nil {
		requirement.Title = *req.Title
	}
	if req.Description != nil {
		requirement.Description = req.Description
	}
	if req.AcceptanceCriteria != nil {
		requirement.AcceptanceCriteria = *req.AcceptanceCriteria
	}
	if req.Priority != nil {
		requirement.Priority = *req.Priority
	}
	if req.Status != nil {
		requirement.Status = *req.Status
	}
	if req.AssigneeID != nil {
		requirement.AssigneeID = req.AssigneeID
	}
	if req.ReviewerID != nil {
		requirement.ReviewerID = req.ReviewerID
	}
	if req.Tags != nil {
		requirement.Tags = *req.Tags
	}

	requirement.Version = req.Version
	requirement.UpdatedBy = &userID
	stamp := time.Now()
	requirement.UpdatedAt = &stamp

	if err := s.reqRepo.Update(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement updated",
		"id", requirement.ID,
		"version", requirement.Version,
		"user_id", userID,
	)

	return requirement, nil
}

// DeleteRequirement deletes a requirement
func (s *requirementService) DeleteRequirement(ctx context.Context, id uuid.UUID) error {
	if err := s.reqRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("requirement deleted", "id", id)
	return nil
}

// ApplyAnalysis stores a pipeline rewrite result on the requirement. The
// previous structured analysis, if any, is pushed onto the history list
// before the new one replaces it.
func (s *requirementService) ApplyAnalysis(ctx context.Context, id uuid.UUID, userID string, req *services.ApplyAnalysisRequest) (*models.Requirement, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.Analysis, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	requirement, err := s.reqRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if requirement.CurrentAnalysis != nil {
		requirement.AnalysisHistory = append(requirement.AnalysisHistory, requirement.CurrentAnalysis)
	}
	requirement.CurrentAnalysis = req.Analysis

	if req.OriginalText != nil {
		requirement.OriginalText = req.OriginalText
	}
	if req.RewrittenEARS != nil {
		requirement.RewrittenEARS = req.RewrittenEARS
	}
	if req.RewrittenINCOSE != nil {
		requirement.RewrittenINCOSE = req.RewrittenINCOSE
	}
	if req.SelectedFormat != nil {
		requirement.SelectedFormat = req.SelectedFormat
	}

	requirement.Version = req.Version
	requirement.UpdatedBy = &userID
	stamp := time.Now()
	requirement.UpdatedAt = &stamp

	if err := s.reqRepo.Update(ctx, requirement); err != nil {
		return nil, err
	}

	s.logger.Info("requirement analysis applied",
		"id", requirement.ID,
		"history_len", len(requirement.AnalysisHistory),
		"user_id", userID,
	)

	return requirement, nil
}

// validateCreateRequest validates a requirement creation request
func (s *requirementService) validateCreateRequest(req *services.CreateRequirementRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.CreatorID, validation.Required),
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxRequirementTitleLength),
		),
		validation.Field(&req.Priority, validation.In(models.ValidRequirementPriorities...)),
		validation.Field(&req.Status, validation.In(models.ValidRequirementStatuses...)),
	)
}

// validateUpdateRequest validates a requirement update request
func (s *requirementService) validateUpdateRequest(req *services.UpdateRequirementRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.Title, validation.Length(1, config.MaxRequirementTitleLength)),
		validation.Field(&req.Priority, validation.In(models.ValidRequirementPriorities...)),
		validation.Field(&req.Status, validation.In(models.ValidRequirementStatuses...)),
	)
}
