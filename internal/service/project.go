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

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	reqRepo     repositories.RequirementRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	reqRepo repositories.RequirementRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		reqRepo:     reqRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateProject creates a new project owned by the caller
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	status := models.ProjectDraft
	if req.Status != nil {
		status = *req.Status
	}

	project := &models.Project{
		Name:          req.Name,
		Description:   req.Description,
		Status:        status,
		StartDate:     req.StartDate,
		TargetEndDate: req.TargetEndDate,
		Tags:          req.Tags,
		Metadata:      req.Metadata,
	}
	project.CreatedBy = &req.OwnerID
	project.UpdatedBy = &req.OwnerID
	stamp := time.Now()
	project.CreatedAt = &stamp
	project.UpdatedAt = &stamp
	project.Version = 1

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"owner_id", req.OwnerID,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves all projects owned by a user
func (s *projectService) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	return s.projectRepo.List(ctx, ownerID)
}

// UpdateProject applies a partial update. The caller's base version travels
// on the model into the repository's compare-and-swap; a stale base comes
// back as a version conflict, never a silent overwrite.
func (s *projectService) UpdateProject(ctx context.Context, id uuid.UUID, userID string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.TargetEndDate != nil {
		project.TargetEndDate = req.TargetEndDate
	}
	if req.ActualEndDate != nil {
		project.ActualEndDate = req.ActualEndDate
	}
	if req.Tags != nil {
		project.Tags = *req.Tags
	}
	if req.Metadata != nil {
		project.Metadata = req.Metadata
	}

	project.Version = req.Version
	project.UpdatedBy = &userID
	stamp := time.Now()
	project.UpdatedAt = &stamp

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"version", project.Version,
		"user_id", userID,
	)

	return project, nil
}

// DeleteProject removes the project and every requirement referencing it.
// Both deletes run inside one transaction: if the requirements bulk delete
// fails the project row is untouched.
func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	var removed int64

	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		n, err := s.reqRepo.DeleteByProject(ctx, id)
		if err != nil {
			return fmt.Errorf("delete project requirements: %w", err)
		}
		removed = n

		return s.projectRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("project deleted",
		"id", id,
		"requirements_removed", removed,
	)

	return nil
}

// validateCreateRequest validates a project creation request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxProjectNameLength),
		),
		validation.Field(&req.Status, validation.In(models.ValidProjectStatuses...)),
	)
}

// validateUpdateRequest validates a project update request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Version, validation.Required, validation.Min(1)),
		validation.Field(&req.Name, validation.Length(1, config.MaxProjectNameLength)),
		validation.Field(&req.Status, validation.In(models.ValidProjectStatuses...)),
	)
}
