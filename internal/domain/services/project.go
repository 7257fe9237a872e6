package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	OwnerID       string                `json:"-"`
	Name          string                `json:"name"`
	Description   *string               `json:"description"`
	Status        *models.ProjectStatus `json:"status"`
	StartDate     *time.Time            `json:"start_date"`
	TargetEndDate *time.Time            `json:"target_end_date"`
	Tags          []string              `json:"tags"`
	Metadata      models.JSONMap        `json:"metadata"`
}

// UpdateProjectRequest represents a partial update to a project. Version is
// the base version the caller last observed; the update is rejected with a
// version conflict if the stored version differs. Nil fields are left
// unchanged.
type UpdateProjectRequest struct {
	Version       int64                 `json:"version"`
	Name          *string               `json:"name"`
	Description   *string               `json:"description"`
	Status        *models.ProjectStatus `json:"status"`
	StartDate     *time.Time            `json:"start_date"`
	TargetEndDate *time.Time            `json:"target_end_date"`
	ActualEndDate *time.Time            `json:"actual_end_date"`
	Tags          *[]string             `json:"tags"`
	Metadata      models.JSONMap        `json:"metadata"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, ownerID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, userID string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject removes the project and every requirement referencing it.
	// The requirements bulk delete runs first; if it fails the project row
	// is left untouched.
	DeleteProject(ctx context.Context, id uuid.UUID) error
}
