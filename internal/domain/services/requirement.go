package services

import (
	"context"

	"github.com/google/uuid"

	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// CreateRequirementRequest represents a request to create a requirement.
// ProjectID is required; ParentID optionally places the requirement under
// another requirement in the same project.
type CreateRequirementRequest struct {
	CreatorID          string                      `json:"-"`
	ProjectID          *uuid.UUID                  `json:"project_id"`
	ParentID           *uuid.UUID                  `json:"parent_id"`
	Title              string                      `json:"title"`
	Description        *string                     `json:"description"`
	AcceptanceCriteria []string                    `json:"acceptance_criteria"`
	Priority           *models.RequirementPriority `json:"priority"`
	Status             *models.RequirementStatus   `json:"status"`
	AssigneeID         *string                     `json:"assignee_id"`
	ReviewerID         *string                     `json:"reviewer_id"`
	Tags               []string                    `json:"tags"`
	OriginalText       *string                     `json:"original_text"`
}

// UpdateRequirementRequest represents a partial update to a requirement.
// Version carries the caller's base version for the compare-and-swap.
type UpdateRequirementRequest struct {
	Version            int64                       `json:"version"`
	ParentID           *uuid.UUID                  `json:"parent_id"`
	Title              *string                     `json:"title"`
	Description        *string                     `json:"description"`
	AcceptanceCriteria *[]string                   `json:"acceptance_criteria"`
	Priority           *models.RequirementPriority `json:"priority"`
	Status             *models.RequirementStatus   `json:"status"`
	AssigneeID         *string                     `json:"assignee_id"`
	ReviewerID         *string                     `json:"reviewer_id"`
	Tags               *[]string                   `json:"tags"`
}

// ApplyAnalysisRequest records the result of a pipeline rewrite run on a
// requirement. The current structured form, if any, is pushed onto the
// history list before the new one replaces it.
type ApplyAnalysisRequest struct {
	Version         int64          `json:"version"`
	OriginalText    *string        `json:"original_text"`
	Analysis        models.JSONMap `json:"analysis"`
	RewrittenEARS   *string        `json:"rewritten_ears"`
	RewrittenINCOSE *string        `json:"rewritten_incose"`
	SelectedFormat  *string        `json:"selected_format"`
}

// RequirementService defines business logic operations for requirements
type RequirementService interface {
	CreateRequirement(ctx context.Context, req *CreateRequirementRequest) (*models.Requirement, error)
	GetRequirement(ctx context.Context, id uuid.UUID) (*models.Requirement, error)
	ListRequirements(ctx context.Context, filter repositories.RequirementFilter) ([]models.Requirement, error)
	UpdateRequirement(ctx context.Context, id uuid.UUID, userID string, req *UpdateRequirementRequest) (*models.Requirement, error)
	DeleteRequirement(ctx context.Context, id uuid.UUID) error

	// ApplyAnalysis stores a pipeline rewrite result on the requirement
	ApplyAnalysis(ctx context.Context, id uuid.UUID, userID string, req *ApplyAnalysisRequest) (*models.Requirement, error)
}
