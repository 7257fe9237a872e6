package models

import "github.com/google/uuid"

// RequirementPriority enumerates requirement priorities.
type RequirementPriority string

const (
	PriorityCritical RequirementPriority = "critical"
	PriorityHigh     RequirementPriority = "high"
	PriorityMedium   RequirementPriority = "medium"
	PriorityLow      RequirementPriority = "low"
)

// ValidRequirementPriorities lists every accepted priority value.
var ValidRequirementPriorities = []interface{}{
	PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow,
}

// RequirementStatus enumerates the review/implementation states of a requirement.
type RequirementStatus string

const (
	RequirementDraft         RequirementStatus = "draft"
	RequirementPendingReview RequirementStatus = "pending_review"
	RequirementApproved      RequirementStatus = "approved"
	RequirementInProgress    RequirementStatus = "in_progress"
	RequirementTesting       RequirementStatus = "testing"
	RequirementCompleted     RequirementStatus = "completed"
	RequirementRejected      RequirementStatus = "rejected"
)

// ValidRequirementStatuses lists every accepted requirement status value.
var ValidRequirementStatuses = []interface{}{
	RequirementDraft, RequirementPendingReview, RequirementApproved,
	RequirementInProgress, RequirementTesting, RequirementCompleted,
	RequirementRejected,
}

// Requirement is a single requirement inside a project. ParentID forms a
// self-referential tree for hierarchical decomposition; cycle prevention is
// a caller responsibility, not enforced here.
type Requirement struct {
	Base
	ProjectID          *uuid.UUID          `json:"project_id" db:"project_id"`
	ParentID           *uuid.UUID          `json:"parent_id" db:"parent_id"`
	Title              string              `json:"title" db:"title"`
	Description        *string             `json:"description" db:"description"`
	AcceptanceCriteria []string            `json:"acceptance_criteria" db:"acceptance_criteria"`
	Priority           RequirementPriority `json:"priority" db:"priority"`
	Status             RequirementStatus   `json:"status" db:"status"`
	AssigneeID         *string             `json:"assignee_id" db:"assignee_id"`
	ReviewerID         *string             `json:"reviewer_id" db:"reviewer_id"`
	Tags               []string            `json:"tags" db:"tags"`

	// Analysis lifecycle: the pipeline-rewritten forms of the requirement text.
	OriginalText    *string   `json:"original_text" db:"original_text"`
	CurrentAnalysis JSONMap   `json:"current_analysis" db:"current_analysis"`
	AnalysisHistory []JSONMap `json:"analysis_history" db:"analysis_history"`
	RewrittenEARS   *string   `json:"rewritten_ears" db:"rewritten_ears"`
	RewrittenINCOSE *string   `json:"rewritten_incose" db:"rewritten_incose"`
	SelectedFormat  *string   `json:"selected_format" db:"selected_format"`
}
