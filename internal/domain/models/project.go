package models

import "time"

// ProjectStatus enumerates the lifecycle states of a project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// ValidProjectStatuses lists every accepted project status value.
var ValidProjectStatuses = []interface{}{
	ProjectDraft, ProjectActive, ProjectOnHold, ProjectCompleted, ProjectArchived,
}

// Project is a top-level container for requirements.
type Project struct {
	Base
	Name          string        `json:"name" db:"name"`
	Description   *string       `json:"description" db:"description"`
	Status        ProjectStatus `json:"status" db:"status"`
	StartDate     *time.Time    `json:"start_date" db:"start_date"`
	TargetEndDate *time.Time    `json:"target_end_date" db:"target_end_date"`
	ActualEndDate *time.Time    `json:"actual_end_date" db:"actual_end_date"`
	Tags          []string      `json:"tags" db:"tags"`
	Metadata      JSONMap       `json:"metadata" db:"metadata"`
}
