// Package mapper translates raw persisted row shapes into the application's
// canonical entity models. Mapping is pure and structural: no validation, no
// side effects, and nullable fields (timestamps, audit columns) pass through
// nil unchanged rather than being coerced to zero values.
package mapper

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProjectRow is the raw row shape for a project as the store emits it
// (row_to_json payloads from the change feed and API responses alike).
type ProjectRow struct {
	ID            uuid.UUID              `json:"id"`
	Name          string                 `json:"name"`
	Description   *string                `json:"description"`
	Status        string                 `json:"status"`
	StartDate     *time.Time             `json:"start_date"`
	TargetEndDate *time.Time             `json:"target_end_date"`
	ActualEndDate *time.Time             `json:"actual_end_date"`
	Tags          []string               `json:"tags"`
	Metadata      map[string]interface{} `json:"metadata"`
	CreatedAt     *time.Time             `json:"created_at"`
	UpdatedAt     *time.Time             `json:"updated_at"`
	CreatedBy     *string                `json:"created_by"`
	UpdatedBy     *string                `json:"updated_by"`
	Version       int64                  `json:"version"`
}

// RequirementRow is the raw row shape for a requirement.
type RequirementRow struct {
	ID                 uuid.UUID                `json:"id"`
	ProjectID          *uuid.UUID               `json:"project_id"`
	ParentID           *uuid.UUID               `json:"parent_id"`
	Title              string                   `json:"title"`
	Description        *string                  `json:"description"`
	AcceptanceCriteria []string                 `json:"acceptance_criteria"`
	Priority           string                   `json:"priority"`
	Status             string                   `json:"status"`
	AssigneeID         *string                  `json:"assignee_id"`
	ReviewerID         *string                  `json:"reviewer_id"`
	Tags               []string                 `json:"tags"`
	OriginalText       *string                  `json:"original_text"`
	CurrentAnalysis    map[string]interface{}   `json:"current_analysis"`
	AnalysisHistory    []map[string]interface{} `json:"analysis_history"`
	RewrittenEARS      *string                  `json:"rewritten_ears"`
	RewrittenINCOSE    *string                  `json:"rewritten_incose"`
	SelectedFormat     *string                  `json:"selected_format"`
	CreatedAt          *time.Time               `json:"created_at"`
	UpdatedAt          *time.Time               `json:"updated_at"`
	CreatedBy          *string                  `json:"created_by"`
	UpdatedBy          *string                  `json:"updated_by"`
	Version            int64                    `json:"version"`
}

// CollectionRow is the raw row shape for a collection.
type CollectionRow struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	AccessLevel string     `json:"access_level"`
	Tags        []string   `json:"tags"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CreatedBy   *string    `json:"created_by"`
	UpdatedBy   *string    `json:"updated_by"`
	Version     int64      `json:"version"`
}

// ExternalDocRow is the raw row shape for an external document reference.
type ExternalDocRow struct {
	ID             uuid.UUID  `json:"id"`
	CollectionID   *uuid.UUID `json:"collection_id"`
	Title          string     `json:"title"`
	URL            string     `json:"url"`
	DocType        string     `json:"doc_type"`
	DocVersion     *string    `json:"doc_version"`
	Author         *string    `json:"author"`
	PublishedAt    *time.Time `json:"published_at"`
	LastVerifiedAt *time.Time `json:"last_verified_at"`
	Status         string     `json:"status"`
	Tags           []string   `json:"tags"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	CreatedBy      *string    `json:"created_by"`
	UpdatedBy      *string    `json:"updated_by"`
	Version        int64      `json:"version"`
}

// UserProfileRow is the raw row shape for a user profile.
type UserProfileRow struct {
	ID                 uuid.UUID  `json:"id"`
	AuthID             string     `json:"auth_id"`
	DisplayName        string     `json:"display_name"`
	AvatarURL          *string    `json:"avatar_url"`
	JobTitle           *string    `json:"job_title"`
	Department         *string    `json:"department"`
	Theme              string     `json:"theme"`
	NotificationPref   string     `json:"notification_pref"`
	EmailNotifications bool       `json:"email_notifications"`
	Timezone           string     `json:"timezone"`
	Bio                *string    `json:"bio"`
	Tags               []string   `json:"tags"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
	CreatedBy          *string    `json:"created_by"`
	UpdatedBy          *string    `json:"updated_by"`
	Version            int64      `json:"version"`
}

// DecodeRow unmarshals a raw change-feed payload into a row shape.
// A nil or JSON-null payload yields a nil row without error.
func DecodeRow[T any](raw json.RawMessage) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var row T
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return &row, nil
}
