package mapper

import (
	"reqwire/internal/domain/models"
)

// Project maps a raw project row to the canonical entity. A nil row maps to
// nil. Nullable timestamps and audit fields carry over as-is.
func Project(r *ProjectRow) *models.Project {
	if r == nil {
		return nil
	}
	return &models.Project{
		Base: models.Base{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
			Version:   r.Version,
		},
		Name:          r.Name,
		Description:   r.Description,
		Status:        models.ProjectStatus(r.Status),
		StartDate:     r.StartDate,
		TargetEndDate: r.TargetEndDate,
		ActualEndDate: r.ActualEndDate,
		Tags:          r.Tags,
		Metadata:      models.JSONMap(r.Metadata),
	}
}

// Projects maps a batch of rows, dropping any nil mapping results.
func Projects(rows []*ProjectRow) []models.Project {
	out := make([]models.Project, 0, len(rows))
	for _, r := range rows {
		if p := Project(r); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// Requirement maps a raw requirement row to the canonical entity.
func Requirement(r *RequirementRow) *models.Requirement {
	if r == nil {
		return nil
	}
	var history []models.JSONMap
	if r.AnalysisHistory != nil {
		history = make([]models.JSONMap, 0, len(r.AnalysisHistory))
		for _, h := range r.AnalysisHistory {
			history = append(history, models.JSONMap(h))
		}
	}
	return &models.Requirement{
		Base: models.Base{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
			Version:   r.Version,
		},
		ProjectID:          r.ProjectID,
		ParentID:           r.ParentID,
		Title:              r.Title,
		Description:        r.Description,
		AcceptanceCriteria: r.AcceptanceCriteria,
		Priority:           models.RequirementPriority(r.Priority),
		Status:             models.RequirementStatus(r.Status),
		AssigneeID:         r.AssigneeID,
		ReviewerID:         r.ReviewerID,
		Tags:               r.Tags,
		OriginalText:       r.OriginalText,
		CurrentAnalysis:    models.JSONMap(r.CurrentAnalysis),
		AnalysisHistory:    history,
		RewrittenEARS:      r.RewrittenEARS,
		RewrittenINCOSE:    r.RewrittenINCOSE,
		SelectedFormat:     r.SelectedFormat,
	}
}

// Requirements maps a batch of rows, dropping any nil mapping results.
func Requirements(rows []*RequirementRow) []models.Requirement {
	out := make([]models.Requirement, 0, len(rows))
	for _, r := range rows {
		if m := Requirement(r); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// Collection maps a raw collection row to the canonical entity.
func Collection(r *CollectionRow) *models.Collection {
	if r == nil {
		return nil
	}
	return &models.Collection{
		Base: models.Base{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
			Version:   r.Version,
		},
		Name:        r.Name,
		Description: r.Description,
		ParentID:    r.ParentID,
		AccessLevel: models.AccessLevel(r.AccessLevel),
		Tags:        r.Tags,
	}
}

// Collections maps a batch of rows, dropping any nil mapping results.
func Collections(rows []*CollectionRow) []models.Collection {
	out := make([]models.Collection, 0, len(rows))
	for _, r := range rows {
		if m := Collection(r); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// ExternalDoc maps a raw external-doc row to the canonical entity.
func ExternalDoc(r *ExternalDocRow) *models.ExternalDoc {
	if r == nil {
		return nil
	}
	return &models.ExternalDoc{
		Base: models.Base{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
			Version:   r.Version,
		},
		CollectionID:   r.CollectionID,
		Title:          r.Title,
		URL:            r.URL,
		DocType:        r.DocType,
		DocVersion:     r.DocVersion,
		Author:         r.Author,
		PublishedAt:    r.PublishedAt,
		LastVerifiedAt: r.LastVerifiedAt,
		Status:         r.Status,
		Tags:           r.Tags,
	}
}

// ExternalDocs maps a batch of rows, dropping any nil mapping results.
func ExternalDocs(rows []*ExternalDocRow) []models.ExternalDoc {
	out := make([]models.ExternalDoc, 0, len(rows))
	for _, r := range rows {
		if m := ExternalDoc(r); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// UserProfile maps a raw user-profile row to the canonical entity.
func UserProfile(r *UserProfileRow) *models.UserProfile {
	if r == nil {
		return nil
	}
	return &models.UserProfile{
		Base: models.Base{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
			Version:   r.Version,
		},
		AuthID:             r.AuthID,
		DisplayName:        r.DisplayName,
		AvatarURL:          r.AvatarURL,
		JobTitle:           r.JobTitle,
		Department:         r.Department,
		Theme:              r.Theme,
		NotificationPref:   r.NotificationPref,
		EmailNotifications: r.EmailNotifications,
		Timezone:           r.Timezone,
		Bio:                r.Bio,
		Tags:               r.Tags,
	}
}
