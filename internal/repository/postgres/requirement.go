package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// RequirementRepository implements the repositories.RequirementRepository interface
type RequirementRepository struct {
	pool   repositories.DBTX
	tables *TableNames
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(config *RepositoryConfig) repositories.RequirementRepository {
	return &RequirementRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const requirementColumns = `id, project_id, parent_id, title, description, acceptance_criteria,
		priority, status, assignee_id, reviewer_id, tags,
		original_text, current_analysis, analysis_history,
		rewritten_ears, rewritten_incose, selected_format,
		created_at, updated_at, created_by, updated_by, version`

func scanRequirement(row interface{ Scan(dest ...any) error }, m *models.Requirement) error {
	return row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.ParentID,
		&m.Title,
		&m.Description,
		&m.AcceptanceCriteria,
		&m.Priority,
		&m.Status,
		&m.AssigneeID,
		&m.ReviewerID,
		&m.Tags,
		&m.OriginalText,
		&m.CurrentAnalysis,
		&m.AnalysisHistory,
		&m.RewrittenEARS,
		&m.RewrittenINCOSE,
		&m.SelectedFormat,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.CreatedBy,
		&m.UpdatedBy,
		&m.Version,
	)
}

// Create inserts a new requirement
func (r *RequirementRepository) Create(ctx context.Context, req *models.Requirement) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, parent_id, title, description, acceptance_criteria,
			priority, status, assignee_id, reviewer_id, tags, original_text,
			current_analysis, analysis_history, rewritten_ears, rewritten_incose,
			selected_format, created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at, updated_at, version
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		req.ProjectID,
		req.ParentID,
		req.Title,
		req.Description,
		req.AcceptanceCriteria,
		req.Priority,
		req.Status,
		req.AssigneeID,
		req.ReviewerID,
		req.Tags,
		req.OriginalText,
		req.CurrentAnalysis,
		req.AnalysisHistory,
		req.RewrittenEARS,
		req.RewrittenINCOSE,
		req.SelectedFormat,
		req.CreatedAt,
		req.UpdatedAt,
		req.CreatedBy,
		req.UpdatedBy,
		req.Version,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt, &req.Version)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("requirement references a missing project or parent: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create requirement: %w", err)
	}

	return nil
}

// GetByID retrieves a requirement by ID
func (r *RequirementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Requirement, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, requirementColumns, r.tables.Requirements)

	var req models.Requirement
	executor := GetExecutor(ctx, r.pool)
	err := scanRequirement(executor.QueryRow(ctx, query, id), &req)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get requirement: %w", err)
	}

	return &req, nil
}

// List retrieves requirements matching the filter, ordered by created_at.
// Nil filter fields are omitted from the WHERE clause entirely.
func (r *RequirementRepository) List(ctx context.Context, filter repositories.RequirementFilter) ([]models.Requirement, error) {
	conditions := []string{}
	args := []any{}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if filter.ParentID != nil {
		args = append(args, *filter.ParentID)
		conditions = append(conditions, fmt.Sprintf("parent_id = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY created_at
	`, requirementColumns, r.tables.Requirements, where)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()

	reqs := []models.Requirement{}
	for rows.Next() {
		var req models.Requirement
		if err := scanRequirement(rows, &req); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		reqs = append(reqs, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate requirements: %w", err)
	}

	return reqs, nil
}

// Update persists the requirement's mutable fields with a compare-and-swap
// on version.
func (r *RequirementRepository) Update(ctx context.Context, req *models.Requirement) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, title = $2, description = $3, acceptance_criteria = $4,
			priority = $5, status = $6, assignee_id = $7, reviewer_id = $8, tags = $9,
			original_text = $10, current_analysis = $11, analysis_history = $12,
			rewritten_ears = $13, rewritten_incose = $14, selected_format = $15,
			updated_at = $16, updated_by = $17, version = version + 1
		WHERE id = $18 AND version = $19
		RETURNING updated_at, version
	`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		req.ParentID,
		req.Title,
		req.Description,
		req.AcceptanceCriteria,
		req.Priority,
		req.Status,
		req.AssigneeID,
		req.ReviewerID,
		req.Tags,
		req.OriginalText,
		req.CurrentAnalysis,
		req.AnalysisHistory,
		req.RewrittenEARS,
		req.RewrittenINCOSE,
		req.SelectedFormat,
		req.UpdatedAt,
		req.UpdatedBy,
		req.ID,
		req.Version,
	).Scan(&req.UpdatedAt, &req.Version)

	if err != nil {
		if IsPgNoRowsError(err) {
			return resolveUpdateMiss(ctx, executor, r.tables.Requirements, "requirement", req.ID, req.Version)
		}
		return fmt.Errorf("update requirement: %w", err)
	}

	return nil
}

// Delete removes a requirement row by ID
func (r *RequirementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("requirement %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByProject bulk-deletes every requirement referencing the project.
// Runs under the caller's transaction when one is present in the context.
func (r *RequirementRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1`, r.tables.Requirements)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete requirements by project: %w", err)
	}

	return result.RowsAffected(), nil
}
