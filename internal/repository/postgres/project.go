package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// ProjectRepository implements the repositories.ProjectRepository interface
type ProjectRepository struct {
	pool   repositories.DBTX
	tables *TableNames
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(config *RepositoryConfig) repositories.ProjectRepository {
	return &ProjectRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const projectColumns = `id, name, description, status, start_date, target_end_date, actual_end_date,
		tags, metadata, created_at, updated_at, created_by, updated_by, version`

func scanProject(row interface{ Scan(dest ...any) error }, p *models.Project) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.StartDate,
		&p.TargetEndDate,
		&p.ActualEndDate,
		&p.Tags,
		&p.Metadata,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.Version,
	)
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, status, start_date, target_end_date,
			tags, metadata, created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at, version
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.StartDate,
		project.TargetEndDate,
		project.Tags,
		project.Metadata,
		project.CreatedAt,
		project.UpdatedAt,
		project.CreatedBy,
		project.UpdatedBy,
		project.Version,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt, &project.Version)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project '%s' already exists", project.Name),
				ResourceType: "project",
			}
		}
		return fmt.Errorf("create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, projectColumns, r.tables.Projects)

	var project models.Project
	executor := GetExecutor(ctx, r.pool)
	err := scanProject(executor.QueryRow(ctx, query, id), &project)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project: %w", err)
	}

	return &project, nil
}

// List retrieves all projects owned by a user, ordered by updated_at DESC
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]models.Project, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE created_by = $1
		ORDER BY updated_at DESC
	`, projectColumns, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var project models.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}

	return projects, nil
}

// Update persists the project's mutable fields with a compare-and-swap on
// version: the row changes only if the stored version equals project.Version,
// and the stored version advances by exactly 1.
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, status = $3, start_date = $4,
			target_end_date = $5, actual_end_date = $6, tags = $7, metadata = $8,
			updated_at = $9, updated_by = $10, version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version
	`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.Status,
		project.StartDate,
		project.TargetEndDate,
		project.ActualEndDate,
		project.Tags,
		project.Metadata,
		project.UpdatedAt,
		project.UpdatedBy,
		project.ID,
		project.Version,
	).Scan(&project.UpdatedAt, &project.Version)

	if err != nil {
		if IsPgNoRowsError(err) {
			return resolveUpdateMiss(ctx, executor, r.tables.Projects, "project", project.ID, project.Version)
		}
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("project name '%s' already exists", project.Name),
				ResourceType: "project",
			}
		}
		return fmt.Errorf("update project: %w", err)
	}

	return nil
}

// Delete removes a project row by ID
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Projects)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
