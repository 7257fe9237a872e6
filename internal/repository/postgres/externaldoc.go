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

// ExternalDocRepository implements the repositories.ExternalDocRepository interface
type ExternalDocRepository struct {
	pool   repositories.DBTX
	tables *TableNames
}

// NewExternalDocRepository creates a new external-doc repository
func NewExternalDocRepository(config *RepositoryConfig) repositories.ExternalDocRepository {
	return &ExternalDocRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const externalDocColumns = `id, collection_id, title, url, doc_type, doc_version, author,
		published_at, last_verified_at, status, tags,
		created_at, updated_at, created_by, updated_by, version`

func scanExternalDoc(row interface{ Scan(dest ...any) error }, d *models.ExternalDoc) error {
	return row.Scan(
		&d.ID,
		&d.CollectionID,
		&d.Title,
		&d.URL,
		&d.DocType,
		&d.DocVersion,
		&d.Author,
		&d.PublishedAt,
		&d.LastVerifiedAt,
		&d.Status,
		&d.Tags,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.CreatedBy,
		&d.UpdatedBy,
		&d.Version,
	)
}

// Create inserts a new external doc
func (r *ExternalDocRepository) Create(ctx context.Context, doc *models.ExternalDoc) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (collection_id, title, url, doc_type, doc_version, author,
			published_at, last_verified_at, status, tags,
			created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at, version
	`, r.tables.ExternalDocs)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.CollectionID,
		doc.Title,
		doc.URL,
		doc.DocType,
		doc.DocVersion,
		doc.Author,
		doc.PublishedAt,
		doc.LastVerifiedAt,
		doc.Status,
		doc.Tags,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.CreatedBy,
		doc.UpdatedBy,
		doc.Version,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt, &doc.Version)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("doc references a missing collection: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create external doc: %w", err)
	}

	return nil
}

// GetByID retrieves an external doc by ID
func (r *ExternalDocRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ExternalDoc, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, externalDocColumns, r.tables.ExternalDocs)

	var doc models.ExternalDoc
	executor := GetExecutor(ctx, r.pool)
	err := scanExternalDoc(executor.QueryRow(ctx, query, id), &doc)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("external doc %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get external doc: %w", err)
	}

	return &doc, nil
}

// List retrieves external docs matching the filter, ordered by title.
// Nil filter fields are omitted from the WHERE clause entirely.
func (r *ExternalDocRepository) List(ctx context.Context, filter repositories.ExternalDocFilter) ([]models.ExternalDoc, error) {
	conditions := []string{}
	args := []any{}

	if filter.CollectionID != nil {
		args = append(args, *filter.CollectionID)
		conditions = append(conditions, fmt.Sprintf("collection_id = $%d", len(args)))
	}
	if filter.DocType != nil {
		args = append(args, *filter.DocType)
		conditions = append(conditions, fmt.Sprintf("doc_type = $%d", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY title
	`, externalDocColumns, r.tables.ExternalDocs, where)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list external docs: %w", err)
	}
	defer rows.Close()

	docs := []models.ExternalDoc{}
	for rows.Next() {
		var doc models.ExternalDoc
		if err := scanExternalDoc(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan external doc: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate external docs: %w", err)
	}

	return docs, nil
}

// Update persists the doc's mutable fields with a compare-and-swap on version.
func (r *ExternalDocRepository) Update(ctx context.Context, doc *models.ExternalDoc) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET collection_id = $1, title = $2, url = $3, doc_type = $4, doc_version = $5,
			author = $6, published_at = $7, last_verified_at = $8, status = $9, tags = $10,
			updated_at = $11, updated_by = $12, version = version + 1
		WHERE id = $13 AND version = $14
		RETURNING updated_at, version
	`, r.tables.ExternalDocs)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.CollectionID,
		doc.Title,
		doc.URL,
		doc.DocType,
		doc.DocVersion,
		doc.Author,
		doc.PublishedAt,
		doc.LastVerifiedAt,
		doc.Status,
		doc.Tags,
		doc.UpdatedAt,
		doc.UpdatedBy,
		doc.ID,
		doc.Version,
	).Scan(&doc.UpdatedAt, &doc.Version)

	if err != nil {
		if IsPgNoRowsError(err) {
			return resolveUpdateMiss(ctx, executor, r.tables.ExternalDocs, "external doc", doc.ID, doc.Version)
		}
		return fmt.Errorf("update external doc: %w", err)
	}

	return nil
}

// Delete removes an external doc row by ID
func (r *ExternalDocRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ExternalDocs)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete external doc: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("external doc %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
