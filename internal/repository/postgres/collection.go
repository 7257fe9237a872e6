package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reqwire/internal/domain"
	"reqwire/internal/domain/models"
	"reqwire/internal/domain/repositories"
)

// CollectionRepository implements the repositories.CollectionRepository interface
type CollectionRepository struct {
	pool   repositories.DBTX
	tables *TableNames
}

// NewCollectionRepository creates a new collection repository
func NewCollectionRepository(config *RepositoryConfig) repositories.CollectionRepository {
	return &CollectionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const collectionColumns = `id, name, description, parent_id, access_level, tags,
		created_at, updated_at, created_by, updated_by, version`

func scanCollection(row interface{ Scan(dest ...any) error }, c *models.Collection) error {
	return row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&c.ParentID,
		&c.AccessLevel,
		&c.Tags,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CreatedBy,
		&c.UpdatedBy,
		&c.Version,
	)
}

// Create inserts a new collection
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, parent_id, access_level, tags,
			created_at, updated_at, created_by, updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at, version
	`, r.tables.Collections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		collection.Name,
		collection.Description,
		collection.ParentID,
		collection.AccessLevel,
		collection.Tags,
		collection.CreatedAt,
		collection.UpdatedAt,
		collection.CreatedBy,
		collection.UpdatedBy,
		collection.Version,
	).Scan(&collection.ID, &collection.CreatedAt, &collection.UpdatedAt, &collection.Version)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("collection references a missing parent: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

// GetByID retrieves a collection by ID
func (r *CollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, collectionColumns, r.tables.Collections)

	var collection models.Collection
	executor := GetExecutor(ctx, r.pool)
	err := scanCollection(executor.QueryRow(ctx, query, id), &collection)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return &collection, nil
}

// List retrieves collections matching the filter, ordered by name
func (r *CollectionRepository) List(ctx context.Context, filter repositories.CollectionFilter) ([]models.Collection, error) {
	where := ""
	args := []any{}

	switch {
	case filter.ParentID != nil:
		where = "WHERE parent_id = $1"
		args = append(args, *filter.ParentID)
	case filter.RootsOnly:
		where = "WHERE parent_id IS NULL"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		%s
		ORDER BY name
	`, collectionColumns, r.tables.Collections, where)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	collections := []models.Collection{}
	for rows.Next() {
		var collection models.Collection
		if err := scanCollection(rows, &collection); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return collections, nil
}

// Update persists the collection's mutable fields with a compare-and-swap
// on version.
func (r *CollectionRepository) Update(ctx context.Context, collection *models.Collection) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, description = $2, parent_id = $3, access_level = $4, tags = $5,
			updated_at = $6, updated_by = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING updated_at, version
	`, r.tables.Collections)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		collection.Name,
		collection.Description,
		collection.ParentID,
		collection.AccessLevel,
		collection.Tags,
		collection.UpdatedAt,
		collection.UpdatedBy,
		collection.ID,
		collection.Version,
	).Scan(&collection.UpdatedAt, &collection.Version)

	if err != nil {
		if IsPgNoRowsError(err) {
			return resolveUpdateMiss(ctx, executor, r.tables.Collections, "collection", collection.ID, collection.Version)
		}
		return fmt.Errorf("update collection: %w", err)
	}

	return nil
}

// Delete removes a collection row by ID
func (r *CollectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Collections)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("collection %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
