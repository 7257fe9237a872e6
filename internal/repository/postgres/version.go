package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reqwire/internal/domain"
	"reqwire/internal/domain/repositories"
)

// resolveUpdateMiss classifies a compare-and-swap update that touched zero
// rows: either the row is gone (not found) or the stored version moved past
// the expected base version (version conflict).
func resolveUpdateMiss(ctx context.Context, exec repositories.DBTX, table, resourceType string, id uuid.UUID, expected int64) error {
	query := fmt.Sprintf(`SELECT version FROM %s WHERE id = $1`, table)

	var stored int64
	err := exec.QueryRow(ctx, query, id).Scan(&stored)
	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("%s %s: %w", resourceType, id, domain.ErrNotFound)
		}
		return fmt.Errorf("resolve %s version: %w", resourceType, err)
	}

	return &domain.VersionConflictError{
		ResourceType:    resourceType,
		ResourceID:      id.String(),
		ExpectedVersion: expected,
		StoredVersion:   stored,
	}
}
