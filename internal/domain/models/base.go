package models

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the fields shared by every persisted entity.
//
// Timestamps and audit fields are pointers: they stay nil until the store
// has assigned them, and the mapping layer must never substitute a zero
// value for a nil. Version starts at 1 on create and increases by exactly
// 1 on every successful update (optimistic concurrency).
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
	CreatedBy *string    `json:"created_by" db:"created_by"`
	UpdatedBy *string    `json:"updated_by" db:"updated_by"`
	Version   int64      `json:"version" db:"version"`
}

// GetBase exposes the shared fields to code generic over entity types
func (b *Base) GetBase() *Base { return b }

// JSONMap is a type alias for JSONB columns
type JSONMap map[string]interface{}
