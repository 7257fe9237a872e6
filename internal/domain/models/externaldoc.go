package models

import (
	"time"

	"github.com/google/uuid"
)

// ExternalDoc is a reference to a document that lives outside the system
// (standards, published specs, design notes), optionally filed under a collection.
type ExternalDoc struct {
	Base
	CollectionID   *uuid.UUID `json:"collection_id" db:"collection_id"`
	Title          string     `json:"title" db:"title"`
	URL            string     `json:"url" db:"url"`
	DocType        string     `json:"doc_type" db:"doc_type"`
	DocVersion     *string    `json:"doc_version" db:"doc_version"`
	Author         *string    `json:"author" db:"author"`
	PublishedAt    *time.Time `json:"published_at" db:"published_at"`
	LastVerifiedAt *time.Time `json:"last_verified_at" db:"last_verified_at"`
	Status         string     `json:"status" db:"status"`
	Tags           []string   `json:"tags" db:"tags"`
}
