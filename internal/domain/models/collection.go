package models

import "github.com/google/uuid"

// AccessLevel enumerates who may read a collection.
type AccessLevel string

const (
	AccessPrivate      AccessLevel = "private"
	AccessProject      AccessLevel = "project"
	AccessOrganization AccessLevel = "organization"
	AccessPublic       AccessLevel = "public"
)

// ValidAccessLevels lists every accepted access level value.
var ValidAccessLevels = []interface{}{
	AccessPrivate, AccessProject, AccessOrganization, AccessPublic,
}

// Collection groups external reference documents. ParentID forms a tree.
type Collection struct {
	Base
	Name        string      `json:"name" db:"name"`
	Description *string     `json:"description" db:"description"`
	ParentID    *uuid.UUID  `json:"parent_id" db:"parent_id"`
	AccessLevel AccessLevel `json:"access_level" db:"access_level"`
	Tags        []string    `json:"tags" db:"tags"`
}
