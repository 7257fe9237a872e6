package models

import "encoding/json"

// ChangeType is the kind of row-level change a change event describes.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one row-level change emitted by the store's change feed.
// Old and New are the raw row payloads as the feed delivered them; exactly
// one of them may be null depending on the event type (Old for INSERT, New
// for DELETE). Consumers map the raw rows to entities themselves.
type ChangeEvent struct {
	Table     string          `json:"table"`
	EventType ChangeType      `json:"eventType"`
	Old       json.RawMessage `json:"old"`
	New       json.RawMessage `json:"new"`
}
