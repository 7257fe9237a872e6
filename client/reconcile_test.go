package client

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain/models"
)

// offlineClient builds a client whose caches can be seeded and reconciled
// without a server.
func offlineClient(t *testing.T) *Client {
	t.Helper()
	c, err := New("http://localhost:0", "", "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return c
}

func requirementJSON(t *testing.T, id, projectID uuid.UUID, title string, version int64) json.RawMessage {
	t.Helper()
	now := time.Now().UTC()
	raw, err := json.Marshal(map[string]interface{}{
		"id":         id,
		"project_id": projectID,
		"title":      title,
		"priority":   "medium",
		"status":     "draft",
		"created_at": now,
		"updated_at": now,
		"version":    version,
	})
	require.NoError(t, err)
	return raw
}

func seedRequirementList(c *Client, projectID uuid.UUID, items ...*models.Requirement) {
	filter := RequirementFilter{ProjectID: &projectID}.values()
	c.Requirements.cache.storeList(filter.Encode(), filter, 0, items)
}

func TestReconcileRequirement_InsertLandsInMatchingList(t *testing.T) {
	c := offlineClient(t)

	projectID := uuid.New()
	otherProject := uuid.New()
	seedRequirementList(c, projectID)
	seedRequirementList(c, otherProject)

	id := uuid.New()
	err := c.ReconcileRequirement(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeInsert,
		New:       requirementJSON(t, id, projectID, "inserted", 1),
	})
	require.NoError(t, err)

	inScope, ok := c.Requirements.cache.getList(RequirementFilter{ProjectID: &projectID}.values().Encode())
	require.True(t, ok)
	require.Len(t, inScope, 1)
	assert.Equal(t, id, inScope[0].ID)

	outOfScope, ok := c.Requirements.cache.getList(RequirementFilter{ProjectID: &otherProject}.values().Encode())
	require.True(t, ok)
	assert.Empty(t, outOfScope)
}

func TestReconcileRequirement_DuplicateEventsLeaveOneCopy(t *testing.T) {
	c := offlineClient(t)

	projectID := uuid.New()
	seedRequirementList(c, projectID)

	id := uuid.New()
	ev := models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeUpdate,
		New:       requirementJSON(t, id, projectID, "updated title", 2),
	}
	require.NoError(t, c.ReconcileRequirement(ev))
	require.NoError(t, c.ReconcileRequirement(ev))

	list, ok := c.Requirements.cache.getList(RequirementFilter{ProjectID: &projectID}.values().Encode())
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "updated title", list[0].Title)
	assert.Equal(t, int64(2), list[0].Version)
}

func TestReconcileRequirement_DeleteScrubsLocalState(t *testing.T) {
	c := offlineClient(t)

	projectID := uuid.New()
	id := uuid.New()
	existing := &models.Requirement{ProjectID: &projectID, Title: "doomed"}
	existing.ID = id
	seedRequirementList(c, projectID, existing)
	c.Selection.Select(KindRequirement, id)
	c.Recency.Touch(KindRequirement, id, "doomed")

	err := c.ReconcileRequirement(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeDelete,
		Old:       requirementJSON(t, id, projectID, "doomed", 3),
	})
	require.NoError(t, err)

	list, ok := c.Requirements.cache.getList(RequirementFilter{ProjectID: &projectID}.values().Encode())
	require.True(t, ok)
	assert.Empty(t, list)

	_, ok = c.Requirements.cache.getItem(id)
	assert.False(t, ok)
	assert.False(t, c.Selection.IsSelected(KindRequirement, id))
	assert.Empty(t, c.Recency.RecentByKind(KindRequirement, 0))
}

func TestReconcileRequirement_NullDeletePayloadIsNoop(t *testing.T) {
	c := offlineClient(t)

	require.NoError(t, c.ReconcileRequirement(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeDelete,
		Old:       json.RawMessage("null"),
	}))
}

func TestReconcileRequirement_UnknownEventType(t *testing.T) {
	c := offlineClient(t)

	err := c.ReconcileRequirement(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeType("TRUNCATE"),
	})
	require.Error(t, err)
}
