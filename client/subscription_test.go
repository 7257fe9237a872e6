package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain/models"
)

// sseHandler writes the given frames and keeps the connection open until
// the client goes away.
func sseHandler(t *testing.T, frames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		flusher.Flush()

		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}
}

func waitForEvent(t *testing.T, ch <-chan models.ChangeEvent) models.ChangeEvent {
	t.Helper()
	select {
	case ev, open := <-ch:
		require.True(t, open, "stream closed before delivering an event")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change event")
		return models.ChangeEvent{}
	}
}

func TestSubscribeRequirements_DeliversEvents(t *testing.T) {
	id := uuid.New()
	payload, err := json.Marshal(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeInsert,
		New:       json.RawMessage(`{"id":"` + id.String() + `","title":"t","version":1}`),
	})
	require.NoError(t, err)

	frames := []string{
		": keepalive\n\n",
		"event: change\ndata: " + string(payload) + "\n\n",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/requirements/events", sseHandler(t, frames))
	c := testClient(t, mux)

	sub, err := c.SubscribeRequirements(context.Background(), nil)
	require.NoError(t, err)
	defer sub.Close()

	ev := waitForEvent(t, sub.C)
	assert.Equal(t, models.ChangeInsert, ev.EventType)
	assert.Equal(t, "dev_requirements", ev.Table)

	row := struct {
		ID uuid.UUID `json:"id"`
	}{}
	require.NoError(t, json.Unmarshal(ev.New, &row))
	assert.Equal(t, id, row.ID)
}

func TestSubscribeRequirements_ScopesToProject(t *testing.T) {
	projectID := uuid.New()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/requirements/events", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, projectID.String(), r.URL.Query().Get("project_id"))
		sseHandler(t, nil)(w, r)
	})
	c := testClient(t, mux)

	sub, err := c.SubscribeRequirements(context.Background(), &projectID)
	require.NoError(t, err)
	sub.Close()
}

func TestSubscribeRequirements_CloseEndsStream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/requirements/events", sseHandler(t, nil))
	c := testClient(t, mux)

	sub, err := c.SubscribeRequirements(context.Background(), nil)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	select {
	case _, open := <-sub.C:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("channel did not close after Close")
	}
}

func TestSubscribeRequirements_RejectedStatus(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := c.SubscribeRequirements(context.Background(), nil)
	require.Error(t, err)
}
