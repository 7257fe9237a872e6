package changefeed

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqwire/internal/domain/models"
)

func testBroker() *Broker {
	return NewBroker(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func insertEvent(table string, row string) models.ChangeEvent {
	return models.ChangeEvent{
		Table:     table,
		EventType: models.ChangeInsert,
		New:       json.RawMessage(row),
	}
}

func TestBroker_PublishReachesTableSubscribers(t *testing.T) {
	b := testBroker()
	defer b.Close()

	reqs := b.Subscribe("dev_requirements", nil)
	defer reqs.Unsubscribe()
	projects := b.Subscribe("dev_projects", nil)
	defer projects.Unsubscribe()

	b.Publish(insertEvent("dev_requirements", `{"id":"x"}`))

	select {
	case ev := <-reqs.C:
		assert.Equal(t, "dev_requirements", ev.Table)
	default:
		t.Fatal("expected an event on the requirements subscription")
	}

	select {
	case <-projects.C:
		t.Fatal("projects subscription should not see requirement events")
	default:
	}
}

func TestBroker_FilterMatchesNewRow(t *testing.T) {
	b := testBroker()
	defer b.Close()

	projectID := uuid.New()
	sub := b.Subscribe("dev_requirements", &Filter{Column: "project_id", Value: projectID.String()})
	defer sub.Unsubscribe()

	b.Publish(insertEvent("dev_requirements", `{"project_id":"`+projectID.String()+`"}`))
	b.Publish(insertEvent("dev_requirements", `{"project_id":"`+uuid.NewString()+`"}`))
	b.Publish(insertEvent("dev_requirements", `{"project_id":null}`))

	require.Len(t, sub.C, 1)
}

func TestBroker_FilterMatchesOldRowOnDelete(t *testing.T) {
	b := testBroker()
	defer b.Close()

	projectID := uuid.New()
	sub := b.Subscribe("dev_requirements", &Filter{Column: "project_id", Value: projectID.String()})
	defer sub.Unsubscribe()

	b.Publish(models.ChangeEvent{
		Table:     "dev_requirements",
		EventType: models.ChangeDelete,
		Old:       json.RawMessage(`{"project_id":"` + projectID.String() + `"}`),
	})

	require.Len(t, sub.C, 1)
	ev := <-sub.C
	assert.Equal(t, models.ChangeDelete, ev.EventType)
}

func TestBroker_UnsubscribeClosesChannelOnce(t *testing.T) {
	b := testBroker()
	defer b.Close()

	sub := b.Subscribe("dev_projects", nil)
	sub.Unsubscribe()
	sub.Unsubscribe()

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing after unsubscribe must not panic on a closed channel.
	b.Publish(insertEvent("dev_projects", `{"id":"x"}`))
}

func TestBroker_CloseClosesAllSubscribers(t *testing.T) {
	b := testBroker()

	s1 := b.Subscribe("dev_projects", nil)
	s2 := b.Subscribe("dev_requirements", nil)
	b.Close()

	_, open := <-s1.C
	assert.False(t, open)
	_, open = <-s2.C
	assert.False(t, open)

	// Idempotent.
	b.Close()
}

func TestBroker_SubscribeAfterCloseYieldsClosedChannel(t *testing.T) {
	b := testBroker()
	b.Close()

	sub := b.Subscribe("dev_projects", nil)
	_, open := <-sub.C
	assert.False(t, open)
	sub.Unsubscribe()
}

func TestBroker_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := testBroker()
	defer b.Close()

	sub := b.Subscribe("dev_projects", nil)
	defer sub.Unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(insertEvent("dev_projects", `{"id":"x"}`))
	}

	assert.Len(t, sub.C, subscriberBuffer)
}
