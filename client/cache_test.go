package client

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entity struct {
	ID    uuid.UUID
	Name  string
	Scope string
}

func newEntityCache() *queryCache[entity] {
	return newQueryCache[entity](func(e *entity) uuid.UUID { return e.ID })
}

func TestQueryCache_StaleListResponseDiscarded(t *testing.T) {
	c := newEntityCache()

	// A fetch snapshots the generation, then an invalidation lands before
	// the response does.
	gen := c.snapshot(listKey(""))
	c.invalidateList("")

	stale := []*entity{{ID: uuid.New(), Name: "old"}}
	require.False(t, c.storeList("", nil, gen, stale))

	_, ok := c.getList("")
	assert.False(t, ok)
}

func TestQueryCache_FreshListResponseCommits(t *testing.T) {
	c := newEntityCache()

	gen := c.snapshot(listKey(""))
	items := []*entity{{ID: uuid.New(), Name: "a"}}
	require.True(t, c.storeList("", nil, gen, items))

	got, ok := c.getList("")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Name)

	// List entities also land in the single-entity cache.
	item, ok := c.getItem(items[0].ID)
	require.True(t, ok)
	assert.Equal(t, "a", item.Name)
}

func TestQueryCache_StaleItemResponseDiscarded(t *testing.T) {
	c := newEntityCache()

	id := uuid.New()
	gen := c.snapshot(itemKey(id))
	c.invalidateItem(id)

	require.False(t, c.storeItem(id, gen, &entity{ID: id, Name: "old"}))
	_, ok := c.getItem(id)
	assert.False(t, ok)
}

func TestQueryCache_AppendMatchingRespectsScope(t *testing.T) {
	c := newEntityCache()

	inScope := url.Values{"scope": []string{"a"}}
	outOfScope := url.Values{"scope": []string{"b"}}
	require.True(t, c.storeList(inScope.Encode(), inScope, 0, nil))
	require.True(t, c.storeList(outOfScope.Encode(), outOfScope, 0, nil))

	created := &entity{ID: uuid.New(), Name: "new", Scope: "a"}
	c.appendMatching(created, func(filter url.Values, e *entity) bool {
		return filter.Get("scope") == e.Scope
	})

	got, ok := c.getList(inScope.Encode())
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)

	got, ok = c.getList(outOfScope.Encode())
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestQueryCache_UpsertReplacesEverywhere(t *testing.T) {
	c := newEntityCache()

	id := uuid.New()
	old := &entity{ID: id, Name: "v1", Scope: "a"}
	filter := url.Values{"scope": []string{"a"}}
	require.True(t, c.storeList(filter.Encode(), filter, 0, []*entity{old}))
	require.True(t, c.storeList("", nil, c.snapshot(listKey("")), []*entity{old}))

	updated := &entity{ID: id, Name: "v2", Scope: "a"}
	c.upsert(updated, nil)
	c.upsert(updated, nil) // applying the same confirmed state twice

	for _, query := range []string{filter.Encode(), ""} {
		got, ok := c.getList(query)
		require.True(t, ok)
		require.Len(t, got, 1, "query %q", query)
		assert.Equal(t, "v2", got[0].Name)
	}

	item, ok := c.getItem(id)
	require.True(t, ok)
	assert.Equal(t, "v2", item.Name)
}

func TestQueryCache_UpsertAppendsToMatchingListsWhenAbsent(t *testing.T) {
	c := newEntityCache()

	filter := url.Values{"scope": []string{"a"}}
	require.True(t, c.storeList(filter.Encode(), filter, 0, nil))

	e := &entity{ID: uuid.New(), Name: "n", Scope: "a"}
	matches := func(filter url.Values, e *entity) bool {
		return filter.Get("scope") == e.Scope
	}
	c.upsert(e, matches)
	c.upsert(e, matches)

	got, ok := c.getList(filter.Encode())
	require.True(t, ok)
	assert.Len(t, got, 1)
}

func TestQueryCache_RemoveScrubsListsAndItem(t *testing.T) {
	c := newEntityCache()

	id := uuid.New()
	keep := &entity{ID: uuid.New(), Name: "keep"}
	require.True(t, c.storeList("", nil, 0, []*entity{{ID: id}, keep}))

	c.remove(id)

	got, ok := c.getList("")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, keep.ID, got[0].ID)

	_, ok = c.getItem(id)
	assert.False(t, ok)
}

func TestQueryCache_ClearInvalidatesInFlightResponses(t *testing.T) {
	c := newEntityCache()

	require.True(t, c.storeList("", nil, 0, []*entity{{ID: uuid.New()}}))
	gen := c.snapshot(listKey(""))
	c.clear()

	_, ok := c.getList("")
	assert.False(t, ok)
	assert.False(t, c.storeList("", nil, gen, []*entity{{ID: uuid.New()}}))
}
