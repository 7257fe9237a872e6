package client

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecency_MostRecentFirst(t *testing.T) {
	r := NewRecencyStore()

	a := uuid.New()
	b := uuid.New()
	r.Touch(KindProject, a, "a")
	r.Touch(KindProject, b, "b")

	recent := r.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, b, recent[0].ID)
	assert.Equal(t, a, recent[1].ID)
}

func TestRecency_TouchMovesToFrontAndRefreshesName(t *testing.T) {
	r := NewRecencyStore()

	a := uuid.New()
	b := uuid.New()
	r.Touch(KindProject, a, "a")
	r.Touch(KindProject, b, "b")
	r.Touch(KindProject, a, "a renamed")

	recent := r.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, a, recent[0].ID)
	assert.Equal(t, "a renamed", recent[0].Name)
}

func TestRecency_CapDropsOldest(t *testing.T) {
	r := NewRecencyStore()

	oldest := uuid.New()
	r.Touch(KindProject, oldest, "oldest")
	for i := 0; i < RecencyCap; i++ {
		r.Touch(KindProject, uuid.New(), fmt.Sprintf("p%d", i))
	}

	recent := r.Recent(0)
	assert.Len(t, recent, RecencyCap)
	for _, item := range recent {
		assert.NotEqual(t, oldest, item.ID)
	}
}

func TestRecency_SameIDDifferentKindsAreDistinct(t *testing.T) {
	r := NewRecencyStore()

	id := uuid.New()
	r.Touch(KindProject, id, "as project")
	r.Touch(KindRequirement, id, "as requirement")

	assert.Len(t, r.Recent(0), 2)

	r.Remove(KindProject, id)
	recent := r.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, KindRequirement, recent[0].Kind)
}

func TestRecency_RecentByKind(t *testing.T) {
	r := NewRecencyStore()

	p := uuid.New()
	q := uuid.New()
	r.Touch(KindProject, p, "proj")
	r.Touch(KindRequirement, q, "req")

	refs := r.RecentByKind(KindProject, 0)
	require.Len(t, refs, 1)
	assert.Equal(t, RecentRef{ID: p, Name: "proj"}, refs[0])
}

func TestRecency_RecentLimit(t *testing.T) {
	r := NewRecencyStore()

	for i := 0; i < 5; i++ {
		r.Touch(KindProject, uuid.New(), fmt.Sprintf("p%d", i))
	}

	assert.Len(t, r.Recent(3), 3)
	assert.Len(t, r.RecentByKind(KindProject, 2), 2)
}

func TestRecency_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	r, err := LoadRecency(dir)
	require.NoError(t, err)

	id := uuid.New()
	r.Touch(KindProject, id, "proj")

	reloaded, err := LoadRecency(dir)
	require.NoError(t, err)
	recent := reloaded.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, id, recent[0].ID)
	assert.Equal(t, "proj", recent[0].Name)
}
