package client

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_SetSemantics(t *testing.T) {
	s := NewSelectionStore()

	id := uuid.New()
	s.Select(KindProject, id)
	s.Select(KindProject, id)
	s.Select(KindProject, id)

	assert.Equal(t, []uuid.UUID{id}, s.Selected(KindProject))
	assert.True(t, s.IsSelected(KindProject, id))
}

func TestSelection_OrderPreserved(t *testing.T) {
	s := NewSelectionStore()

	first := uuid.New()
	second := uuid.New()
	s.Select(KindRequirement, first)
	s.Select(KindRequirement, second)
	s.Select(KindRequirement, first) // already selected, order unchanged

	assert.Equal(t, []uuid.UUID{first, second}, s.Selected(KindRequirement))
}

func TestSelection_KindsAreIndependent(t *testing.T) {
	s := NewSelectionStore()

	id := uuid.New()
	s.Select(KindProject, id)

	assert.False(t, s.IsSelected(KindRequirement, id))
	assert.Empty(t, s.Selected(KindRequirement))
}

func TestSelection_DeselectMissingIsNoop(t *testing.T) {
	s := NewSelectionStore()

	id := uuid.New()
	s.Select(KindProject, id)
	s.Deselect(KindProject, uuid.New())

	assert.Equal(t, []uuid.UUID{id}, s.Selected(KindProject))

	s.Deselect(KindProject, id)
	assert.Empty(t, s.Selected(KindProject))
}

func TestSelection_Clear(t *testing.T) {
	s := NewSelectionStore()

	s.Select(KindProject, uuid.New())
	s.Select(KindRequirement, uuid.New())
	s.Clear(KindProject)

	assert.Empty(t, s.Selected(KindProject))
	assert.Len(t, s.Selected(KindRequirement), 1)
}

func TestSelection_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	s, err := LoadSelection(dir)
	require.NoError(t, err)

	first := uuid.New()
	second := uuid.New()
	s.Select(KindProject, first)
	s.Select(KindProject, second)
	s.Deselect(KindProject, first)

	reloaded, err := LoadSelection(dir)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second}, reloaded.Selected(KindProject))
}

func TestLoadSelection_MissingFileYieldsEmptyStore(t *testing.T) {
	s, err := LoadSelection(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.Selected(KindProject))
}
