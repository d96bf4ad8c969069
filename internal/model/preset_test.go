package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreset(t *testing.T) {
	s := DefaultGenerationSettings()
	s.Seed = 7
	p := NewPreset("Family", "Evening puzzle", 100, Grid{}, s)

	assert.Equal(t, "Family", p.Name)
	assert.Equal(t, "Evening puzzle", p.Description)
	assert.Len(t, p.ID, 8)
	assert.NotEmpty(t, p.CreatedAt)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)
	assert.Equal(t, uint64(7), p.Settings.Seed)
	assert.False(t, p.HasGrid())

	g := NewPreset("Fixed", "", 0, Grid{Columns: 4, Rows: 3}, s)
	assert.True(t, g.HasGrid())
	assert.NotEqual(t, p.ID, g.ID)
}

func TestPresetStore_AddReplacesByName(t *testing.T) {
	store := NewPresetStore()
	first := NewPreset("Kids", "", 24, Grid{}, DefaultGenerationSettings())
	store.Add(first)
	store.Add(NewPreset("Expert", "", 500, Grid{}, DefaultGenerationSettings()))

	updated := NewPreset("Kids", "bigger tabs", 36, Grid{}, DefaultGenerationSettings())
	updated.Settings.TabSize = 30
	store.Add(updated)

	require.Len(t, store.Presets, 2)
	got := store.FindByName("Kids")
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID, "replacing keeps the identity")
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
	assert.Equal(t, 36, got.PieceCount)
	assert.Equal(t, 30.0, got.Settings.TabSize)
	assert.Equal(t, []string{"Kids", "Expert"}, store.Names())
}

func TestPresetStore_FindAndRemove(t *testing.T) {
	store := NewPresetStore()
	p := NewPreset("A", "", 12, Grid{}, DefaultGenerationSettings())
	store.Add(p)

	assert.NotNil(t, store.FindByID(p.ID))
	assert.Nil(t, store.FindByID("missing"))
	assert.Nil(t, store.FindByName("B"))

	assert.True(t, store.Remove(p.ID))
	assert.False(t, store.Remove(p.ID))
	assert.Empty(t, store.Presets)
}
