package model

import (
	"time"

	"github.com/google/uuid"
)

// Preset is a named, reusable generation configuration. Either PieceCount
// or Grid is set; a non-zero Grid wins.
type Preset struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	PieceCount  int                `json:"piece_count,omitempty"`
	Grid        Grid               `json:"grid"`
	Settings    GenerationSettings `json:"settings"`
}

func NewPreset(name, description string, pieceCount int, grid Grid, settings GenerationSettings) Preset {
	now := time.Now().UTC().Format(time.RFC3339)
	return Preset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		PieceCount:  pieceCount,
		Grid:        grid,
		Settings:    settings,
	}
}

// HasGrid reports whether the preset fixes columns and rows explicitly.
func (p Preset) HasGrid() bool {
	return p.Grid.Columns > 0 && p.Grid.Rows > 0
}

// PresetStore holds a collection of presets.
type PresetStore struct {
	Presets []Preset `json:"presets"`
}

func NewPresetStore() PresetStore {
	return PresetStore{Presets: []Preset{}}
}

// Add appends p, replacing an existing preset with the same name.
func (s *PresetStore) Add(p Preset) {
	for i := range s.Presets {
		if s.Presets[i].Name == p.Name {
			p.ID = s.Presets[i].ID
			p.CreatedAt = s.Presets[i].CreatedAt
			s.Presets[i] = p
			return
		}
	}
	s.Presets = append(s.Presets, p)
}

// Remove deletes the preset with the given ID. Returns true if found.
func (s *PresetStore) Remove(id string) bool {
	for i, p := range s.Presets {
		if p.ID == id {
			s.Presets = append(s.Presets[:i], s.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns the preset with the given ID, or nil.
func (s *PresetStore) FindByID(id string) *Preset {
	for i := range s.Presets {
		if s.Presets[i].ID == id {
			return &s.Presets[i]
		}
	}
	return nil
}

// FindByName returns the first preset with the given name, or nil.
func (s *PresetStore) FindByName(name string) *Preset {
	for i := range s.Presets {
		if s.Presets[i].Name == name {
			return &s.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in store order.
func (s *PresetStore) Names() []string {
	names := make([]string, len(s.Presets))
	for i, p := range s.Presets {
		names[i] = p.Name
	}
	return names
}
