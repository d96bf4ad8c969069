package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// DefaultPresetPath returns the default file path for the preset store.
// This is located at ~/.puzzlecut/presets.json.
func DefaultPresetPath() string {
	return filepath.Join(DefaultConfigDir(), PresetsFile)
}

// SavePresets writes the preset store to a JSON file.
func SavePresets(path string, store model.PresetStore) error {
	return writeJSON(path, store)
}

// LoadPresets reads a preset store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadPresets(path string) (model.PresetStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewPresetStore(), nil
		}
		return model.PresetStore{}, err
	}
	var store model.PresetStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.PresetStore{}, err
	}
	if store.Presets == nil {
		store.Presets = []model.Preset{}
	}
	return store, nil
}
