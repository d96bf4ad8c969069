package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// ReadManifest loads a manifest written by export.SaveManifest.
func ReadManifest(path string) (model.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Manifest{}, err
	}
	var m model.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != model.ManifestVersion {
		return model.Manifest{}, fmt.Errorf("unsupported manifest version %d", m.Version)
	}
	if len(m.Pieces) != m.Grid.Count() {
		return model.Manifest{}, fmt.Errorf("manifest lists %d pieces for a %s grid", len(m.Pieces), m.Grid)
	}
	for i, p := range m.Pieces {
		if p.Index != i {
			return model.Manifest{}, fmt.Errorf("manifest piece %d has index %d", i, p.Index)
		}
	}
	return m, nil
}
