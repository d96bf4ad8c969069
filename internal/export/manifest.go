package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// WriteManifest writes m as indented JSON.
func WriteManifest(w io.Writer, m model.Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// SaveManifest writes the manifest of t to path. withImages records the
// SavePieces file names for each piece.
func SaveManifest(path string, t *model.Template, withImages bool) error {
	var names func(int) string
	if withImages {
		names = PieceFileName
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteManifest(f, model.NewManifest(t, names)); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
