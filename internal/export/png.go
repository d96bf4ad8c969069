package export

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

// PieceFileName is the file name SavePieces uses for piece index.
func PieceFileName(index int) string {
	return fmt.Sprintf("puzzle_piece_%d.png", index)
}

// SavePieces writes images[i], the cropped bitmap of t.Pieces[i], to
// dir/puzzle_piece_<index>.png. A failing piece does not stop the others;
// all failures are returned together.
func SavePieces(dir string, t *model.Template, images []*image.RGBA) error {
	if len(images) != len(t.Pieces) {
		return fmt.Errorf("have %d images for %d pieces", len(images), len(t.Pieces))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var errs error
	for i, img := range images {
		path := filepath.Join(dir, PieceFileName(t.Pieces[i].Index))
		if img == nil {
			errs = multierr.Append(errs, fmt.Errorf("piece %d: no image", t.Pieces[i].Index))
			continue
		}
		if err := SavePNG(path, img); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("piece %d: %w", t.Pieces[i].Index, err))
			continue
		}
		logging.Logger().Debug("piece saved", "index", t.Pieces[i].Index, "path", path)
	}
	return errs
}

// SavePNG encodes img to path.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()
	return png.Encode(f, img)
}
