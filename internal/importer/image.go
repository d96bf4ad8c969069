package importer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/PuzzleCut/internal/engine"
	"github.com/piwi3910/PuzzleCut/internal/logging"
)

// LoadImage decodes the image at path. PNG, JPEG, GIF, BMP, TIFF and WebP
// are recognised by content, not by extension.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	b := img.Bounds()
	logging.Logger().Info("image loaded", "path", path, "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// FromRGBA8 wraps raw, row-major RGBA pixels (4 bytes per pixel, not
// premultiplied) as an image. pix is copied.
func FromRGBA8(width, height int, pix []byte) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image size %dx%d: %w", width, height, engine.ErrInvalidParameter)
	}
	if len(pix) != 4*width*height {
		return nil, fmt.Errorf("%d bytes for a %dx%d RGBA image, want %d: %w",
			len(pix), width, height, 4*width*height, engine.ErrInvalidParameter)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pix)
	return img, nil
}
