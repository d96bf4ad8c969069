package engine

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/piwi3910/PuzzleCut/internal/logging"
)

// ScaleImage shrinks img to fit within maxWidth x maxHeight, keeping its
// aspect ratio. Images that already fit, and non-positive limits, leave img
// untouched.
func ScaleImage(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth <= 0 || maxHeight <= 0 || (w <= maxWidth && h <= maxHeight) {
		return img
	}
	scale := math.Min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	nw := max(1, int(float64(w)*scale))
	nh := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	logging.Logger().Warn("image scaled down",
		"from", image.Pt(w, h), "to", image.Pt(nw, nh), "limit", image.Pt(maxWidth, maxHeight))
	return dst
}

// normalizeOrigin returns img with its bounds starting at (0, 0), copying
// only when needed.
func normalizeOrigin(img image.Image) image.Image {
	b := img.Bounds()
	if b.Min == (image.Point{}) {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
