// Package raster turns piece outlines into pixels: containment masks,
// cropped piece bitmaps and silhouettes.
package raster

import (
	"errors"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// ErrEmptyOutline is returned for outlines that enclose nothing.
var ErrEmptyOutline = errors.New("raster: empty outline")

// segment is a non-horizontal polygon edge with lo.Y < hi.Y.
type segment struct {
	lo, hi model.Point
}

// crossing returns the x coordinate where the segment meets the horizontal
// line at y. The computation depends only on the ordered endpoints, so two
// pieces sharing a segment get bit-identical results.
func (s segment) crossing(y float64) float64 {
	return s.lo.X + (y-s.lo.Y)*(s.hi.X-s.lo.X)/(s.hi.Y-s.lo.Y)
}

// spans reports whether the half-open interval [lo.Y, hi.Y) contains y.
func (s segment) spans(y float64) bool {
	return s.lo.Y <= y && y < s.hi.Y
}

// Tester decides whether points lie inside a closed outline using the
// even-odd rule against its flattened polygon.
//
// Curves are flattened in a canonical direction, so the polygons of two
// pieces that share an edge share exactly the same vertices along it. The
// engine only accepts pieces whose polygon at model.DefaultFlattenSteps is
// simple and clockwise, so with pixel centres as sample points every pixel
// of a generated puzzle is inside exactly one piece.
type Tester struct {
	segments []segment
	bounds   image.Rectangle // Pixels whose centre may be inside
}

// NewTester flattens outline with the given number of steps per curve.
func NewTester(outline model.Path, steps int) (*Tester, error) {
	if len(outline) == 0 {
		return nil, ErrEmptyOutline
	}
	t := &Tester{}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range outline {
		pts := b.FlattenCanonical(steps)
		for i := 1; i < len(pts); i++ {
			p, q := pts[i-1], pts[i]
			minX, maxX = math.Min(minX, math.Min(p.X, q.X)), math.Max(maxX, math.Max(p.X, q.X))
			minY, maxY = math.Min(minY, math.Min(p.Y, q.Y)), math.Max(maxY, math.Max(p.Y, q.Y))
			switch {
			case p.Y < q.Y:
				t.segments = append(t.segments, segment{lo: p, hi: q})
			case q.Y < p.Y:
				t.segments = append(t.segments, segment{lo: q, hi: p})
			}
		}
	}
	if len(t.segments) == 0 || !(maxX > minX) {
		return nil, fmt.Errorf("outline of %d segments: %w", len(outline), ErrEmptyOutline)
	}
	t.bounds = image.Rect(
		int(math.Floor(minX-0.5)), int(math.Floor(minY-0.5)),
		int(math.Ceil(maxX+0.5)), int(math.Ceil(maxY+0.5)))
	return t, nil
}

// Bounds returns the pixels whose centres can be inside the outline.
func (t *Tester) Bounds() image.Rectangle {
	return t.bounds
}

// Contains reports whether the point (x, y) is inside. Points exactly on a
// vertical crossing belong to the region on their right.
func (t *Tester) Contains(x, y float64) bool {
	inside := false
	for _, s := range t.segments {
		if s.spans(y) && s.crossing(y) > x {
			inside = !inside
		}
	}
	return inside
}

// ContainsPixel tests the centre of pixel (x, y).
func (t *Tester) ContainsPixel(x, y int) bool {
	return t.Contains(float64(x)+0.5, float64(y)+0.5)
}

// Mask returns an alpha mask over r, opaque where the pixel centre is
// inside. It gives the same answer as ContainsPixel, one scanline at a time.
func (t *Tester) Mask(r image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(r)
	xs := make([]float64, 0, 16)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		cy := float64(y) + 0.5
		xs = xs[:0]
		for _, s := range t.segments {
			if s.spans(cy) {
				xs = append(xs, s.crossing(cy))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		// A closed outline crosses every scanline an even number of
		// times. A centre cx has an odd number of crossings to its right
		// exactly when xs[2k] <= cx < xs[2k+1].
		for k := 0; k+1 < len(xs); k += 2 {
			lo := int(math.Ceil(xs[k] - 0.5))
			hi := int(math.Ceil(xs[k+1] - 0.5))
			lo, hi = max(lo, r.Min.X), min(hi, r.Max.X)
			if lo >= hi {
				continue
			}
			off := mask.PixOffset(lo, y)
			for i := 0; i < hi-lo; i++ {
				mask.Pix[off+i] = 0xff
			}
		}
	}
	return mask
}
