package raster

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

// CropOptions controls how piece bitmaps are cut out.
type CropOptions struct {
	// StrokeColor outlines the piece. Nil disables the stroke.
	StrokeColor color.Color
	StrokeWidth float64

	// FlattenSteps is the number of line segments per curve used for the
	// containment mask.
	FlattenSteps int
}

func DefaultCropOptions() CropOptions {
	return CropOptions{
		StrokeColor:  color.White,
		StrokeWidth:  1,
		FlattenSteps: model.DefaultFlattenSteps,
	}
}

// Crop cuts piece p out of img. The result covers p's crop rectangle,
// with its origin at the rectangle's top-left corner. Pixels whose centre
// lies outside the outline are fully transparent.
func Crop(img image.Image, p *model.Piece, opts CropOptions) (*image.RGBA, error) {
	r := p.CropRect()
	if r.Empty() || !r.In(img.Bounds()) {
		return nil, fmt.Errorf("piece %d: crop %v outside image %v", p.Index, r, img.Bounds())
	}
	tester, err := NewTester(p.Outline, opts.FlattenSteps)
	if err != nil {
		return nil, fmt.Errorf("piece %d: %w", p.Index, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.DrawMask(dst, dst.Bounds(), img, r.Min, tester.Mask(r), r.Min, draw.Src)

	if opts.StrokeColor != nil && opts.StrokeWidth > 0 {
		if err := strokeOutline(dst, p.Outline, r.Min, opts); err != nil {
			return nil, fmt.Errorf("piece %d: stroke outline: %w", p.Index, err)
		}
	}
	logging.Logger().Debug("piece cropped", "index", p.Index, "crop", r)
	return dst, nil
}

// strokeOutline draws the outline, shifted by -origin, over dst.
func strokeOutline(dst *image.RGBA, outline model.Path, origin image.Point, opts CropOptions) error {
	b := dst.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	defer dc.Close()

	ox, oy := float64(origin.X), float64(origin.Y)
	dc.MoveTo(outline[0].Start.X-ox, outline[0].Start.Y-oy)
	for _, s := range outline {
		if s.Linear {
			dc.LineTo(s.End.X-ox, s.End.Y-oy)
			continue
		}
		dc.CubicTo(
			s.Control1.X-ox, s.Control1.Y-oy,
			s.Control2.X-ox, s.Control2.Y-oy,
			s.End.X-ox, s.End.Y-oy)
	}
	dc.ClosePath()
	dc.SetColor(opts.StrokeColor)
	dc.SetLineWidth(opts.StrokeWidth)
	if err := dc.Stroke(); err != nil {
		return err
	}
	draw.Draw(dst, b, dc.Image(), image.Point{}, draw.Over)
	return nil
}

// FillWhite returns a copy of img in which every pixel that is not fully
// transparent is opaque white: the piece silhouette.
func FillWhite(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				dst.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
			}
		}
	}
	return dst
}

// CropAll crops every piece of t from t.Image in parallel. The result is
// indexed like t.Pieces.
func CropAll(t *model.Template, opts CropOptions) ([]*image.RGBA, error) {
	if t.Image == nil {
		return nil, fmt.Errorf("crop pieces: template has no image")
	}
	out := make([]*image.RGBA, len(t.Pieces))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range t.Pieces {
		eg.Go(func() error {
			img, err := Crop(t.Image, &t.Pieces[i], opts)
			if err != nil {
				return err
			}
			out[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
