// Package engine generates jigsaw puzzle geometry: grid layout, tab
// contours, piece outlines and crop rectangles.
package engine

import (
	"fmt"
	"image"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/PuzzleCut/internal/logging"
	"github.com/piwi3910/PuzzleCut/internal/model"
)

// cropMargin is the crop padding around a piece outline, as a fraction of
// the nominal piece size.
const cropMargin = 0.01

// Generator cuts images into jigsaw templates.
type Generator struct {
	Settings model.GenerationSettings
}

func New(settings model.GenerationSettings) *Generator {
	return &Generator{Settings: settings}
}

// Generate cuts img into columns x rows pieces. With Settings.Resize the
// image is scaled down first and the template refers to the scaled image.
func (g *Generator) Generate(img image.Image, columns, rows int) (*model.Template, error) {
	img, err := g.prepare(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	t, err := g.BuildGeometry(b.Dx(), b.Dy(), columns, rows)
	if err != nil {
		return nil, err
	}
	t.Image = img
	return t, nil
}

// GenerateForCount cuts img into exactly count pieces, choosing the most
// square grid for the (possibly scaled) image.
func (g *Generator) GenerateForCount(img image.Image, count int) (*model.Template, error) {
	img, err := g.prepare(img)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	grid, err := ColumnsRows(float64(b.Dx()), float64(b.Dy()), count)
	if err != nil {
		return nil, err
	}
	t, err := g.BuildGeometry(b.Dx(), b.Dy(), grid.Columns, grid.Rows)
	if err != nil {
		return nil, err
	}
	t.Image = img
	return t, nil
}

func (g *Generator) prepare(img image.Image) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("generate: nil image: %w", ErrInvalidParameter)
	}
	if g.Settings.Resize {
		maxW, maxH := g.Settings.MaxWidth, g.Settings.MaxHeight
		if maxW <= 0 || maxH <= 0 {
			maxW, maxH = model.DefaultMaxWidth, model.DefaultMaxHeight
		}
		img = ScaleImage(img, maxW, maxH)
	}
	return normalizeOrigin(img), nil
}

// axes holds the partition of the image shared by every piece.
type axes struct {
	xs, ys        []float64
	width, height float64 // image size
	pieceW        float64
	pieceH        float64
	imgW, imgH    int
}

func (a *axes) grid() model.Grid {
	return model.Grid{Columns: len(a.xs), Rows: len(a.ys)}
}

// BuildGeometry lays out a columns x rows puzzle over a width x height
// image without touching pixels. Edges are generated in one sequential
// pass, pieces are then assembled in parallel.
func (g *Generator) BuildGeometry(width, height, columns, rows int) (*model.Template, error) {
	if columns < 1 || rows < 1 {
		return nil, fmt.Errorf("grid %dx%d: %w", columns, rows, ErrInvalidParameter)
	}
	a, err := partition(width, height, columns, rows)
	if err != nil {
		return nil, err
	}
	s := g.Settings
	gen, err := NewContourGenerator(a.pieceW, a.pieceH, s.TabSize, s.Jitter, s.Seed)
	if err != nil {
		return nil, err
	}

	grid := a.grid()
	log := logging.Logger()
	log.Info("generating puzzle",
		"width", width, "height", height, "grid", grid.String(), "seed", s.Seed,
		"tab_size", s.TabSize, "jitter", s.Jitter)

	edges := buildEdgeGrid(gen, a)

	pieces := make([]model.Piece, grid.Count())
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range pieces {
		eg.Go(func() error {
			p, err := assemblePiece(i, edges, a)
			if err != nil {
				return err
			}
			pieces[i] = p
			log.Debug("piece assembled", "index", i, "crop", p.CropRect())
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	log.Info("puzzle generated", "pieces", len(pieces),
		"piece_width", a.pieceW, "piece_height", a.pieceH)
	return &model.Template{
		Pieces:      pieces,
		Width:       width,
		Height:      height,
		PieceWidth:  a.pieceW,
		PieceHeight: a.pieceH,
		Grid:        grid,
		Settings:    s,
		Edges:       edges,
	}, nil
}

// partition divides both image axes and rejects grids where a piece's
// width or height rounds to zero.
func partition(width, height, columns, rows int) (*axes, error) {
	w, h := float64(width), float64(height)
	xs, pw, err := DivideAxis(w, columns)
	if err != nil {
		return nil, err
	}
	ys, ph, err := DivideAxis(h, rows)
	if err != nil {
		return nil, err
	}
	if pw <= 0 || ph <= 0 {
		return nil, fmt.Errorf("%dx%d image into %dx%d pieces of %.2fx%.2f px: %w",
			width, height, columns, rows, pw, ph, ErrImageTooSmall)
	}
	// Rounded starts drift; the last column and row take up the rest.
	if lastW, lastH := model.Round2(w-xs[columns-1]), model.Round2(h-ys[rows-1]); lastW <= 0 || lastH <= 0 {
		return nil, fmt.Errorf("%dx%d image into %dx%d pieces leaves %.2fx%.2f px for the last piece: %w",
			width, height, columns, rows, lastW, lastH, ErrImageTooSmall)
	}
	return &axes{
		xs: xs, ys: ys,
		width: w, height: h,
		pieceW: pw, pieceH: ph,
		imgW: width, imgH: height,
	}, nil
}

// buildEdgeGrid creates every edge of the puzzle. The order is fixed:
// row by row, and within a row the horizontal edge above each piece before
// its left vertical edge. Changing it changes every generated puzzle.
func buildEdgeGrid(gen *ContourGenerator, a *axes) *model.EdgeGrid {
	cols, rows := len(a.xs), len(a.ys)
	g := &model.EdgeGrid{
		Grid:       model.Grid{Columns: cols, Rows: rows},
		Horizontal: make([]model.Edge, 0, (rows+1)*cols),
		Vertical:   make([]model.Edge, 0, rows*(cols+1)),
	}
	for r, y := range a.ys {
		yEnd := EndPoint(r, a.ys, a.height)
		for c, x := range a.xs {
			xEnd := EndPoint(c, a.xs, a.width)
			if r == 0 {
				g.Horizontal = append(g.Horizontal, model.StraightEdge{Start: model.Pt(x, 0), End: model.Pt(xEnd, 0)})
			} else {
				g.Horizontal = append(g.Horizontal, gen.Create(model.Pt(x, y), model.Pt(xEnd, y)))
			}
			if c == 0 {
				g.Vertical = append(g.Vertical, model.StraightEdge{Start: model.Pt(0, y), End: model.Pt(0, yEnd)})
			} else {
				g.Vertical = append(g.Vertical, gen.Create(model.Pt(x, y), model.Pt(x, yEnd)))
			}
		}
		g.Vertical = append(g.Vertical, model.StraightEdge{Start: model.Pt(a.width, y), End: model.Pt(a.width, yEnd)})
	}
	for c, x := range a.xs {
		xEnd := EndPoint(c, a.xs, a.width)
		g.Horizontal = append(g.Horizontal, model.StraightEdge{Start: model.Pt(x, a.height), End: model.Pt(xEnd, a.height)})
	}
	return g
}

// BorderIndices maps a row-major piece position to the indices of its top
// and bottom edges in EdgeGrid.Horizontal and of its right and left edges
// in EdgeGrid.Vertical.
func BorderIndices(position, columns int) (top, right, bottom, left int) {
	row := position / columns
	return position, position + 1 + row, position + columns, position + row
}

// assemblePiece builds piece i from the finished edge grid. It only reads
// shared state.
func assemblePiece(i int, edges *model.EdgeGrid, a *axes) (model.Piece, error) {
	cols := len(a.xs)
	col, row := i%cols, i/cols
	top, right, bottom, left := BorderIndices(i, cols)
	p := model.Piece{
		Index:       i,
		Column:      col,
		Row:         row,
		Start:       model.Pt(a.xs[col], a.ys[row]),
		End:         model.Pt(EndPoint(col, a.xs, a.width), EndPoint(row, a.ys, a.height)),
		Width:       a.pieceW,
		Height:      a.pieceH,
		TopIndex:    top,
		RightIndex:  right,
		BottomIndex: bottom,
		LeftIndex:   left,
		Edges:       edges,
	}

	// Clockwise from the top-left corner.
	var outline model.Path
	outline = append(outline, p.TopEdge().Beziers(false)...)
	outline = append(outline, p.RightEdge().Beziers(false)...)
	outline = append(outline, p.BottomEdge().Beziers(true)...)
	outline = append(outline, p.LeftEdge().Beziers(true)...)
	p.Outline = outline

	box, ok := outline.BoundingBox()
	if !ok || !(box.Width() > 0) || !(box.Height() > 0) {
		return model.Piece{}, fmt.Errorf("piece %d: outline has no bounding box: %w", i, ErrDegenerateGeometry)
	}
	if err := checkOutline(outline, model.DefaultFlattenSteps); err != nil {
		return model.Piece{}, fmt.Errorf("piece %d (column %d, row %d): %w", i, col, row, err)
	}
	p.CropX, p.CropWidth = cropSpan(box.Min.X, box.Max.X, a.pieceW, a.imgW)
	p.CropY, p.CropHeight = cropSpan(box.Min.Y, box.Max.Y, a.pieceH, a.imgH)
	return p, nil
}

// cropSpan pads [lo, hi] by the crop margin, snaps it outwards to whole
// pixels, widens it to at least the nominal size and clamps it to
// [0, limit]. Returns origin and length.
func cropSpan(lo, hi, nominal float64, limit int) (int, int) {
	pad := nominal * cropMargin
	start := math.Floor(math.Max(0, lo-pad))
	end := math.Ceil(hi + pad)
	if end-start < math.Ceil(nominal) {
		end = start + math.Ceil(nominal)
	}
	end = math.Min(end, float64(limit))
	return int(start), int(end - start)
}
