package engine

import (
	"image"
	"math"
	"testing"

	"github.com/piwi3910/PuzzleCut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings(seed uint64) model.GenerationSettings {
	s := model.DefaultGenerationSettings()
	s.Seed = seed
	return s
}

func buildTemplate(t *testing.T, w, h, cols, rows int) *model.Template {
	t.Helper()
	tmpl, err := New(testSettings(3)).BuildGeometry(w, h, cols, rows)
	require.NoError(t, err)
	return tmpl
}

func TestBorderIndices(t *testing.T) {
	top, right, bottom, left := BorderIndices(0, 4)
	assert.Equal(t, []int{0, 1, 4, 0}, []int{top, right, bottom, left})

	top, right, bottom, left = BorderIndices(5, 4)
	assert.Equal(t, []int{5, 7, 9, 6}, []int{top, right, bottom, left})

	top, right, bottom, left = BorderIndices(11, 4)
	assert.Equal(t, []int{11, 14, 15, 13}, []int{top, right, bottom, left})
}

func TestBuildGeometry_EdgeGridLayout(t *testing.T) {
	tmpl := buildTemplate(t, 1000, 800, 4, 3)
	g := tmpl.Edges

	assert.Equal(t, 12, tmpl.PieceCount())
	assert.Equal(t, model.Grid{Columns: 4, Rows: 3}, tmpl.Grid)
	assert.Equal(t, 250.0, tmpl.PieceWidth)
	assert.Equal(t, 266.67, tmpl.PieceHeight)
	require.Len(t, g.Horizontal, 4*4)
	require.Len(t, g.Vertical, 3*5)

	for row := 0; row <= 3; row++ {
		for col := 0; col < 4; col++ {
			border := row == 0 || row == 3
			assert.Equal(t, border, model.IsStraight(g.HorizontalAt(col, row)), "horizontal %d,%d", col, row)
		}
	}
	for row := 0; row < 3; row++ {
		for col := 0; col <= 4; col++ {
			border := col == 0 || col == 4
			assert.Equal(t, border, model.IsStraight(g.VerticalAt(col, row)), "vertical %d,%d", col, row)
		}
	}
}

func TestBuildGeometry_BorderEdgesOnImageBoundary(t *testing.T) {
	tmpl := buildTemplate(t, 640, 480, 5, 4)
	for _, e := range tmpl.Edges.All() {
		if !model.IsStraight(e) {
			continue
		}
		s, end := e.StartPoint(), e.EndPoint()
		onX := (s.X == 0 && end.X == 0) || (s.X == 640 && end.X == 640)
		onY := (s.Y == 0 && end.Y == 0) || (s.Y == 480 && end.Y == 480)
		assert.True(t, onX || onY, "straight edge %v -> %v is not on the border", s, end)
	}
}

func TestBuildGeometry_Deterministic(t *testing.T) {
	gen := New(testSettings(77))
	a, err := gen.BuildGeometry(1200, 900, 6, 5)
	require.NoError(t, err)
	b, err := New(testSettings(77)).BuildGeometry(1200, 900, 6, 5)
	require.NoError(t, err)

	assert.Equal(t, a.Edges.Horizontal, b.Edges.Horizontal)
	assert.Equal(t, a.Edges.Vertical, b.Edges.Vertical)
	for i := range a.Pieces {
		assert.Equal(t, a.Pieces[i].Outline, b.Pieces[i].Outline)
		assert.Equal(t, a.Pieces[i].CropRect(), b.Pieces[i].CropRect())
	}

	c, err := New(testSettings(78)).BuildGeometry(1200, 900, 6, 5)
	require.NoError(t, err)
	assert.NotEqual(t, a.Edges.Vertical, c.Edges.Vertical, "another seed gives another puzzle")
}

func TestBuildGeometry_SharedEdges(t *testing.T) {
	tmpl := buildTemplate(t, 900, 600, 6, 4)
	for i := range tmpl.Pieces {
		p := &tmpl.Pieces[i]
		if right := tmpl.PieceAt(p.Column+1, p.Row); right != nil {
			assert.Equal(t, p.RightIndex, right.LeftIndex)
			assert.True(t, model.EdgesEqual(p.RightEdge(), right.LeftEdge()))
			assert.True(t, p.OnTheLeftSide(right))
			assert.True(t, right.OnTheRightSide(p))
		}
		if below := tmpl.PieceAt(p.Column, p.Row+1); below != nil {
			assert.Equal(t, p.BottomIndex, below.TopIndex)
			assert.True(t, model.EdgesEqual(p.BottomEdge(), below.TopEdge()))
			assert.True(t, p.OnTheTopSide(below))
			assert.True(t, below.OnTheBottomSide(p))
		}
	}
}

// A neighbour traverses the shared edge backwards: its outline holds the
// same segments reversed.
func TestBuildGeometry_NeighbourOutlinesMirror(t *testing.T) {
	tmpl := buildTemplate(t, 400, 400, 2, 2)
	left, right := tmpl.PieceAt(0, 0), tmpl.PieceAt(1, 0)

	// left: top(1 straight) + right(3 indented); right: ... + left reversed (3).
	fwd := left.Outline[1:4]
	rev := right.Outline[len(right.Outline)-3:]
	for i := range fwd {
		assert.Equal(t, fwd[i], rev[2-i].Reversed())
	}
}

func TestBuildGeometry_OutlinesClosedAndClockwise(t *testing.T) {
	tmpl := buildTemplate(t, 800, 600, 4, 3)
	for _, p := range tmpl.Pieces {
		assert.True(t, p.Outline.IsClosed(1e-9), "piece %d", p.Index)
		assert.Equal(t, p.Start, p.Outline[0].Start, "piece %d starts at its top-left corner", p.Index)
		// Positive shoelace area in y-down image coordinates means clockwise.
		assert.Greater(t, p.Outline.Flatten(8).SignedArea(), 0.0, "piece %d", p.Index)
	}
}

func TestBuildGeometry_CropContainsNominalAndStaysInImage(t *testing.T) {
	for _, tc := range []struct{ w, h, cols, rows int }{
		{1000, 800, 4, 3},
		{1000, 1000, 3, 3},
		{333, 777, 7, 5},
		{50, 50, 1, 1},
		{1920, 1080, 16, 9},
	} {
		tmpl := buildTemplate(t, tc.w, tc.h, tc.cols, tc.rows)
		bounds := image.Rect(0, 0, tc.w, tc.h)
		for _, p := range tmpl.Pieces {
			crop := p.CropRect()
			nominal := image.Rect(
				int(math.Floor(p.Start.X)), int(math.Floor(p.Start.Y)),
				int(math.Ceil(p.End.X)), int(math.Ceil(p.End.Y)))
			assert.True(t, nominal.In(crop), "%v: piece %d nominal %v not in crop %v", tc, p.Index, nominal, crop)
			assert.True(t, crop.In(bounds), "%v: piece %d crop %v outside image", tc, p.Index, crop)

			box, ok := p.Outline.BoundingBox()
			require.True(t, ok)
			assert.LessOrEqual(t, float64(crop.Min.X), box.Min.X)
			assert.LessOrEqual(t, float64(crop.Min.Y), box.Min.Y)
			assert.GreaterOrEqual(t, float64(crop.Max.X), math.Min(box.Max.X, float64(tc.w)))
		}
	}
}

func TestBuildGeometry_SinglePiece(t *testing.T) {
	tmpl := buildTemplate(t, 100, 60, 1, 1)
	require.Len(t, tmpl.Pieces, 1)
	p := tmpl.Pieces[0]
	assert.True(t, p.IsEdge())
	assert.Len(t, p.Outline, 4, "four straight sides")
	assert.Equal(t, image.Rect(0, 0, 100, 60), p.CropRect())
}

// The last column ends on the image edge even when the uniform piece
// width does not divide the image exactly.
func TestBuildGeometry_LastColumnFallsBackToImageEdge(t *testing.T) {
	tmpl := buildTemplate(t, 1000, 300, 3, 1)
	assert.Equal(t, 333.33, tmpl.PieceWidth)

	last := tmpl.PieceAt(2, 0)
	assert.Equal(t, 666.66, last.Start.X)
	assert.Equal(t, 1000.0, last.End.X)
	assert.InDelta(t, 333.34, last.End.X-last.Start.X, 1e-9)
	assert.Equal(t, 333.33, last.Width, "nominal width stays the uniform one")
	assert.Equal(t, 1000.0, last.RightEdge().StartPoint().X)
}

func TestBuildGeometry_Errors(t *testing.T) {
	gen := New(testSettings(0))

	_, err := gen.BuildGeometry(100, 100, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = gen.BuildGeometry(100, 100, 3, -1)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// 10/5000 rounds to 0.
	_, err = gen.BuildGeometry(10, 100, 5000, 1)
	assert.ErrorIs(t, err, ErrImageTooSmall)
	_, err = gen.BuildGeometry(100, 10, 1, 5000)
	assert.ErrorIs(t, err, ErrImageTooSmall)
	_, err = gen.BuildGeometry(0, 100, 1, 1)
	assert.ErrorIs(t, err, ErrImageTooSmall)

	bad := testSettings(0)
	bad.TabSize = 40
	_, err = New(bad).BuildGeometry(100, 100, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	bad = testSettings(0)
	bad.Jitter = -1
	_, err = New(bad).BuildGeometry(100, 100, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// Pieces narrower than a pixel are allowed as long as their size does not
// round to zero.
func TestBuildGeometry_SubPixelPiecesNotTooSmall(t *testing.T) {
	_, err := New(testSettings(0)).BuildGeometry(10, 100, 20, 1)
	assert.NotErrorIs(t, err, ErrImageTooSmall)
}

// Rounding of the uniform length can eat the last piece entirely.
func TestBuildGeometry_RoundingDriftTooLarge(t *testing.T) {
	// 1007/1000 rounds to 1.01, so the 1000th start lies past the image.
	_, err := New(testSettings(0)).BuildGeometry(1007, 10, 1000, 1)
	assert.ErrorIs(t, err, ErrImageTooSmall)
}

func TestCropSpan(t *testing.T) {
	start, length := cropSpan(10.2, 50.7, 40, 1000)
	assert.Equal(t, 9, start)
	assert.Equal(t, 43, length)

	start, length = cropSpan(960, 1000, 40, 1000)
	assert.Equal(t, 959, start)
	assert.Equal(t, 41, length, "clamped to the image")

	start, length = cropSpan(0, 10, 40, 1000)
	assert.Equal(t, 0, start)
	assert.Equal(t, 40, length, "never smaller than the nominal size")
}

func TestGenerate_UsesImageSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	tmpl, err := New(testSettings(1)).Generate(img, 4, 2)
	require.NoError(t, err)
	assert.Same(t, img, tmpl.Image)
	assert.Equal(t, 200, tmpl.Width)
	assert.Equal(t, 100, tmpl.Height)
	assert.Equal(t, 50.0, tmpl.PieceWidth)

	geom, err := New(testSettings(1)).BuildGeometry(200, 100, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, geom.Edges.Vertical, tmpl.Edges.Vertical, "pixels do not influence geometry")
}

func TestGenerate_NormalizesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 300))
	sub := src.SubImage(image.Rect(10, 20, 110, 80))
	tmpl, err := New(testSettings(0)).Generate(sub, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 60), tmpl.Image.Bounds())
}

func TestGenerate_Resize(t *testing.T) {
	s := testSettings(0)
	s.Resize = true
	s.MaxWidth, s.MaxHeight = 100, 100
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))

	tmpl, err := New(s).Generate(img, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, tmpl.Width)
	assert.Equal(t, 25, tmpl.Height)
	assert.True(t, tmpl.Settings.Resize)
}

func TestGenerate_NilImage(t *testing.T) {
	_, err := New(testSettings(0)).Generate(nil, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestGenerateForCount(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 666, 666))
	tmpl, err := New(testSettings(0)).GenerateForCount(img, 24)
	require.NoError(t, err)
	assert.Equal(t, model.Grid{Columns: 6, Rows: 4}, tmpl.Grid)
	assert.Len(t, tmpl.Pieces, 24)

	_, err = New(testSettings(0)).GenerateForCount(img, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

// Edges are drawn from one generator row by row; within a row the
// horizontal edge above a piece comes before its left vertical edge.
// Any change to this order changes every puzzle for a given seed.
func TestBuildGeometry_EdgeOrder(t *testing.T) {
	s := testSettings(0)
	const w, h, cols, rows = 300, 200, 3, 2
	tmpl, err := New(s).BuildGeometry(w, h, cols, rows)
	require.NoError(t, err)

	xs, pw, err := DivideAxis(w, cols)
	require.NoError(t, err)
	ys, ph, err := DivideAxis(h, rows)
	require.NoError(t, err)
	params, err := NewContourParams(pw, ph, s.TabSize, s.Jitter)
	require.NoError(t, err)
	state := InitialState(s.Seed, params)
	next := func(start, end model.Point) model.IndentedEdge {
		var e model.IndentedEdge
		e, state = NextEdge(params, state, start, end)
		return e
	}

	drawn := 0
	for r, y := range ys {
		yEnd := EndPoint(r, ys, h)
		for c, x := range xs {
			xEnd := EndPoint(c, xs, w)
			if r > 0 {
				assert.Equal(t, next(model.Pt(x, y), model.Pt(xEnd, y)), tmpl.Edges.HorizontalAt(c, r),
					"horizontal edge above column %d row %d", c, r)
				drawn++
			}
			if c > 0 {
				assert.Equal(t, next(model.Pt(x, y), model.Pt(x, yEnd)), tmpl.Edges.VerticalAt(c, r),
					"vertical edge left of column %d row %d", c, r)
				drawn++
			}
		}
	}
	// 3 horizontal interior edges and 2 vertical ones per row.
	assert.Equal(t, 3+2*2, drawn)
}
