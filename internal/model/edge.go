package model

import (
	"math"

	"github.com/gogpu/gg"
)

// EdgeTolerance is the coordinate tolerance used when comparing edges.
const EdgeTolerance = 1e-6

// DefaultFlattenSteps is the number of line segments a cubic segment is
// flattened into when no other value is configured.
const DefaultFlattenSteps = 16

// Bezier is one segment of a piece outline: a cubic curve, or a straight
// line when Linear is set (the control points are then ignored).
type Bezier struct {
	Start    Point `json:"start"`
	Control1 Point `json:"control_1"`
	Control2 Point `json:"control_2"`
	End      Point `json:"end"`
	Linear   bool  `json:"linear,omitempty"`
}

// NewLinear returns a straight segment from start to end.
func NewLinear(start, end Point) Bezier {
	return Bezier{Start: start, Control1: start, Control2: end, End: end, Linear: true}
}

// Reversed returns the same curve traversed from End to Start.
func (b Bezier) Reversed() Bezier {
	return Bezier{
		Start:    b.End,
		Control1: b.Control2,
		Control2: b.Control1,
		End:      b.Start,
		Linear:   b.Linear,
	}
}

// Eval returns the point at parameter t in [0, 1].
func (b Bezier) Eval(t float64) Point {
	if b.Linear {
		return fromGG(gg.NewLine(b.Start.GG(), b.End.GG()).Eval(t))
	}
	return fromGG(b.cubic().Eval(t))
}

// BoundingBox returns the tight axis-aligned bounds of the curve.
func (b Bezier) BoundingBox() gg.Rect {
	if b.Linear {
		return gg.NewLine(b.Start.GG(), b.End.GG()).BoundingBox()
	}
	return b.cubic().BoundingBox()
}

// Flatten approximates the curve with steps line segments and returns
// steps+1 points including both endpoints. Straight segments always
// yield their two endpoints.
func (b Bezier) Flatten(steps int) []Point {
	if b.Linear {
		return []Point{b.Start, b.End}
	}
	if steps < 1 {
		steps = DefaultFlattenSteps
	}
	c := b.cubic()
	pts := make([]Point, steps+1)
	pts[0] = b.Start
	for i := 1; i < steps; i++ {
		pts[i] = fromGG(c.Eval(float64(i) / float64(steps)))
	}
	pts[steps] = b.End
	return pts
}

// FlattenCanonical flattens b starting from whichever end sorts first,
// then restores b's direction. A curve and its reverse give the same
// points, so pieces sharing an edge share its polygon exactly.
func (b Bezier) FlattenCanonical(steps int) []Point {
	r := b.Reversed()
	if !lessCurve(r, b) {
		return b.Flatten(steps)
	}
	pts := r.Flatten(steps)
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts
}

func lessCurve(a, b Bezier) bool {
	for _, pair := range [4][2]Point{
		{a.Start, b.Start}, {a.Control1, b.Control1}, {a.Control2, b.Control2}, {a.End, b.End},
	} {
		p, q := pair[0], pair[1]
		if p.X != q.X {
			return p.X < q.X
		}
		if p.Y != q.Y {
			return p.Y < q.Y
		}
	}
	return false
}

// ApproxEqual compares all four points within tol.
func (b Bezier) ApproxEqual(o Bezier, tol float64) bool {
	if b.Linear != o.Linear {
		return false
	}
	if b.Linear {
		return b.Start.ApproxEqual(o.Start, tol) && b.End.ApproxEqual(o.End, tol)
	}
	return b.Start.ApproxEqual(o.Start, tol) &&
		b.Control1.ApproxEqual(o.Control1, tol) &&
		b.Control2.ApproxEqual(o.Control2, tol) &&
		b.End.ApproxEqual(o.End, tol)
}

func (b Bezier) cubic() gg.CubicBez {
	return gg.NewCubicBez(b.Start.GG(), b.Control1.GG(), b.Control2.GG(), b.End.GG())
}

// Path is a sequence of connected Bézier segments.
type Path []Bezier

// BoundingBox returns the union of all segment bounds. ok is false for an
// empty path.
func (p Path) BoundingBox() (r gg.Rect, ok bool) {
	if len(p) == 0 {
		return gg.Rect{}, false
	}
	r = p[0].BoundingBox()
	for _, b := range p[1:] {
		r = r.Union(b.BoundingBox())
	}
	if math.IsNaN(r.Width()) || math.IsNaN(r.Height()) {
		return gg.Rect{}, false
	}
	return r, true
}

// IsClosed reports whether every segment starts where the previous one
// ended and the last segment returns to the first start point.
func (p Path) IsClosed(tol float64) bool {
	if len(p) == 0 {
		return false
	}
	for i := range p {
		next := p[(i+1)%len(p)]
		if !p[i].End.ApproxEqual(next.Start, tol) {
			return false
		}
	}
	return true
}

// Flatten converts the path to a polygon. Shared endpoints between
// consecutive segments appear once.
func (p Path) Flatten(steps int) Outline {
	var out Outline
	for _, b := range p {
		pts := b.Flatten(steps)
		out = append(out, pts[:len(pts)-1]...)
	}
	return out
}

// FlattenCanonical is Flatten with every curve flattened canonically.
func (p Path) FlattenCanonical(steps int) Outline {
	var out Outline
	for _, b := range p {
		pts := b.FlattenCanonical(steps)
		out = append(out, pts[:len(pts)-1]...)
	}
	return out
}

// IndentationSegment is one cubic Bézier curve of an indented edge.
type IndentationSegment struct {
	Start    Point `json:"start"`
	End      Point `json:"end"`
	Control1 Point `json:"control_1"`
	Control2 Point `json:"control_2"`
}

// Bezier returns the segment as a curve, reversed if requested.
func (s IndentationSegment) Bezier(reverse bool) Bezier {
	b := Bezier{Start: s.Start, Control1: s.Control1, Control2: s.Control2, End: s.End}
	if reverse {
		return b.Reversed()
	}
	return b
}

// Edge is one side of a piece: either an IndentedEdge shared by two
// pieces or a StraightEdge on the puzzle border. The set of variants is
// closed.
type Edge interface {
	// Beziers returns the curves of the edge in traversal order.
	Beziers(reverse bool) []Bezier
	StartPoint() Point
	EndPoint() Point
	isEdge()
}

// IndentedEdge is an interior edge made of three segments end to end.
// Middle is the tab.
type IndentedEdge struct {
	First  IndentationSegment `json:"first"`
	Middle IndentationSegment `json:"middle"`
	Last   IndentationSegment `json:"last"`
}

func (e IndentedEdge) Beziers(reverse bool) []Bezier {
	if reverse {
		return []Bezier{e.Last.Bezier(true), e.Middle.Bezier(true), e.First.Bezier(true)}
	}
	return []Bezier{e.First.Bezier(false), e.Middle.Bezier(false), e.Last.Bezier(false)}
}

func (e IndentedEdge) StartPoint() Point { return e.First.Start }
func (e IndentedEdge) EndPoint() Point   { return e.Last.End }
func (IndentedEdge) isEdge()             {}

// StraightEdge is a border edge.
type StraightEdge struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (e StraightEdge) Beziers(reverse bool) []Bezier {
	if reverse {
		return []Bezier{NewLinear(e.End, e.Start)}
	}
	return []Bezier{NewLinear(e.Start, e.End)}
}

func (e StraightEdge) StartPoint() Point { return e.Start }
func (e StraightEdge) EndPoint() Point   { return e.End }
func (StraightEdge) isEdge()             {}

// IsStraight reports whether e lies on the puzzle border.
func IsStraight(e Edge) bool {
	_, ok := e.(StraightEdge)
	return ok
}

// EdgesEqual reports whether a and b are the same edge: same variant and
// the same control points within EdgeTolerance.
func EdgesEqual(a, b Edge) bool {
	switch ea := a.(type) {
	case IndentedEdge:
		eb, ok := b.(IndentedEdge)
		if !ok {
			return false
		}
		return segmentsEqual(ea.First, eb.First) &&
			segmentsEqual(ea.Middle, eb.Middle) &&
			segmentsEqual(ea.Last, eb.Last)
	case StraightEdge:
		eb, ok := b.(StraightEdge)
		if !ok {
			return false
		}
		return ea.Start.ApproxEqual(eb.Start, EdgeTolerance) && ea.End.ApproxEqual(eb.End, EdgeTolerance)
	default:
		return false
	}
}

func segmentsEqual(a, b IndentationSegment) bool {
	return a.Bezier(false).ApproxEqual(b.Bezier(false), EdgeTolerance)
}

// EdgeGrid holds every edge of a puzzle by value. Horizontal edges are
// stored row by row, (Rows+1)*Columns of them; vertical edges row by row,
// Rows*(Columns+1) of them. Pieces refer to edges by index so two
// neighbours always see the same value.
type EdgeGrid struct {
	Grid       Grid   `json:"grid"`
	Horizontal []Edge `json:"-"`
	Vertical   []Edge `json:"-"`
}

// HorizontalAt returns the horizontal edge above the piece at (column, row).
// row may equal Rows for the bottom border.
func (g *EdgeGrid) HorizontalAt(column, row int) Edge {
	return g.Horizontal[row*g.Grid.Columns+column]
}

// VerticalAt returns the vertical edge left of the piece at (column, row).
// column may equal Columns for the right border.
func (g *EdgeGrid) VerticalAt(column, row int) Edge {
	return g.Vertical[row*(g.Grid.Columns+1)+column]
}

// All returns the horizontal edges followed by the vertical edges.
func (g *EdgeGrid) All() []Edge {
	all := make([]Edge, 0, len(g.Horizontal)+len(g.Vertical))
	all = append(all, g.Horizontal...)
	return append(all, g.Vertical...)
}
