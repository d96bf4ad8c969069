package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// ContourParams are the fixed inputs of contour generation for one puzzle.
type ContourParams struct {
	PieceWidth  float64
	PieceHeight float64
	TabSize     float64 // Fraction of the piece length, 0.05..0.15
	Jitter      float64 // Fraction of the piece length, 0..0.13
}

// NewContourParams validates tab size (10..30) and jitter (0..13) given in
// user units and converts them to fractions of the piece length.
func NewContourParams(pieceWidth, pieceHeight, tabSize, jitter float64) (ContourParams, error) {
	if !(tabSize >= model.MinTabSize && tabSize <= model.MaxTabSize) {
		return ContourParams{}, fmt.Errorf("tab size %v outside [%v, %v]: %w",
			tabSize, model.MinTabSize, model.MaxTabSize, ErrInvalidParameter)
	}
	if !(jitter >= model.MinJitter && jitter <= model.MaxJitter) {
		return ContourParams{}, fmt.Errorf("jitter %v outside [%v, %v]: %w",
			jitter, model.MinJitter, model.MaxJitter, ErrInvalidParameter)
	}
	return ContourParams{
		PieceWidth:  pieceWidth,
		PieceHeight: pieceHeight,
		TabSize:     tabSize / 200,
		Jitter:      jitter / 100,
	}, nil
}

// ContourState is the pseudo-random state carried from one edge to the
// next. A..E shape the tab; Flipped selects the side it bulges to.
type ContourState struct {
	Seed    uint64
	Flipped bool
	A       float64
	B       float64
	C       float64
	D       float64
	E       float64
}

// normalise maps seed onto [0, 1).
func normalise(seed uint64) float64 {
	x := math.Sin(float64(seed)) * 10000
	return x - math.Floor(x)
}

func uniform(min, max float64, seed uint64) float64 {
	return min + normalise(seed)*(max-min)
}

func rbool(seed uint64) bool {
	return normalise(seed) > 0.5
}

// dice draws the next state. A takes over the previous E, negated when the
// tab keeps its side, so that consecutive edges stay complementary.
func dice(e float64, flipped bool, seed uint64, jitter float64) ContourState {
	next := rbool(seed)
	a := e
	if next == flipped {
		a = -e
	}
	return ContourState{
		Seed:    seed + 6,
		Flipped: next,
		A:       a,
		B:       uniform(-jitter, jitter, seed+2),
		C:       uniform(-jitter, jitter, seed+3),
		D:       uniform(-jitter, jitter, seed+4),
		E:       uniform(-jitter, jitter, seed+5),
	}
}

// InitialState returns the state before the first edge of a puzzle
// generated from seed.
func InitialState(seed uint64, p ContourParams) ContourState {
	e := uniform(-p.Jitter, p.Jitter, seed+1)
	return dice(e, false, seed+2, p.Jitter)
}

// coords places a point at fraction l along the edge and fraction t across
// it, relative to the edge start.
func (p ContourParams) coords(s ContourState, l, t float64, start model.Point, vertical bool) model.Point {
	sign := 1.0
	if s.Flipped {
		sign = -1
	}
	if vertical {
		long := model.Round2(start.Y + l*p.PieceHeight)
		trans := model.Round2(start.X + t*p.PieceWidth*sign)
		return model.Point{X: trans, Y: long}
	}
	long := model.Round2(start.X + l*p.PieceWidth)
	trans := model.Round2(start.Y + t*p.PieceHeight*sign)
	return model.Point{X: long, Y: trans}
}

// NextEdge builds the indented edge from start to end for state s and
// returns it with the state for the following edge. The edge is vertical
// when start and end are less than a pixel apart horizontally.
//
// NextEdge is pure: the same params, state and endpoints always produce
// the same edge and successor state.
func NextEdge(p ContourParams, s ContourState, start, end model.Point) (model.IndentedEdge, ContourState) {
	vertical := math.Abs(end.X-start.X) < 1
	ts := p.TabSize
	at := func(l, t float64) model.Point {
		return p.coords(s, l, t, start, vertical)
	}

	ep1 := at(0.5-ts+s.B, ts+s.C)
	ep2 := at(0.5+ts+s.B, ts+s.C)

	edge := model.IndentedEdge{
		First: model.IndentationSegment{
			Start:    start,
			End:      ep1,
			Control1: at(0.2, s.A),
			Control2: at(0.5+s.B+s.D, -ts+s.C),
		},
		Middle: model.IndentationSegment{
			Start:    ep1,
			End:      ep2,
			Control1: at(0.5-2*ts+s.B-s.D, 3*ts+s.C),
			Control2: at(0.5+2*ts+s.B-s.D, 3*ts+s.C),
		},
		Last: model.IndentationSegment{
			Start:    ep2,
			End:      end,
			Control1: at(0.5+s.B+s.D, -ts+s.B+s.D),
			Control2: at(0.8, s.E),
		},
	}
	// The next draw always starts from an unflipped reference.
	return edge, dice(s.E, false, s.Seed+2, p.Jitter)
}

// ContourGenerator produces the indented edges of one puzzle in order.
// It is not safe for concurrent use.
type ContourGenerator struct {
	params ContourParams
	state  ContourState
}

// NewContourGenerator validates the parameters and seeds the generator.
func NewContourGenerator(pieceWidth, pieceHeight, tabSize, jitter float64, seed uint64) (*ContourGenerator, error) {
	p, err := NewContourParams(pieceWidth, pieceHeight, tabSize, jitter)
	if err != nil {
		return nil, err
	}
	return &ContourGenerator{params: p, state: InitialState(seed, p)}, nil
}

// Create returns the next edge and advances the generator. Calling it twice
// with the same endpoints yields two different edges.
func (g *ContourGenerator) Create(start, end model.Point) model.IndentedEdge {
	var e model.IndentedEdge
	e, g.state = NextEdge(g.params, g.state, start, end)
	return e
}

// State returns the state the next Create call will use.
func (g *ContourGenerator) State() ContourState {
	return g.state
}

// Params returns the validated parameters.
func (g *ContourGenerator) Params() ContourParams {
	return g.params
}
