package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// chainTolerance is how far apart two endpoints may be and still join.
const chainTolerance = 0.01

// arcSteps is the number of chords used for every arc or bulge.
const arcSteps = 32

// OutlineResult holds the closed shapes read from a DXF file.
type OutlineResult struct {
	Outlines []model.Outline
	Errors   []string
	Warnings []string
}

type segment struct {
	start model.Point
	end   model.Point
}

// outlineReader collects outlines entity by entity. Loose LINEs and ARCs
// wait in segs until every entity has been seen.
type outlineReader struct {
	result OutlineResult
	segs   []segment
}

// ImportDXF reads every closed shape of a DXF file: LWPOLYLINEs, CIRCLEs
// and chains of connected LINEs and ARCs. Coordinates are kept as drawn,
// so the outlines of an exported puzzle come back in place and in order.
func ImportDXF(path string) OutlineResult {
	r := &outlineReader{}

	drawing, err := dxf.Open(path)
	if err != nil {
		r.fail("Cannot open DXF file: %v", err)
		return r.result
	}
	entities := drawing.Entities()
	if len(entities) == 0 {
		r.fail("DXF file contains no entities")
		return r.result
	}

	for _, ent := range entities {
		r.read(ent)
	}
	closed, open := chainSegments(r.segs, chainTolerance)
	for _, o := range closed {
		r.keep(o)
	}
	if open > 0 {
		r.warn("Skipped %d open chain(s) of lines and arcs", open)
	}
	if len(r.result.Outlines) == 0 {
		r.fail("No closed shapes found in DXF file")
	}
	return r.result
}

func (r *outlineReader) fail(format string, a ...any) {
	r.result.Errors = append(r.result.Errors, fmt.Sprintf(format, a...))
}

func (r *outlineReader) warn(format string, a ...any) {
	r.result.Warnings = append(r.result.Warnings, fmt.Sprintf(format, a...))
}

func (r *outlineReader) read(ent entity.Entity) {
	switch e := ent.(type) {
	case *entity.LwPolyline:
		if len(e.Vertices) < 3 {
			r.warn("Skipped LWPOLYLINE with %d vertices", len(e.Vertices))
			return
		}
		r.keep(polylineOutline(e))
	case *entity.Circle:
		r.keep(circleOutline(e.Center[0], e.Center[1], e.Radius))
	case *entity.Arc:
		pts := arcPoints(e)
		for i := 1; i < len(pts); i++ {
			r.segs = append(r.segs, segment{start: pts[i-1], end: pts[i]})
		}
	case *entity.Line:
		r.segs = append(r.segs, segment{
			start: model.Pt(e.Start[0], e.Start[1]),
			end:   model.Pt(e.End[0], e.End[1]),
		})
	}
}

// keep adds o unless it encloses no area worth cutting.
func (r *outlineReader) keep(o model.Outline) {
	min, max := o.BoundingBox()
	if w, h := max.X-min.X, max.Y-min.Y; w < chainTolerance || h < chainTolerance {
		r.warn("Skipped degenerate shape (%.2f x %.2f)", w, h)
		return
	}
	r.result.Outlines = append(r.result.Outlines, o)
}

// polylineOutline expands the bulges of a polyline into arc points.
func polylineOutline(lw *entity.LwPolyline) model.Outline {
	n := len(lw.Vertices)
	out := make(model.Outline, 0, n)
	for i, v := range lw.Vertices {
		from := model.Pt(v[0], v[1])
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			out = append(out, from)
			continue
		}
		w := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(from, model.Pt(w[0], w[1]), lw.Bulges[i], arcSteps)
		out = append(out, arc[:len(arc)-1]...)
	}
	return out
}

// bulgeArcPoints returns steps+1 points on the arc from p1 to p2 whose
// included angle is 4*atan(bulge). Positive bulges turn counter-clockwise.
func bulgeArcPoints(p1, p2 model.Point, bulge float64, steps int) model.Outline {
	chord := p2.Sub(p1)
	length := math.Hypot(chord.X, chord.Y)
	if length < 1e-9 {
		return model.Outline{p1, p2}
	}
	sweep := 4 * math.Atan(bulge)
	radius := length / (2 * math.Sin(math.Abs(sweep)/2))

	// The centre sits on the chord's perpendicular bisector, on the left of
	// p1->p2 for counter-clockwise arcs shorter than a half turn.
	apothem := radius * math.Cos(sweep/2)
	sign := 1.0
	if sweep < 0 {
		sign = -1
	}
	nx, ny := -chord.Y/length, chord.X/length
	cx := (p1.X+p2.X)/2 + sign*nx*apothem
	cy := (p1.Y+p2.Y)/2 + sign*ny*apothem

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	pts := make(model.Outline, steps+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(steps)
		pts[i] = model.Pt(cx+radius*math.Cos(a), cy+radius*math.Sin(a))
	}
	pts[steps] = p2
	return pts
}

func circleOutline(cx, cy, r float64) model.Outline {
	out := make(model.Outline, 2*arcSteps)
	for i := range out {
		a := math.Pi * float64(i) / arcSteps
		out[i] = model.Pt(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	return out
}

// arcPoints samples a DXF ARC, which always runs counter-clockwise from
// its start angle to its end angle in degrees.
func arcPoints(a *entity.Arc) []model.Point {
	cx, cy, r := a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius
	from := a.Angle[0] * math.Pi / 180
	to := a.Angle[1] * math.Pi / 180
	for to <= from {
		to += 2 * math.Pi
	}
	pts := make([]model.Point, arcSteps+1)
	for i := range pts {
		t := from + (to-from)*float64(i)/arcSteps
		pts[i] = model.Pt(cx+r*math.Cos(t), cy+r*math.Sin(t))
	}
	return pts
}

// endpointKey buckets a point on a grid of the chaining tolerance.
type endpointKey struct{ x, y int64 }

func keyOf(p model.Point, tol float64) endpointKey {
	return endpointKey{int64(math.Round(p.X / tol)), int64(math.Round(p.Y / tol))}
}

// chainSegments joins segments that share endpoints into outlines, in the
// order their first segment appears. Segments may run either way. It
// returns the closed outlines and the number of chains left open.
func chainSegments(segs []segment, tol float64) ([]model.Outline, int) {
	ends := make(map[endpointKey][]int, 2*len(segs))
	for i, s := range segs {
		ends[keyOf(s.start, tol)] = append(ends[keyOf(s.start, tol)], i)
		ends[keyOf(s.end, tol)] = append(ends[keyOf(s.end, tol)], i)
	}
	used := make([]bool, len(segs))

	// next finds an unused segment touching p and returns its far end.
	next := func(p model.Point) (model.Point, bool) {
		k := keyOf(p, tol)
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for _, i := range ends[endpointKey{k.x + dx, k.y + dy}] {
					if used[i] {
						continue
					}
					s := segs[i]
					switch {
					case s.start.ApproxEqual(p, tol):
						used[i] = true
						return s.end, true
					case s.end.ApproxEqual(p, tol):
						used[i] = true
						return s.start, true
					}
				}
			}
		}
		return model.Point{}, false
	}

	var closed []model.Outline
	open := 0
	for i, s := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		chain := model.Outline{s.start, s.end}
		for {
			p, ok := next(chain[len(chain)-1])
			if !ok {
				break
			}
			chain = append(chain, p)
		}
		if len(chain) >= 4 && chain[0].ApproxEqual(chain[len(chain)-1], tol) {
			closed = append(closed, chain[:len(chain)-1])
		} else {
			open++
		}
	}
	return closed, open
}
