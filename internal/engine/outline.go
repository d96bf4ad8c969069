package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// checkOutline rejects a piece outline whose canonical polygon is not a
// simple clockwise loop.
//
// Neighbouring pieces flatten a shared edge to the same points in opposite
// directions, so the polygons of all pieces add up to the image border.
// When each of them is simple and clockwise, every point of the image is
// inside exactly one piece. A tab that crosses another edge breaks this.
func checkOutline(outline model.Path, steps int) error {
	poly := dedupe(outline.FlattenCanonical(steps))
	if len(poly) < 3 {
		return fmt.Errorf("outline has %d distinct points: %w", len(poly), ErrDegenerateGeometry)
	}
	if a := poly.SignedArea(); !(a > 0) {
		return fmt.Errorf("outline has signed area %.2f, want a clockwise loop: %w", a, ErrDegenerateGeometry)
	}
	if i, j, ok := findCrossing(poly); ok {
		return fmt.Errorf("outline crosses itself between (%.2f, %.2f) and (%.2f, %.2f): %w",
			poly[i].X, poly[i].Y, poly[j].X, poly[j].Y, ErrDegenerateGeometry)
	}
	return nil
}

// dedupe drops repeated consecutive points, including a last point equal
// to the first.
func dedupe(poly model.Outline) model.Outline {
	out := make(model.Outline, 0, len(poly))
	for _, p := range poly {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// findCrossing looks for two non-adjacent sides of the closed polygon that
// touch or cross and returns the indices of their start points. Sides are
// swept in order of their left end, so only sides whose x ranges overlap
// are compared.
func findCrossing(poly model.Outline) (int, int, bool) {
	n := len(poly)
	end := func(i int) model.Point { return poly[(i+1)%n] }
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	minX := func(i int) float64 { return math.Min(poly[i].X, end(i).X) }
	maxX := func(i int) float64 { return math.Max(poly[i].X, end(i).X) }
	sort.Slice(order, func(a, b int) bool { return minX(order[a]) < minX(order[b]) })

	for a, i := range order {
		right := maxX(i)
		for _, j := range order[a+1:] {
			if minX(j) > right {
				break
			}
			if adjacent(i, j, n) {
				continue
			}
			if segmentsMeet(poly[i], end(i), poly[j], end(j)) {
				return min(i, j), max(i, j), true
			}
		}
	}
	return 0, 0, false
}

func adjacent(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}

// orient is the sign of the turn a -> b -> c: positive, negative or zero
// when collinear.
func orient(a, b, c model.Point) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// onSegment reports whether c, collinear with a and b, lies between them.
func onSegment(a, b, c model.Point) bool {
	return math.Min(a.X, b.X) <= c.X && c.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= c.Y && c.Y <= math.Max(a.Y, b.Y)
}

// segmentsMeet reports whether segments ab and cd share at least one point.
func segmentsMeet(a, b, c, d model.Point) bool {
	o1, o2 := orient(a, b, c), orient(a, b, d)
	o3, o4 := orient(c, d, a), orient(c, d, b)
	if o1*o2 < 0 && o3*o4 < 0 {
		return true
	}
	return (o1 == 0 && onSegment(a, b, c)) ||
		(o2 == 0 && onSegment(a, b, d)) ||
		(o3 == 0 && onSegment(c, d, a)) ||
		(o4 == 0 && onSegment(c, d, b))
}
