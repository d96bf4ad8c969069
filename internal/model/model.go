package model

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Round2 rounds x to two decimal places. Every derived coordinate passes
// through Round2 so repeated generation runs agree bit for bit.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Point is a 2D coordinate in image pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// GG converts p to the gg geometry type.
func (p Point) GG() gg.Point {
	return gg.Pt(p.X, p.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// ApproxEqual reports whether p and q differ by at most tol on both axes.
func (p Point) ApproxEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

func fromGG(p gg.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

// Outline is a closed polygon given as a sequence of points.
// The last point connects back to the first.
type Outline []Point

// BoundingBox returns the min and max corners of the outline.
func (o Outline) BoundingBox() (min, max Point) {
	if len(o) == 0 {
		return Point{}, Point{}
	}
	min, max = o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// Translate shifts all points by dx, dy.
func (o Outline) Translate(dx, dy float64) Outline {
	result := make(Outline, len(o))
	for i, p := range o {
		result[i] = Point{X: p.X + dx, Y: p.Y + dy}
	}
	return result
}

// Perimeter returns the length of the closed polygon.
func (o Outline) Perimeter() float64 {
	if len(o) < 2 {
		return 0
	}
	var total float64
	for i := range o {
		total += o[i].GG().Distance(o[(i+1)%len(o)].GG())
	}
	return total
}

// SignedArea returns the shoelace area of the polygon. In image
// coordinates (y down) it is positive for clockwise outlines.
func (o Outline) SignedArea() float64 {
	var sum float64
	for i := range o {
		j := (i + 1) % len(o)
		sum += o[i].X*o[j].Y - o[j].X*o[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area of the polygon.
func (o Outline) Area() float64 {
	return math.Abs(o.SignedArea())
}

// Grid is a puzzle layout: the number of pieces per row (Columns) and per
// column (Rows).
type Grid struct {
	Columns int `json:"columns"`
	Rows    int `json:"rows"`
}

// Count returns the total number of pieces.
func (g Grid) Count() int {
	return g.Columns * g.Rows
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Columns, g.Rows)
}

// Side names one of the four edges of a piece.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// Sides lists all sides in outline order.
var Sides = []Side{SideTop, SideRight, SideBottom, SideLeft}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "Top"
	case SideRight:
		return "Right"
	case SideBottom:
		return "Bottom"
	default:
		return "Left"
	}
}

// Opposite returns the side a neighbour mates with.
func (s Side) Opposite() Side {
	return (s + 2) % 4
}

// GameMode selects how the consumer presents the puzzle. Geometry is the
// same for every mode.
type GameMode int

const (
	GameModeClassic GameMode = iota
	GameModeSquare
)

func (m GameMode) String() string {
	if m == GameModeSquare {
		return "Square"
	}
	return "Classic"
}

// ParseGameMode converts "classic" or "square" (any case) to a GameMode.
func ParseGameMode(s string) (GameMode, error) {
	switch s {
	case "", "classic", "Classic":
		return GameModeClassic, nil
	case "square", "Square":
		return GameModeSquare, nil
	}
	return GameModeClassic, fmt.Errorf("unknown game mode %q", s)
}
