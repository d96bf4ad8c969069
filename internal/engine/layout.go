package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// squareEnough is the piece width/height difference in pixels below which
// a layout is accepted without looking further.
const squareEnough = 1.0

// FindDivisors returns every grid with exactly n pieces, ordered from the
// narrowest (1 column) to the widest (n columns). Returns nil for n < 1.
func FindDivisors(n int) []model.Grid {
	if n < 1 {
		return nil
	}
	var pairs []model.Grid
	for i := 1; i*i <= n; i++ {
		if n%i == 0 {
			pairs = append(pairs, model.Grid{Columns: i, Rows: n / i})
		}
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		if p.Columns != p.Rows {
			pairs = append(pairs, model.Grid{Columns: p.Rows, Rows: p.Columns})
		}
	}
	return pairs
}

// pieceDifference is |piece width - piece height| for an image cut into g.
func pieceDifference(g model.Grid, width, height float64) float64 {
	return math.Abs(width/float64(g.Columns) - height/float64(g.Rows))
}

// OptimalAspectRatio picks the candidate whose pieces are closest to
// square. Candidates must be ordered by increasing column count, as
// FindDivisors returns them.
//
// The first candidate within a pixel of square wins outright. Otherwise
// the scan stops at the first candidate that is worse than the best so
// far; ties go to the later candidate. For divisor pairs the piece width
// strictly falls and the height strictly rises with the column count, so
// the difference only falls then rises and stopping early loses nothing.
func OptimalAspectRatio(candidates []model.Grid, width, height float64) (model.Grid, error) {
	if len(candidates) == 0 {
		return model.Grid{}, fmt.Errorf("choose layout for %.0fx%.0f: %w", width, height, ErrNoValidLayout)
	}
	best := candidates[0]
	bestDiff := math.MaxFloat64
	for _, c := range candidates {
		diff := pieceDifference(c, width, height)
		if diff < squareEnough {
			return c, nil
		}
		if bestDiff >= diff {
			bestDiff = diff
			best = c
		} else {
			return best, nil
		}
	}
	return best, nil
}

// ColumnsRows returns the most square grid with exactly count pieces for an
// image of the given size.
func ColumnsRows(width, height float64, count int) (model.Grid, error) {
	if count < 1 {
		return model.Grid{}, fmt.Errorf("piece count %d: %w", count, ErrInvalidParameter)
	}
	return OptimalAspectRatio(FindDivisors(count), width, height)
}
