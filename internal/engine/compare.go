package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// MaxSuggestedAspect is the largest piece aspect ratio (long side over
// short side) SuggestPieceCounts still offers.
const MaxSuggestedAspect = 1.5

// LayoutOption describes one candidate grid for a piece count.
type LayoutOption struct {
	Grid        model.Grid
	PieceWidth  float64
	PieceHeight float64
	Difference  float64 // |PieceWidth - PieceHeight|
	Optimal     bool    // The grid ColumnsRows picks
}

// Aspect returns the ratio of the long to the short piece side.
func (o LayoutOption) Aspect() float64 {
	lo, hi := math.Min(o.PieceWidth, o.PieceHeight), math.Max(o.PieceWidth, o.PieceHeight)
	if lo == 0 {
		return math.Inf(1)
	}
	return hi / lo
}

// CompareLayouts lists every grid with exactly count pieces for an image of
// the given size, narrowest first, and marks the one the optimizer picks.
// This lets a user see what the alternatives to the chosen layout look like.
func CompareLayouts(width, height float64, count int) ([]LayoutOption, error) {
	optimal, err := ColumnsRows(width, height, count)
	if err != nil {
		return nil, err
	}
	divisors := FindDivisors(count)
	results := make([]LayoutOption, 0, len(divisors))
	for _, g := range divisors {
		results = append(results, LayoutOption{
			Grid:        g,
			PieceWidth:  width / float64(g.Columns),
			PieceHeight: height / float64(g.Rows),
			Difference:  pieceDifference(g, width, height),
			Optimal:     g == optimal,
		})
	}
	return results, nil
}

// CountSuggestion is a piece count near the requested one together with
// the layout it would get.
type CountSuggestion struct {
	Count  int
	Layout LayoutOption
}

// SuggestPieceCounts tries every count within radius of target and returns
// those whose optimal layout has pieces no more elongated than
// MaxSuggestedAspect, most square first. Equally square counts are ordered
// by distance to target.
func SuggestPieceCounts(width, height float64, target, radius int) ([]CountSuggestion, error) {
	if target < 1 || radius < 0 {
		return nil, fmt.Errorf("suggest around %d (radius %d): %w", target, radius, ErrInvalidParameter)
	}
	var out []CountSuggestion
	for count := max(1, target-radius); count <= target+radius; count++ {
		g, err := ColumnsRows(width, height, count)
		if err != nil {
			return nil, err
		}
		opt := LayoutOption{
			Grid:        g,
			PieceWidth:  width / float64(g.Columns),
			PieceHeight: height / float64(g.Rows),
			Difference:  pieceDifference(g, width, height),
			Optimal:     true,
		}
		if opt.Aspect() <= MaxSuggestedAspect {
			out = append(out, CountSuggestion{Count: count, Layout: opt})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := out[i].Layout.Aspect(), out[j].Layout.Aspect()
		if ai != aj {
			return ai < aj
		}
		return absInt(out[i].Count-target) < absInt(out[j].Count-target)
	})
	return out, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
