package engine

import (
	"fmt"

	"github.com/piwi3910/PuzzleCut/internal/model"
)

// DivideAxis splits an axis of the given length into n segments of equal
// rounded length. It returns the start of every segment and the segment
// length. Starts are rounded too, so the last segment absorbs the rounding
// error: its end is the axis length, see EndPoint.
func DivideAxis(length float64, n int) ([]float64, float64, error) {
	if n < 1 {
		return nil, 0, fmt.Errorf("divide axis into %d segments: %w", n, ErrInvalidParameter)
	}
	segment := model.Round2(length / float64(n))
	starts := make([]float64, n)
	for i := range starts {
		starts[i] = model.Round2(float64(i) * segment)
	}
	return starts, segment, nil
}

// EndPoint returns where segment i ends: the start of the next segment, or
// fallback (the axis length) for the last one.
func EndPoint(i int, starts []float64, fallback float64) float64 {
	if i < len(starts)-1 {
		return starts[i+1]
	}
	return fallback
}
