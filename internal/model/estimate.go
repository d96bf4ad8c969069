package model

import "math"

// CutEstimate summarises the physical cutting work for one puzzle.
type CutEstimate struct {
	Pieces           int     `json:"pieces"`
	BorderLengthPx   float64 `json:"border_length_px"`   // Outer frame
	InteriorLengthPx float64 `json:"interior_length_px"` // Shared tab edges, each counted once
	TotalLengthPx    float64 `json:"total_length_px"`
	TotalLengthMM    float64 `json:"total_length_mm"`
	Passes           int     `json:"passes"`
	EstimatedMinutes float64 `json:"estimated_minutes"` // Feed time only
}

// EdgeLength returns the flattened length of an edge.
func EdgeLength(e Edge, steps int) float64 {
	var total float64
	for _, b := range e.Beziers(false) {
		pts := b.Flatten(steps)
		for i := 1; i < len(pts); i++ {
			total += pts[i-1].GG().Distance(pts[i].GG())
		}
	}
	return total
}

// Passes returns the number of depth passes needed for s.
func (s CutSettings) Passes() int {
	if s.PassDepth <= 0 || s.CutDepth <= 0 {
		return 1
	}
	return int(math.Ceil(s.CutDepth / s.PassDepth))
}

// CalculateCutEstimate measures every unique edge of grid once, since a
// shared edge is cut a single time for both neighbouring pieces.
func CalculateCutEstimate(grid *EdgeGrid, s CutSettings) CutEstimate {
	est := CutEstimate{
		Pieces: grid.Grid.Count(),
		Passes: s.Passes(),
	}
	for _, e := range grid.All() {
		l := EdgeLength(e, s.FlattenSteps)
		if IsStraight(e) {
			est.BorderLengthPx += l
		} else {
			est.InteriorLengthPx += l
		}
	}
	est.TotalLengthPx = est.BorderLengthPx + est.InteriorLengthPx
	est.TotalLengthMM = est.TotalLengthPx * s.MillimetersPerPixel
	if s.FeedRate > 0 {
		est.EstimatedMinutes = est.TotalLengthMM * float64(est.Passes) / s.FeedRate
	}
	return est
}
