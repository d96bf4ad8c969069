package model

import "math"

// CompareThreshold is the distance in pixels within which two pieces
// placed on screen count as touching.
//
// Screen locations passed to the IsOnThe* predicates are in a y-up world:
// a piece drawn above another has the larger Y.
const CompareThreshold = 10.0

// IsOnTheLeftSide reports whether p, drawn at selfLoc, sits directly left
// of other, drawn at otherLoc, and the two pieces mate along that edge.
func (p *Piece) IsOnTheLeftSide(other *Piece, selfLoc, otherLoc Point) bool {
	if math.Abs(selfLoc.X+p.Width-otherLoc.X) < CompareThreshold &&
		math.Abs(selfLoc.Y-otherLoc.Y) < CompareThreshold {
		return p.OnTheLeftSide(other)
	}
	return false
}

// OnTheLeftSide reports whether p's right edge is other's left edge.
func (p *Piece) OnTheLeftSide(other *Piece) bool {
	return sameEdge(p.Edges, p.RightIndex, other.Edges, other.LeftIndex, false)
}

// IsOnTheRightSide reports whether p sits directly right of other.
func (p *Piece) IsOnTheRightSide(other *Piece, selfLoc, otherLoc Point) bool {
	if math.Abs(otherLoc.X+other.Width-selfLoc.X) < CompareThreshold &&
		math.Abs(selfLoc.Y-otherLoc.Y) < CompareThreshold {
		return p.OnTheRightSide(other)
	}
	return false
}

// OnTheRightSide reports whether p's left edge is other's right edge.
func (p *Piece) OnTheRightSide(other *Piece) bool {
	return sameEdge(p.Edges, p.LeftIndex, other.Edges, other.RightIndex, false)
}

// IsOnTheTopSide reports whether p sits directly above other.
func (p *Piece) IsOnTheTopSide(other *Piece, selfLoc, otherLoc Point) bool {
	if math.Abs(other.Height+otherLoc.Y-selfLoc.Y) < CompareThreshold &&
		math.Abs(selfLoc.X-otherLoc.X) < CompareThreshold {
		return p.OnTheTopSide(other)
	}
	return false
}

// OnTheTopSide reports whether p's bottom edge is other's top edge.
func (p *Piece) OnTheTopSide(other *Piece) bool {
	return sameEdge(p.Edges, p.BottomIndex, other.Edges, other.TopIndex, true)
}

// IsOnTheBottomSide reports whether p sits directly below other.
func (p *Piece) IsOnTheBottomSide(other *Piece, selfLoc, otherLoc Point) bool {
	if math.Abs(otherLoc.Y-other.Height-selfLoc.Y) < CompareThreshold &&
		math.Abs(selfLoc.X-otherLoc.X) < CompareThreshold {
		return p.OnTheBottomSide(other)
	}
	return false
}

// OnTheBottomSide reports whether p's top edge is other's bottom edge.
func (p *Piece) OnTheBottomSide(other *Piece) bool {
	return sameEdge(p.Edges, p.TopIndex, other.Edges, other.BottomIndex, true)
}

// Beside reports whether p and other share an edge on any side,
// regardless of where they are drawn.
func (p *Piece) Beside(other *Piece) bool {
	return p.OnTheTopSide(other) ||
		p.OnTheBottomSide(other) ||
		p.OnTheLeftSide(other) ||
		p.OnTheRightSide(other)
}

// SideOf returns the side of p on which other mates.
func (p *Piece) SideOf(other *Piece) (Side, bool) {
	switch {
	case p.OnTheBottomSide(other):
		return SideTop, true
	case p.OnTheRightSide(other):
		return SideLeft, true
	case p.OnTheTopSide(other):
		return SideBottom, true
	case p.OnTheLeftSide(other):
		return SideRight, true
	}
	return 0, false
}

// IsEdge reports whether any side of p lies on the puzzle border.
func (p *Piece) IsEdge() bool {
	return IsStraight(p.TopEdge()) ||
		IsStraight(p.RightEdge()) ||
		IsStraight(p.BottomEdge()) ||
		IsStraight(p.LeftEdge())
}

// sameEdge compares two edge references. References into the same arena
// at the same index are equal by construction; anything else falls back to
// structural comparison.
func sameEdge(a *EdgeGrid, ai int, b *EdgeGrid, bi int, horizontal bool) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b && ai == bi {
		return true
	}
	if horizontal {
		return EdgesEqual(a.Horizontal[ai], b.Horizontal[bi])
	}
	return EdgesEqual(a.Vertical[ai], b.Vertical[bi])
}
