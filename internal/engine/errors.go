package engine

import "errors"

// Errors returned by the engine. Returned errors wrap one of these with
// context; test with errors.Is.
var (
	// ErrInvalidParameter: tab size or jitter out of range, zero rows,
	// columns or piece count.
	ErrInvalidParameter = errors.New("engine: invalid parameter")

	// ErrNoValidLayout: no candidate grid to choose from.
	ErrNoValidLayout = errors.New("engine: no valid layout")

	// ErrDegenerateGeometry: a piece outline has no usable bounding box or
	// crosses itself.
	ErrDegenerateGeometry = errors.New("engine: degenerate geometry")

	// ErrImageTooSmall: a piece width or height rounds to zero.
	ErrImageTooSmall = errors.New("engine: image too small")
)
