package aabb2d

import "errors"

// Error taxonomy for the boundary between hosts and the core. The core
// itself never panics on these; it returns them so callers decide how to
// react.
var (
	// ErrInvalidCellSize is returned by NewWorld when cellSize <= 0.
	ErrInvalidCellSize = errors.New("aabb2d: cell size must be positive")
	// ErrInvalidExtent is returned by Add when W or H <= 0.
	ErrInvalidExtent = errors.New("aabb2d: width and height must be positive")
	// ErrUnknownItem is returned by Update/Move/Check when the item id is
	// not currently in the world. GetBox reports a missing id through its
	// bool result, and Remove of a missing id is a silent no-op.
	ErrUnknownItem = errors.New("aabb2d: unknown item id")
)
