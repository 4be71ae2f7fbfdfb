package aabb3d

import "errors"

// Error taxonomy for the boundary between hosts and the core. The core
// itself never panics on these; it returns them so callers decide how to
// react.
var (
	// ErrInvalidCellSize is returned by NewWorld when cellSize <= 0.
	ErrInvalidCellSize = errors.New("aabb3d: cell size must be positive")
	// ErrInvalidExtent is returned by Add when W, H or D <= 0.
	ErrInvalidExtent = errors.New("aabb3d: width, height and depth must be positive")
	// ErrUnknownItem is returned by GetBox/Update/Remove/Move/Check when the
	// item id is not currently in the world.
	ErrUnknownItem = errors.New("aabb3d: unknown item id")
)
