// Package aabb2d implements a kinematic 2D collision world: a uniform-grid
// broadphase, a swept AABB narrowphase, and an iterative move resolver with
// pluggable response strategies.
package aabb2d

import "math"

// DELTA absorbs floating-point slack on strict inclusion tests.
const DELTA = 1e-10

// Point is a 2D coordinate or vector.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box: origin (X, Y) plus strictly-positive extents
// (W, H).
type Rect struct {
	X, Y, W, H float64
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

func nearest(x, a, b float64) float64 {
	if math.Abs(a-x) < math.Abs(b-x) {
		return a
	}
	return b
}

// nearestCorner returns the corner of rect r nearest to point p, one axis at
// a time.
func nearestCorner(r Rect, p Point) Point {
	return Point{
		X: nearest(p.X, r.X, r.X+r.W),
		Y: nearest(p.Y, r.Y, r.Y+r.H),
	}
}

// diff computes the Minkowski difference of a and b: the rectangle such that
// the origin lies inside it iff a and b overlap.
func diff(a, b Rect) Rect {
	return Rect{
		X: b.X - a.X - a.W,
		Y: b.Y - a.Y - a.H,
		W: a.W + b.W,
		H: a.H + b.H,
	}
}

// containsPoint reports whether p lies strictly inside r, by more than DELTA
// on every axis.
func containsPoint(r Rect, p Point) bool {
	return (p.X-r.X) > DELTA && (p.Y-r.Y) > DELTA &&
		(r.X+r.W-p.X) > DELTA && (r.Y+r.H-p.Y) > DELTA
}

// isIntersecting reports whether a and b overlap under the half-open
// convention (touching edges do not count).
func isIntersecting(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W && a.Y < b.Y+b.H && b.Y < a.Y+a.H
}

// squareDistance returns the squared distance between the centers of a and
// b; used only as a deterministic sort tie-breaker.
func squareDistance(a, b Rect) float64 {
	dx := a.X - b.X + (a.W-b.W)/2
	dy := a.Y - b.Y + (a.H-b.H)/2
	return dx*dx + dy*dy
}

// segmentClip is the generalized Liang-Barsky clip of the segment
// (x1,y1)-(x2,y2) against rect r. ti1/ti2 are the caller-supplied initial
// interval (typically [-Inf,+Inf] for accurate normals, or [0,1] to clip to
// the segment itself). It returns the tightened interval and the face
// normals at the entry/exit points; normals are only meaningful when the
// initial interval was the infinite one. ok is false if the segment never
// touches r.
func segmentClip(r Rect, x1, y1, x2, y2, ti1, ti2 float64) (outTi1, outTi2 float64, n1, n2 Point, ok bool) {
	dx := x2 - x1
	dy := y2 - y1

	type face struct {
		nx, ny, p, q float64
	}
	faces := [4]face{
		{-1, 0, -dx, x1 - r.X},      // left
		{1, 0, dx, r.X + r.W - x1},  // right
		{0, -1, -dy, y1 - r.Y},      // top
		{0, 1, dy, r.Y + r.H - y1},  // bottom
	}

	for _, f := range faces {
		if f.p == 0 {
			if f.q <= 0 {
				return ti1, ti2, n1, n2, false
			}
			continue
		}
		rr := f.q / f.p
		if f.p < 0 {
			if rr > ti2 {
				return ti1, ti2, n1, n2, false
			}
			if rr > ti1 {
				ti1 = rr
				n1 = Point{f.nx, f.ny}
			}
		} else {
			if rr < ti1 {
				return ti1, ti2, n1, n2, false
			}
			if rr < ti2 {
				ti2 = rr
				n2 = Point{f.nx, f.ny}
			}
		}
	}
	return ti1, ti2, n1, n2, true
}

// Collision is the output of the narrowphase sweep between a moving item
// and one obstacle.
type Collision struct {
	Item, Other int
	Type        ResponseTag
	Overlaps    bool
	Ti          float64
	Move        Point
	Normal      Point
	Touch       Point
	ItemRect    Rect
	OtherRect   Rect
	// Response holds the adjusted goal Slide/Bounce computed; nil for
	// Touch/Cross, which never redirect motion.
	Response *Point
}

// detectCollision runs the swept-AABB narrowphase of item a (currently at
// its own Rect) against obstacle b, given a's goal position. It reports
// whether a collision occurred and, if so, fills in everything but Item,
// Other and Type (those are the caller's to set).
func detectCollision(a, b Rect, goal Point) (Collision, bool) {
	move := Point{X: goal.X - a.X, Y: goal.Y - a.Y}
	d := diff(a, b)

	var (
		overlaps bool
		ti       float64
		nx, ny   float64
		accepted bool
	)

	if containsPoint(d, Point{}) {
		p := nearestCorner(d, Point{})
		wi := math.Min(a.W, math.Abs(p.X))
		hi := math.Min(a.H, math.Abs(p.Y))
		ti = -(wi * hi)
		overlaps = true
		accepted = true

		// The normal always points along the shallower penetration axis,
		// regardless of whether a is also moving this step.
		shallow := p
		if math.Abs(shallow.X) < math.Abs(shallow.Y) {
			shallow.Y = 0
		} else {
			shallow.X = 0
		}
		nx, ny = sign(shallow.X), sign(shallow.Y)
	} else {
		ti1, ti2 := -math.Inf(1), math.Inf(1)
		ti1, ti2, n1, _, ok := segmentClip(d, 0, 0, move.X, move.Y, ti1, ti2)
		if ok && ti1 < 1 && math.Abs(ti1-ti2) >= DELTA &&
			(ti1 > -DELTA || (ti1 == 0 && ti2 > 0)) {
			ti = ti1
			nx, ny = n1.X, n1.Y
			overlaps = false
			accepted = true
		}
	}

	if !accepted {
		return Collision{}, false
	}

	var touch Point
	if overlaps {
		if move.X == 0 && move.Y == 0 {
			p := nearestCorner(d, Point{})
			if math.Abs(p.X) < math.Abs(p.Y) {
				p.Y = 0
			} else {
				p.X = 0
			}
			touch = Point{X: a.X + p.X, Y: a.Y + p.Y}
		} else {
			ti1, ti2 := -math.Inf(1), 1.0
			ti1, _, _, _, ok := segmentClip(d, 0, 0, move.X, move.Y, ti1, ti2)
			if !ok {
				return Collision{}, false
			}
			touch = Point{X: a.X + move.X*ti1, Y: a.Y + move.Y*ti1}
		}
	} else {
		touch = Point{X: a.X + move.X*ti, Y: a.Y + move.Y*ti}
	}

	return Collision{
		Overlaps:  overlaps,
		Ti:        ti,
		Move:      move,
		Normal:    Point{X: nx, Y: ny},
		Touch:     touch,
		ItemRect:  a,
		OtherRect: b,
	}, true
}
