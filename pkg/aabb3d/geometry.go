// Package aabb3d implements a kinematic 3D collision world: a uniform-grid
// broadphase, a swept AABB narrowphase, and an iterative move resolver with
// pluggable response strategies. It mirrors the 2D package one dimension up;
// the two are kept as separate sibling packages rather than unified through
// generics, since the face lists, corner counts and traversal axes genuinely
// differ rather than merely repeating.
package aabb3d

import "math"

// DELTA absorbs floating-point slack on strict inclusion tests.
const DELTA = 1e-10

// Point is a 3D coordinate or vector.
type Point struct {
	X, Y, Z float64
}

// Rect is an axis-aligned box: origin (X, Y, Z) plus strictly-positive
// extents (W, H, D).
type Rect struct {
	X, Y, Z, W, H, D float64
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

// nearestCorner returns the corner of box r nearest to point p, one axis at
// a time.
func nearestCorner(r Rect, p Point) Point {
	return Point{
		X: nearest(p.X, r.X, r.X+r.W),
		Y: nearest(p.Y, r.Y, r.Y+r.H),
		Z: nearest(p.Z, r.Z, r.Z+r.D),
	}
}

// diff computes the Minkowski difference of a and b: the box such that the
// origin lies inside it iff a and b overlap.
func diff(a, b Rect) Rect {
	return Rect{
		X: b.X - a.X - a.W,
		Y: b.Y - a.Y - a.H,
		Z: b.Z - a.Z - a.D,
		W: a.W + b.W,
		H: a.H + b.H,
		D: a.D + b.D,
	}
}

func containsPoint(r Rect, p Point) bool {
	return (p.X-r.X) > DELTA && (p.Y-r.Y) > DELTA && (p.Z-r.Z) > DELTA &&
		(r.X+r.W-p.X) > DELTA && (r.Y+r.H-p.Y) > DELTA && (r.Z+r.D-p.Z) > DELTA
}

func isIntersecting(a, b Rect) bool {
	return a.X < b.X+b.W && b.X < a.X+a.W &&
		a.Y < b.Y+b.H && b.Y < a.Y+a.H &&
		a.Z < b.Z+b.D && b.Z < a.Z+a.D
}

// squareDistance measures a cheap center-to-center proximity used only as a
// tie-breaker between collisions that share the same ti.
func squareDistance(a, b Rect) float64 {
	dx := a.X - b.X + (a.W-b.W)/2
	dy := a.Y - b.Y + (a.H-b.H)/2
	dz := a.Z - b.Z + (a.D-b.D)/2
	return dx*dx + dy*dy + dz*dz
}

type face struct {
	nx, ny, nz float64
	p, q       float64
}

// segmentClip runs the generalized Liang-Barsky clip of segment (x1,y1,z1)
// to (x2,y2,z2) against box r, starting from interval [ti1,ti2]. Normals are
// only accurate when the caller starts from [-Inf,+Inf]; a [0,1] start is
// fine when only the clipped interval itself is needed.
func segmentClip(r Rect, x1, y1, z1, x2, y2, z2, ti1, ti2 float64) (outTi1, outTi2 float64, n1, n2 Point, ok bool) {
	dx, dy, dz := x2-x1, y2-y1, z2-z1

	faces := [6]face{
		{nx: -1, ny: 0, nz: 0, p: -dx, q: x1 - r.X},     // left
		{nx: 1, ny: 0, nz: 0, p: dx, q: r.X + r.W - x1}, // right
		{nx: 0, ny: -1, nz: 0, p: -dy, q: y1 - r.Y},     // top
		{nx: 0, ny: 1, nz: 0, p: dy, q: r.Y + r.H - y1}, // bottom
		{nx: 0, ny: 0, nz: -1, p: -dz, q: z1 - r.Z},     // front
		{nx: 0, ny: 0, nz: 1, p: dz, q: r.Z + r.D - z1}, // back
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
				n1 = Point{f.nx, f.ny, f.nz}
			}
		} else {
			if rr < ti1 {
				return ti1, ti2, n1, n2, false
			}
			if rr < ti2 {
				ti2 = rr
				n2 = Point{f.nx, f.ny, f.nz}
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
	move := Point{X: goal.X - a.X, Y: goal.Y - a.Y, Z: goal.Z - a.Z}
	d := diff(a, b)

	var (
		overlaps   bool
		ti         float64
		nx, ny, nz float64
		accepted   bool
	)

	if containsPoint(d, Point{}) {
		p := nearestCorner(d, Point{})
		wi := math.Min(a.W, math.Abs(p.X))
		hi := math.Min(a.H, math.Abs(p.Y))
		di := math.Min(a.D, math.Abs(p.Z))
		ti = -(wi * hi * di)
		overlaps = true
		accepted = true

		shallow := p
		switch {
		case math.Abs(shallow.X) <= math.Abs(shallow.Y) && math.Abs(shallow.X) <= math.Abs(shallow.Z):
			shallow.Y, shallow.Z = 0, 0
		case math.Abs(shallow.Y) <= math.Abs(shallow.Z):
			shallow.X, shallow.Z = 0, 0
		default:
			shallow.X, shallow.Y = 0, 0
		}
		nx, ny, nz = sign(shallow.X), sign(shallow.Y), sign(shallow.Z)
	} else {
		ti1, ti2 := -math.Inf(1), math.Inf(1)
		ti1, ti2, n1, _, ok := segmentClip(d, 0, 0, 0, move.X, move.Y, move.Z, ti1, ti2)
		if ok && ti1 < 1 && math.Abs(ti1-ti2) >= DELTA &&
			(ti1 > -DELTA || (ti1 == 0 && ti2 > 0)) {
			ti = ti1
			nx, ny, nz = n1.X, n1.Y, n1.Z
			overlaps = false
			accepted = true
		}
	}

	if !accepted {
		return Collision{}, false
	}

	var touch Point
	if overlaps {
		if move.X == 0 && move.Y == 0 && move.Z == 0 {
			p := nearestCorner(d, Point{})
			switch {
			case math.Abs(p.X) <= math.Abs(p.Y) && math.Abs(p.X) <= math.Abs(p.Z):
				p.Y, p.Z = 0, 0
			case math.Abs(p.Y) <= math.Abs(p.Z):
				p.X, p.Z = 0, 0
			default:
				p.X, p.Y = 0, 0
			}
			touch = Point{X: a.X + p.X, Y: a.Y + p.Y, Z: a.Z + p.Z}
		} else {
			ti1, ti2 := -math.Inf(1), 1.0
			ti1, _, _, _, ok := segmentClip(d, 0, 0, 0, move.X, move.Y, move.Z, ti1, ti2)
			if !ok {
				return Collision{}, false
			}
			touch = Point{X: a.X + move.X*ti1, Y: a.Y + move.Y*ti1, Z: a.Z + move.Z*ti1}
		}
	} else {
		touch = Point{X: a.X + move.X*ti, Y: a.Y + move.Y*ti, Z: a.Z + move.Z*ti}
	}

	return Collision{
		Overlaps:  overlaps,
		Ti:        ti,
		Move:      move,
		Normal:    Point{X: nx, Y: ny, Z: nz},
		Touch:     touch,
		ItemRect:  a,
		OtherRect: b,
	}, true
}
