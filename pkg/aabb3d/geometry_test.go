package aabb3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffContainsOriginIffOverlapping(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 5, Y: 5, Z: 5, W: 10, H: 10, D: 10}
	d := diff(a, b)
	assert.True(t, containsPoint(d, Point{}))
	assert.True(t, isIntersecting(a, b))

	c := Rect{X: 20, Y: 20, Z: 20, W: 10, H: 10, D: 10}
	d2 := diff(a, c)
	assert.False(t, containsPoint(d2, Point{}))
	assert.False(t, isIntersecting(a, c))
}

func TestIsIntersectingHalfOpen(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	touching := Rect{X: 10, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	assert.False(t, isIntersecting(a, touching), "face-touching boxes must not count as intersecting")
}

func TestContainsPointEpsilon(t *testing.T) {
	r := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	assert.True(t, containsPoint(r, Point{X: 5, Y: 5, Z: 5}))
	assert.False(t, containsPoint(r, Point{X: 10, Y: 5, Z: 5}), "right face is exclusive")
}

func TestSegmentClipAxisAlignedRightwardHit(t *testing.T) {
	r := Rect{X: 10, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	ti1, ti2, n1, n2, ok := segmentClip(r, 0, 5, 5, 30, 5, 5, 0, 1)
	a := assert.New(t)
	a.True(ok)
	a.InDelta(1.0/3.0, ti1, 1e-9)
	a.InDelta(2.0/3.0, ti2, 1e-9)
	a.Equal(Point{X: -1, Y: 0, Z: 0}, n1)
	a.Equal(Point{X: 1, Y: 0, Z: 0}, n2)
}

func TestSegmentClipMissesRejectsInterval(t *testing.T) {
	r := Rect{X: 10, Y: 100, Z: 0, W: 10, H: 10, D: 10}
	_, _, _, _, ok := segmentClip(r, 0, 0, 0, 30, 0, 0, 0, 1)
	assert.False(t, ok)
}

func TestDetectCollisionSweepHit(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100}
	col, hit := detectCollision(a, b, Point{X: 50, Y: 0, Z: 0})
	assert.True(t, hit)
	assert.False(t, col.Overlaps)
	assert.Equal(t, Point{X: -1, Y: 0, Z: 0}, col.Normal)
	assert.Equal(t, Point{X: 10, Y: 0, Z: 0}, col.Touch)
}

func TestDetectCollisionNoHitWhenClear(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 200, Y: 200, Z: 200, W: 10, H: 10, D: 10}
	_, hit := detectCollision(a, b, Point{X: 5, Y: 5, Z: 5})
	assert.False(t, hit)
}

func TestDetectCollisionOverlapStationaryPicksShallowAxis(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 8, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	col, hit := detectCollision(a, b, Point{})
	assert.True(t, hit)
	assert.True(t, col.Overlaps)
	assert.Less(t, col.Ti, 0.0)
	sum := math.Abs(col.Normal.X) + math.Abs(col.Normal.Y) + math.Abs(col.Normal.Z)
	assert.Equal(t, 1.0, sum, "normal must be a single axis-aligned unit")
}

func TestDetectCollisionOverlapMovingStillYieldsAxisNormal(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 5, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	col, hit := detectCollision(a, b, Point{X: 5, Y: 0, Z: 0})
	assert.True(t, hit)
	assert.True(t, col.Overlaps)
	sum := math.Abs(col.Normal.X) + math.Abs(col.Normal.Y) + math.Abs(col.Normal.Z)
	assert.Equal(t, 1.0, sum)
}

func TestDetectCollisionCornerGrazeRejected(t *testing.T) {
	a := Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}
	b := Rect{X: 100, Y: 100, Z: 100, W: 10, H: 10, D: 10}
	_, hit := detectCollision(a, b, Point{X: 200, Y: 200, Z: 200})
	assert.False(t, hit, "a pure space-diagonal through the shared corner must not register as a hit")
}
