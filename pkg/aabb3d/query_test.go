package aabb3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRectFindsOverlappingOnly(t *testing.T) {
	w := newTestWorld(t)
	inside, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	outside, err := w.Add(Rect{X: 500, Y: 500, Z: 500, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	got := w.QueryRect(Rect{X: -5, Y: -5, Z: -5, W: 20, H: 20, D: 20}, nil)
	assert.Contains(t, got, inside)
	assert.NotContains(t, got, outside)
}

func TestQueryPointStrictInclusion(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	assert.Contains(t, w.QueryPoint(Point{X: 5, Y: 5, Z: 5}, nil), a)
	assert.NotContains(t, w.QueryPoint(Point{X: 10, Y: 5, Z: 5}, nil), a, "right face is exclusive")
}

func TestQuerySegmentOrdersByEntryAlongLine(t *testing.T) {
	w := newTestWorld(t)
	far, err := w.Add(Rect{X: 90, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	near, err := w.Add(Rect{X: 10, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	got := w.QuerySegment(Point{X: 0, Y: 5, Z: 5}, Point{X: 200, Y: 5, Z: 5}, nil)
	require.Len(t, got, 2)
	assert.Equal(t, near, got[0])
	assert.Equal(t, far, got[1])
}

func TestQuerySegmentExcludesGrazedCorners(t *testing.T) {
	w := newTestWorld(t)
	_, err := w.Add(Rect{X: 10, Y: 10, Z: 10, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	got := w.QuerySegment(Point{X: 0, Y: 0, Z: 0}, Point{X: 10, Y: 10, Z: 10}, nil)
	assert.Empty(t, got, "a segment ending exactly at the box corner must not register as a hit")
}

func TestQuerySegmentWithCoordsReportsEnterExit(t *testing.T) {
	w := newTestWorld(t)
	id, err := w.Add(Rect{X: 10, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	hits := w.QuerySegmentWithCoords(Point{X: 0, Y: 5, Z: 5}, Point{X: 30, Y: 5, Z: 5}, nil)
	require.Len(t, hits, 1)
	assert.Equal(t, id, hits[0].Item)
	assert.InDelta(t, 10.0, hits[0].EnterPoint.X, 1e-9)
	assert.InDelta(t, 20.0, hits[0].ExitPoint.X, 1e-9)
}

func TestQuerySegmentHonorsFilter(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 10, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	got := w.QuerySegment(Point{X: 0, Y: 5, Z: 5}, Point{X: 30, Y: 5, Z: 5}, func(item int) bool { return item != a })
	assert.Empty(t, got)
}
