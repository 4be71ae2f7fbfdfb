package aabb2d

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(64)
	require.NoError(t, err)
	return w
}

func TestAddRemoveSymmetry(t *testing.T) {
	w := newTestWorld(t)
	var ids []int
	for i := 0; i < 20; i++ {
		id, err := w.Add(Rect{X: float64(i * 7), Y: float64(i * 3), W: 10, H: 10})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.Equal(t, 20, w.CountItems())

	for _, id := range ids {
		w.Remove(id)
	}
	assert.Equal(t, 0, w.CountItems())
	for cc, set := range w.grid.cells {
		assert.Empty(t, set, "cell %v retained ids after full removal", cc)
	}
}

func TestUpdateConservation(t *testing.T) {
	w := newTestWorld(t)
	id, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)

	require.NoError(t, w.Update(id, Rect{X: 100, Y: 200, W: 10, H: 10}))
	box, ok := w.GetBox(id)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 100, Y: 200, W: 10, H: 10}, box)

	for cc, set := range w.grid.cells {
		if _, has := set[id]; has {
			cr := w.grid.toCellRect(box)
			assert.True(t, cc.cx >= cr.cx && cc.cx < cr.cx+cr.cw)
			assert.True(t, cc.cy >= cr.cy && cc.cy < cr.cy+cr.ch)
		}
	}
}

func TestUpdateKeepsExtentOnNonPositive(t *testing.T) {
	w := newTestWorld(t)
	id, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 20})
	require.NoError(t, err)

	require.NoError(t, w.Update(id, Rect{X: 5, Y: 5, W: 0, H: -1}))
	box, _ := w.GetBox(id)
	assert.Equal(t, Rect{X: 5, Y: 5, W: 10, H: 20}, box)
}

// S1 Slide into wall.
func TestScenarioSlideIntoWall(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, W: 10, H: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0}, Slide, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0}, actual)
	require.Len(t, trail, 1)
	col := trail[0]
	assert.Equal(t, Point{X: -1, Y: 0}, col.Normal)
	assert.Equal(t, Slide, col.Type)
	assert.Equal(t, Point{X: 10, Y: 0}, col.Touch)
	require.NotNil(t, col.Response)
	assert.Equal(t, Point{X: 10, Y: 0}, *col.Response)
}

// S2 Touch stop.
func TestScenarioTouchStop(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, W: 10, H: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0}, Touch, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0}, actual)
	require.Len(t, trail, 1)
	assert.Nil(t, trail[0].Response)
}

// S3 Cross passthrough.
func TestScenarioCrossPassthrough(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, W: 10, H: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0}, Cross, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 50, Y: 0}, actual)
	require.Len(t, trail, 1)
	assert.False(t, trail[0].Overlaps)
}

// S4 Bounce.
func TestScenarioBounce(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, W: 10, H: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0}, Bounce, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, Point{X: 10, Y: 0}, trail[0].Touch)
	require.NotNil(t, trail[0].Response)
	assert.Equal(t, Point{X: -30, Y: 0}, *trail[0].Response)
	assert.Equal(t, Point{X: -30, Y: 0}, actual)
}

// S5 Corner tunnel rejection.
func TestScenarioCornerTunnelRejected(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 100, Y: 100, W: 10, H: 10})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 200, Y: 200}, Slide, nil)
	require.NoError(t, err)
	assert.Empty(t, trail)
	assert.Equal(t, Point{X: 200, Y: 200}, actual)
}

// S6 Overlap resolve.
func TestScenarioOverlapResolve(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 5, Y: 0, W: 10, H: 10})
	require.NoError(t, err)

	_, trail, err := w.Move(a, Point{X: 5, Y: 0}, Slide, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.True(t, trail[0].Overlaps)
	assert.Less(t, trail[0].Ti, 0.0)
}

func TestMoveUnknownItem(t *testing.T) {
	w := newTestWorld(t)
	_, _, err := w.Move(999, Point{X: 1, Y: 1}, Slide, nil)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestCheckDoesNotCommit(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, W: 10, H: 100})
	require.NoError(t, err)

	actual, _, err := w.Check(a, Point{X: 50, Y: 0}, Slide, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0}, actual)

	box, _ := w.GetBox(a)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 10, H: 10}, box, "check must not commit")
}

func TestMoveTerminatesWithManyObstacles(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, W: 10, H: 10})
	require.NoError(t, err)
	for i := 1; i <= 30; i++ {
		_, err := w.Add(Rect{X: float64(i * 12), Y: 0, W: 10, H: 10})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		_, _, _ = w.Move(a, Point{X: 1000, Y: 0}, Cross, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("move did not terminate")
	}
}
