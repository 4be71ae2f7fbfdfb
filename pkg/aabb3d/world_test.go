package aabb3d

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRemoveSymmetry(t *testing.T) {
	w := newTestWorld(t)
	var ids []int
	for i := 0; i < 20; i++ {
		id, err := w.Add(Rect{X: float64(i * 7), Y: float64(i * 3), Z: float64(i), W: 10, H: 10, D: 10})
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
	id, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	require.NoError(t, w.Update(id, Rect{X: 100, Y: 200, Z: 300, W: 10, H: 10, D: 10}))
	box, ok := w.GetBox(id)
	require.True(t, ok)
	assert.Equal(t, Rect{X: 100, Y: 200, Z: 300, W: 10, H: 10, D: 10}, box)
}

func TestUpdateKeepsExtentOnNonPositive(t *testing.T) {
	w := newTestWorld(t)
	id, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 20, D: 30})
	require.NoError(t, err)

	require.NoError(t, w.Update(id, Rect{X: 5, Y: 5, Z: 5, W: 0, H: -1, D: 0}))
	box, _ := w.GetBox(id)
	assert.Equal(t, Rect{X: 5, Y: 5, Z: 5, W: 10, H: 20, D: 30}, box)
}

// Slide into a wall along X.
func TestScenarioSlideIntoWall(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0, Z: 0}, Slide, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0, Z: 0}, actual)
	require.Len(t, trail, 1)
	assert.Equal(t, Point{X: -1, Y: 0, Z: 0}, trail[0].Normal)
}

// Touch stop.
func TestScenarioTouchStop(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0, Z: 0}, Touch, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0, Z: 0}, actual)
	require.Len(t, trail, 1)
	assert.Nil(t, trail[0].Response)
}

// Cross passthrough.
func TestScenarioCrossPassthrough(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0, Z: 0}, Cross, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 50, Y: 0, Z: 0}, actual)
	require.Len(t, trail, 1)
	assert.False(t, trail[0].Overlaps)
}

// Bounce.
func TestScenarioBounce(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 50, Y: 0, Z: 0}, Bounce, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, Point{X: 10, Y: 0, Z: 0}, trail[0].Touch)
	assert.Equal(t, Point{X: -30, Y: 0, Z: 0}, actual)
}

// Corner/edge tunnel rejection along a pure space diagonal.
func TestScenarioCornerTunnelRejected(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 100, Y: 100, Z: 100, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	actual, trail, err := w.Move(a, Point{X: 200, Y: 200, Z: 200}, Slide, nil)
	require.NoError(t, err)
	assert.Empty(t, trail)
	assert.Equal(t, Point{X: 200, Y: 200, Z: 200}, actual)
}

// Overlap resolve.
func TestScenarioOverlapResolve(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 5, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)

	_, trail, err := w.Move(a, Point{X: 5, Y: 0, Z: 0}, Slide, nil)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.True(t, trail[0].Overlaps)
	assert.Less(t, trail[0].Ti, 0.0)
}

func TestMoveUnknownItem(t *testing.T) {
	w := newTestWorld(t)
	_, _, err := w.Move(999, Point{X: 1, Y: 1, Z: 1}, Slide, nil)
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestCheckDoesNotCommit(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	_, err = w.Add(Rect{X: 20, Y: 0, Z: 0, W: 10, H: 100, D: 100})
	require.NoError(t, err)

	actual, _, err := w.Check(a, Point{X: 50, Y: 0, Z: 0}, Slide, nil)
	require.NoError(t, err)
	assert.Equal(t, Point{X: 10, Y: 0, Z: 0}, actual)

	box, _ := w.GetBox(a)
	assert.Equal(t, Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10}, box, "check must not commit")
}

func TestMoveTerminatesWithManyObstacles(t *testing.T) {
	w := newTestWorld(t)
	a, err := w.Add(Rect{X: 0, Y: 0, Z: 0, W: 10, H: 10, D: 10})
	require.NoError(t, err)
	for i := 1; i <= 30; i++ {
		_, err := w.Add(Rect{X: float64(i * 12), Y: 0, Z: 0, W: 10, H: 10, D: 10})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		_, _, _ = w.Move(a, Point{X: 1000, Y: 0, Z: 0}, Cross, nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("move did not terminate")
	}
}
