// Package demo wires pkg/aabb2d into a small interactive arena: a bounded
// rectangle of walls plus one movable box per connected player. It is the
// thin "external collaborator" layer the core library's contracts are
// exercised through; none of the collision math lives here.
package demo

import (
	"sync"

	"github.com/tomz197/aabbworld/pkg/aabb2d"
)

// ArenaConfig sizes the arena and tunes its feel.
type ArenaConfig struct {
	Width, Height float64
	CellSize      int
	PlayerSpeed   float64 // world units per second
	PlayerSize    float64
	WallThickness float64
}

// DefaultArenaConfig is a reasonable size for a terminal-rendered arena:
// large enough to feel open, small enough to fit an 80-column window at a
// modest scale factor.
var DefaultArenaConfig = ArenaConfig{
	Width:         120,
	Height:        60,
	CellSize:      16,
	PlayerSpeed:   24,
	PlayerSize:    3,
	WallThickness: 1,
}

// PlayerState is a read-only snapshot of one player's box and most recent
// collision trail, safe to hand to a renderer without touching the World.
type PlayerState struct {
	ID    int
	Box   aabb2d.Rect
	Trail []aabb2d.Collision
}

// Arena serializes every mutation behind a mutex so that cmd/arena-ssh can
// drive it from one goroutine per session and cmd/arena-web from one per
// websocket connection — the same single-threaded-core contract
// pkg/aabb2d.World documents, extended to the handful of concurrent callers
// a demo server actually has.
type Arena struct {
	mu      sync.Mutex
	cfg     ArenaConfig
	world   *aabb2d.World
	players map[int]struct{}
	wallIDs []int
	trail   map[int][]aabb2d.Collision
}

// NewArena builds an arena with four bounding walls and no players.
func NewArena(cfg ArenaConfig) (*Arena, error) {
	w, err := aabb2d.NewWorld(cfg.CellSize)
	if err != nil {
		return nil, err
	}
	a := &Arena{cfg: cfg, world: w, players: make(map[int]struct{}), trail: make(map[int][]aabb2d.Collision)}
	a.addWalls()
	return a, nil
}

func (a *Arena) addWalls() {
	t := a.cfg.WallThickness
	w, h := a.cfg.Width, a.cfg.Height
	walls := []aabb2d.Rect{
		{X: -t, Y: -t, W: w + 2*t, H: t},  // top
		{X: -t, Y: h, W: w + 2*t, H: t},   // bottom
		{X: -t, Y: -t, W: t, H: h + 2*t},  // left
		{X: w, Y: -t, W: t, H: h + 2*t},   // right
	}
	for _, r := range walls {
		id, err := a.world.Add(r)
		if err != nil {
			panic("demo: wall rect rejected: " + err.Error())
		}
		a.wallIDs = append(a.wallIDs, id)
	}
}

// Walls returns the current boxes of the arena's bounding walls, for a
// renderer that wants to draw them once rather than every Snapshot.
func (a *Arena) Walls() []aabb2d.Rect {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]aabb2d.Rect, 0, len(a.wallIDs))
	for _, id := range a.wallIDs {
		if box, ok := a.world.GetBox(id); ok {
			out = append(out, box)
		}
	}
	return out
}

// Spawn adds a new player box near the arena center and returns its id.
func (a *Arena) Spawn() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.cfg.PlayerSize
	box := aabb2d.Rect{
		X: a.cfg.Width/2 - s/2,
		Y: a.cfg.Height/2 - s/2,
		W: s, H: s,
	}
	id, err := a.world.Add(box)
	if err != nil {
		return 0, err
	}
	a.players[id] = struct{}{}
	return id, nil
}

// Despawn removes a player.
func (a *Arena) Despawn(id int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.world.Remove(id)
	delete(a.players, id)
	delete(a.trail, id)
}

// Direction is a unit-ish input vector; (0,0) means "no movement this
// step".
type Direction struct {
	X, Y float64
}

// Step advances player id by dt seconds along dir, scaled by PlayerSpeed,
// resolved with Slide against every wall and other player. It returns the
// player's resulting box and the collision trail from this step.
func (a *Arena) Step(id int, dir Direction, dt float64) (aabb2d.Rect, []aabb2d.Collision, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	box, ok := a.world.GetBox(id)
	if !ok {
		return aabb2d.Rect{}, nil, aabb2d.ErrUnknownItem
	}
	goal := aabb2d.Point{
		X: box.X + dir.X*a.cfg.PlayerSpeed*dt,
		Y: box.Y + dir.Y*a.cfg.PlayerSpeed*dt,
	}
	_, trail, err := a.world.Move(id, goal, aabb2d.Slide, nil)
	if err != nil {
		return box, nil, err
	}
	a.trail[id] = trail
	newBox, _ := a.world.GetBox(id)
	return newBox, trail, nil
}

// Snapshot returns every player's current box and last collision trail, for
// a renderer to draw without holding the arena lock itself.
func (a *Arena) Snapshot() []PlayerState {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]PlayerState, 0, len(a.players))
	for id := range a.players {
		box, ok := a.world.GetBox(id)
		if !ok {
			continue
		}
		out = append(out, PlayerState{ID: id, Box: box, Trail: a.trail[id]})
	}
	return out
}

// GetBox returns item's current box, if it exists.
func (a *Arena) GetBox(item int) (aabb2d.Rect, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.world.GetBox(item)
}

// CellCount returns the number of non-empty grid cells.
func (a *Arena) CellCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.world.CountCells()
}

// ItemCount returns the total number of items (walls and players) currently
// indexed by the arena.
func (a *Arena) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.world.CountItems()
}

// Config returns the arena's sizing/tuning parameters.
func (a *Arena) Config() ArenaConfig {
	return a.cfg
}
