package aabb2d

import (
	"math"
	"sort"
)

// World is a kinematic 2D collision world: a grid-indexed item store plus
// the response strategies used to resolve moves against it.
//
// World is not safe for concurrent use. A single call runs to completion
// before the next begins; callers that need concurrent access must
// serialize it with an external lock.
type World struct {
	cellSize  int
	grid      *grid
	items     map[int]Rect
	responses map[ResponseTag]Response
	filters   map[ResponseTag]CollisionFilter
	nextID    int
}

// DefaultCellSize is the conventional grid resolution. NewWorld rejects a
// non-positive size rather than substituting this value; callers that want
// the default pass it explicitly.
const DefaultCellSize = 64

// NewWorld creates an empty world with the given grid resolution. The four
// built-in response strategies and their matching default filters (Touch,
// Cross, Slide, Bounce) are pre-installed.
func NewWorld(cellSize int) (*World, error) {
	if cellSize <= 0 {
		return nil, ErrInvalidCellSize
	}
	w := &World{
		cellSize: cellSize,
		grid:     newGrid(cellSize),
		items:    make(map[int]Rect),
		responses: map[ResponseTag]Response{
			Touch:  touchResponse,
			Cross:  crossResponse,
			Slide:  slideResponse,
			Bounce: bounceResponse,
		},
		filters: map[ResponseTag]CollisionFilter{
			Touch:  TouchFilter,
			Cross:  CrossFilter,
			Slide:  SlideFilter,
			Bounce: BounceFilter,
		},
	}
	return w, nil
}

// AddResponse registers (or overrides) the strategy used for tag.
func (w *World) AddResponse(tag ResponseTag, r Response) {
	w.responses[tag] = r
}

// AddFilter registers (or overrides) the default collision filter used for
// tag, i.e. what Move/Check use when no explicit filter is supplied.
func (w *World) AddFilter(tag ResponseTag, f CollisionFilter) {
	w.filters[tag] = f
}

// FilterFor returns the default CollisionFilter registered for tag.
func (w *World) FilterFor(tag ResponseTag) CollisionFilter {
	if f, ok := w.filters[tag]; ok {
		return f
	}
	return SlideFilter
}

// allocateID picks the next free item id, wrapping back to 1 past
// math.MaxInt and rescanning for a free slot. Under heavy churn near the
// wrap point this scan is O(n) in the number of live items; that is a
// documented property of the allocator, not a bug to fix.
func (w *World) allocateID() int {
	if w.nextID >= math.MaxInt {
		w.nextID = 0
	}
	id := w.nextID + 1
	for {
		if _, exists := w.items[id]; !exists {
			break
		}
		id++
	}
	w.nextID = id
	return id
}

// Add inserts a new item with box r and returns its freshly allocated id.
// Width and height must be strictly positive.
func (w *World) Add(r Rect) (int, error) {
	if r.W <= 0 || r.H <= 0 {
		return 0, ErrInvalidExtent
	}
	id := w.allocateID()
	w.items[id] = r
	w.grid.add(id, r)
	return id, nil
}

// Remove deindexes item and erases it from the world. It is a no-op if
// item is not present.
func (w *World) Remove(item int) {
	r, ok := w.items[item]
	if !ok {
		return
	}
	w.grid.remove(item, r)
	delete(w.items, item)
}

// Update re-indexes item to newR, touching only the changed grid cells. A
// non-positive width or height in newR means "keep the previous extent on
// that axis". Returns ErrUnknownItem if item is not present.
func (w *World) Update(item int, newR Rect) error {
	old, ok := w.items[item]
	if !ok {
		return ErrUnknownItem
	}
	if newR.W <= 0 {
		newR.W = old.W
	}
	if newR.H <= 0 {
		newR.H = old.H
	}
	if old == newR {
		return nil
	}
	w.grid.update(item, old, newR)
	w.items[item] = newR
	return nil
}

// GetBox returns the current box for item and whether it exists.
func (w *World) GetBox(item int) (Rect, bool) {
	r, ok := w.items[item]
	return r, ok
}

// HasItem reports whether item currently exists in the world.
func (w *World) HasItem(item int) bool {
	_, ok := w.items[item]
	return ok
}

// CountItems returns the number of items currently in the world.
func (w *World) CountItems() int {
	return len(w.items)
}

// CountCells returns the number of non-empty grid cells.
func (w *World) CountCells() int {
	return w.grid.countCells()
}

// ToCell converts a world coordinate to a cell index on one axis.
func (w *World) ToCell(coord float64) int {
	return w.grid.toCell(coord)
}

// ToWorld converts a cell index to the world coordinate of its origin.
func (w *World) ToWorld(c int) float64 {
	return w.grid.toWorld(c)
}

// Clear drops every item and resets the id counter.
func (w *World) Clear() {
	w.items = make(map[int]Rect)
	w.grid = newGrid(w.cellSize)
	w.nextID = 0
}

// project performs one sweep of item (currently at box) toward goal and
// returns every candidate collision, sorted by ti ascending then by a
// squared-distance tie-breaker. It does not mutate the world. Candidates
// for which filter returns a non-positive tag are skipped entirely.
func (w *World) project(item int, box Rect, goal Point, filter CollisionFilter) []Collision {
	union := Rect{
		X: math.Min(box.X, goal.X),
		Y: math.Min(box.Y, goal.Y),
	}
	union.W = math.Max(box.X+box.W, goal.X+box.W) - union.X
	union.H = math.Max(box.Y+box.H, goal.Y+box.H) - union.Y

	candidates := w.grid.candidates(union)
	visited := map[int]struct{}{item: {}}

	var collisions []Collision
	for other := range candidates {
		if _, seen := visited[other]; seen {
			continue
		}
		visited[other] = struct{}{}

		tag := filter(item, other)
		if tag <= 0 {
			continue
		}
		otherBox, ok := w.items[other]
		if !ok {
			continue
		}
		col, hit := detectCollision(box, otherBox, goal)
		if !hit {
			continue
		}
		col.Item = item
		col.Other = other
		col.Type = tag
		collisions = append(collisions, col)
	}

	sort.SliceStable(collisions, func(i, j int) bool {
		a, b := collisions[i], collisions[j]
		if a.Ti != b.Ti {
			return a.Ti < b.Ti
		}
		ad := squareDistance(a.ItemRect, a.OtherRect)
		bd := squareDistance(a.ItemRect, b.OtherRect)
		return ad < bd
	})
	return collisions
}

// visitedFilter wraps filter so that, within one Move/Check call, an
// "other" id already resolved is never offered a second pass — this is
// what bounds the resolver to a finite number of steps.
func visitedFilter(item int, filter CollisionFilter) (CollisionFilter, *map[int]struct{}) {
	visited := map[int]struct{}{item: {}}
	wrapped := func(self, other int) ResponseTag {
		if _, seen := visited[other]; seen {
			return 0
		}
		return filter(self, other)
	}
	return wrapped, &visited
}

// resolve runs the iterative resolver shared by Move and Check: project,
// pop the first collision, hand it to its response strategy, and keep
// going until no collisions remain.
func (w *World) resolve(item int, goal Point, filter CollisionFilter) (Point, []Collision) {
	box, ok := w.items[item]
	if !ok {
		return goal, nil
	}

	wrapped, visited := visitedFilter(item, filter)
	pending := w.project(item, box, goal, wrapped)

	// currentGoal threads through the loop: each response strategy's
	// returned position becomes the goal handed to the next one, while box
	// (the item's position at the start of this call) stays fixed.
	currentGoal := goal
	var trail []Collision
	for len(pending) > 0 {
		col := pending[0]
		(*visited)[col.Other] = struct{}{}

		response, ok := w.responses[col.Type]
		if !ok {
			response = slideResponse
		}
		actual, residual := response(w, &col, box, currentGoal, wrapped)
		currentGoal = actual
		pending = residual
		trail = append(trail, col)
	}
	return currentGoal, trail
}

// Move resolves a move of item toward goal using filter to decide, per
// candidate obstacle, which response strategy applies, then commits the
// resulting position. If filter is nil, the default filter for tag is
// used. Returns ErrUnknownItem if item does not exist.
func (w *World) Move(item int, goal Point, tag ResponseTag, filter CollisionFilter) (Point, []Collision, error) {
	if !w.HasItem(item) {
		return goal, nil, ErrUnknownItem
	}
	if filter == nil {
		filter = w.FilterFor(tag)
	}
	actual, trail := w.resolve(item, goal, filter)
	if err := w.Update(item, Rect{X: actual.X, Y: actual.Y}); err != nil {
		return actual, trail, err
	}
	return actual, trail, nil
}

// Check runs the same resolver as Move but never commits the result,
// letting a caller preview where an item would end up.
func (w *World) Check(item int, goal Point, tag ResponseTag, filter CollisionFilter) (Point, []Collision, error) {
	if !w.HasItem(item) {
		return goal, nil, ErrUnknownItem
	}
	if filter == nil {
		filter = w.FilterFor(tag)
	}
	actual, trail := w.resolve(item, goal, filter)
	return actual, trail, nil
}

// Project exposes the pure one-sweep candidate scan for callers that want
// unresolved collisions without running the iterative resolver.
func (w *World) Project(item int, box Rect, goal Point, filter CollisionFilter) []Collision {
	return w.project(item, box, goal, filter)
}
