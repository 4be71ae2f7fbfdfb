package aabb3d

// ResponseTag selects a collision-resolution strategy. Zero and negative
// values mean "ignore this pair" when returned from a CollisionFilter.
type ResponseTag int

// The four built-in response tags. Their numeric values are part of the
// stable public contract.
const (
	Touch  ResponseTag = 1
	Cross  ResponseTag = 2
	Slide  ResponseTag = 3
	Bounce ResponseTag = 4
)

// CollisionFilter decides, for a given moving item and a candidate
// obstacle, which response strategy applies. A non-positive tag means the
// pair is ignored entirely.
type CollisionFilter func(item, other int) ResponseTag

// ItemFilter is used by the read-only queries to reject candidates before
// the geometric test runs.
type ItemFilter func(item int) bool

// TouchFilter, CrossFilter, SlideFilter and BounceFilter are the default
// collision filters registered on every new World; each always returns its
// own tag regardless of which items are involved.
func TouchFilter(_, _ int) ResponseTag  { return Touch }
func CrossFilter(_, _ int) ResponseTag  { return Cross }
func SlideFilter(_, _ int) ResponseTag  { return Slide }
func BounceFilter(_, _ int) ResponseTag { return Bounce }

// Response computes how to resolve one collision: the position the item
// actually ends up at, and any residual collisions still to be resolved
// (produced by re-projecting from the contact point, if the strategy wants
// to keep moving). It must not mutate the world.
type Response func(w *World, col *Collision, box Rect, goal Point, filter CollisionFilter) (actual Point, residual []Collision)

func touchResponse(_ *World, col *Collision, _ Rect, _ Point, _ CollisionFilter) (Point, []Collision) {
	return col.Touch, nil
}

func crossResponse(w *World, col *Collision, box Rect, goal Point, filter CollisionFilter) (Point, []Collision) {
	residual := w.project(col.Item, box, goal, filter)
	return goal, residual
}

func slideResponse(w *World, col *Collision, box Rect, goal Point, filter CollisionFilter) (Point, []Collision) {
	sx, sy, sz := col.Touch.X, col.Touch.Y, col.Touch.Z
	if col.Move.X != 0 || col.Move.Y != 0 || col.Move.Z != 0 {
		switch {
		case col.Normal.X != 0:
			sy, sz = goal.Y, goal.Z
		case col.Normal.Y != 0:
			sx, sz = goal.X, goal.Z
		default:
			sx, sy = goal.X, goal.Y
		}
	}
	response := Point{X: sx, Y: sy, Z: sz}
	col.Response = &response

	newBox := Rect{X: col.Touch.X, Y: col.Touch.Y, Z: col.Touch.Z, W: box.W, H: box.H, D: box.D}
	residual := w.project(col.Item, newBox, response, filter)
	return response, residual
}

func bounceResponse(w *World, col *Collision, box Rect, goal Point, filter CollisionFilter) (Point, []Collision) {
	tx, ty, tz := col.Touch.X, col.Touch.Y, col.Touch.Z
	bx, by, bz := tx, ty, tz
	if col.Move.X != 0 || col.Move.Y != 0 || col.Move.Z != 0 {
		bnx, bny, bnz := goal.X-tx, goal.Y-ty, goal.Z-tz
		switch {
		case col.Normal.X != 0:
			bnx = -bnx
		case col.Normal.Y != 0:
			bny = -bny
		default:
			bnz = -bnz
		}
		bx, by, bz = tx+bnx, ty+bny, tz+bnz
	}
	response := Point{X: bx, Y: by, Z: bz}
	col.Response = &response

	newBox := Rect{X: tx, Y: ty, Z: tz, W: box.W, H: box.H, D: box.D}
	residual := w.project(col.Item, newBox, response, filter)
	return response, residual
}
