package aabb2d

import (
	"math"
	"sort"
)

// SegmentHit is one result of QuerySegmentWithCoords: the item hit, the
// segment-relative entry/exit parameters, and the world coordinates those
// parameters correspond to.
type SegmentHit struct {
	Item       int
	Ti1, Ti2   float64
	EnterPoint Point
	ExitPoint  Point
}

// QueryRect returns every item whose box intersects r (half-open), subject
// to the optional filter.
func (w *World) QueryRect(r Rect, filter ItemFilter) []int {
	candidates := w.grid.candidates(r)
	out := make([]int, 0, len(candidates))
	for id := range candidates {
		if filter != nil && !filter(id) {
			continue
		}
		box, ok := w.items[id]
		if !ok || !isIntersecting(r, box) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// QueryPoint returns every item whose box strictly contains p (epsilon
// inclusion), subject to the optional filter.
func (w *World) QueryPoint(p Point, filter ItemFilter) []int {
	cx, cy := w.grid.toCell(p.X), w.grid.toCell(p.Y)
	var out []int
	for id := range w.grid.cells[cellCoord{cx, cy}] {
		if filter != nil && !filter(id) {
			continue
		}
		box, ok := w.items[id]
		if !ok || !containsPoint(box, p) {
			continue
		}
		out = append(out, id)
	}
	return out
}

// segmentCandidates walks the grid along a-b and, for every item touched by
// the segment, computes its clipped parameters and an infinite-line sort
// weight. An item is kept only if its clipped entry or exit parameter lies
// strictly inside (0,1): a segment that runs along an edge, or that only
// starts or ends on the box boundary, is excluded, while one that touches a
// corner part-way along its length is kept.
func (w *World) segmentCandidates(a, b Point, filter ItemFilter) []SegmentHit {
	visited := make(map[int]struct{})

	type weighted struct {
		hit    SegmentHit
		weight float64
	}
	var candidates []weighted

	w.grid.traverseSegment(a.X, a.Y, b.X, b.Y, func(cx, cy int) {
		for id := range w.grid.cells[cellCoord{cx, cy}] {
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			if filter != nil && !filter(id) {
				continue
			}
			box, ok := w.items[id]
			if !ok {
				continue
			}

			ti1, ti2 := 0.0, 1.0
			ti1, ti2, _, _, ok = segmentClip(box, a.X, a.Y, b.X, b.Y, ti1, ti2)
			if !ok {
				continue
			}
			if !((ti1 > 0 && ti1 < 1) || (ti2 > 0 && ti2 < 1)) {
				continue
			}

			inf1, inf2 := -math.Inf(1), math.Inf(1)
			inf1, inf2, _, _, _ = segmentClip(box, a.X, a.Y, b.X, b.Y, inf1, inf2)

			dx, dy := b.X-a.X, b.Y-a.Y
			candidates = append(candidates, weighted{
				hit: SegmentHit{
					Item:       id,
					Ti1:        ti1,
					Ti2:        ti2,
					EnterPoint: Point{X: a.X + dx*ti1, Y: a.Y + dy*ti1},
					ExitPoint:  Point{X: a.X + dx*ti2, Y: a.Y + dy*ti2},
				},
				weight: math.Min(inf1, inf2),
			})
		}
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight < candidates[j].weight
	})

	hits := make([]SegmentHit, len(candidates))
	for i, c := range candidates {
		hits[i] = c.hit
	}
	return hits
}

// QuerySegment returns the ids of items touched by the segment a-b, sorted
// by the parameter of their entry into each box along the infinite line
// through a and b.
func (w *World) QuerySegment(a, b Point, filter ItemFilter) []int {
	hits := w.segmentCandidates(a, b, filter)
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Item
	}
	return out
}

// QuerySegmentWithCoords is QuerySegment plus the literal entry/exit world
// coordinates for each hit.
func (w *World) QuerySegmentWithCoords(a, b Point, filter ItemFilter) []SegmentHit {
	return w.segmentCandidates(a, b, filter)
}
