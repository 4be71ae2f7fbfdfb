package aabb2d

import "math"

// cellCoord is a grid cell address.
type cellCoord struct {
	cx, cy int
}

// grid is a sparse uniform cell grid mapping cell coordinates to item id
// sets. Cell c covers world range [cellSize*(c-1), cellSize*c) on each axis
// (one-indexed so toWorld(1) == 0).
type grid struct {
	cellSize int
	cells    map[cellCoord]map[int]struct{}
}

func newGrid(cellSize int) *grid {
	return &grid{cellSize: cellSize, cells: make(map[cellCoord]map[int]struct{})}
}

func (g *grid) toCell(coord float64) int {
	return int(math.Floor(coord/float64(g.cellSize))) + 1
}

func (g *grid) toWorld(c int) float64 {
	return float64(c-1) * float64(g.cellSize)
}

// cellRect is the inclusive range of cells [cx, cx+cw) x [cy, cy+ch) covering
// a world rectangle.
type cellRect struct {
	cx, cy, cw, ch int
}

func (g *grid) toCellRect(r Rect) cellRect {
	cx, cy := g.toCell(r.X), g.toCell(r.Y)
	cr := int(math.Ceil((r.X + r.W) / float64(g.cellSize)))
	cb := int(math.Ceil((r.Y + r.H) / float64(g.cellSize)))
	return cellRect{cx: cx, cy: cy, cw: cr - cx + 1, ch: cb - cy + 1}
}

func (g *grid) add(item int, r Rect) {
	cr := g.toCellRect(r)
	for cy := cr.cy; cy < cr.cy+cr.ch; cy++ {
		for cx := cr.cx; cx < cr.cx+cr.cw; cx++ {
			g.insert(item, cellCoord{cx, cy})
		}
	}
}

func (g *grid) remove(item int, r Rect) {
	cr := g.toCellRect(r)
	for cy := cr.cy; cy < cr.cy+cr.ch; cy++ {
		for cx := cr.cx; cx < cr.cx+cr.cw; cx++ {
			g.erase(item, cellCoord{cx, cy})
		}
	}
}

// update re-indexes item from oldR to newR, touching only the cells in the
// symmetric difference of the two cell rectangles.
func (g *grid) update(item int, oldR, newR Rect) {
	o := g.toCellRect(oldR)
	n := g.toCellRect(newR)
	if o == n {
		return
	}

	or, ob := o.cx+o.cw-1, o.cy+o.ch-1
	nr, nb := n.cx+n.cw-1, n.cy+n.ch-1

	for cy := o.cy; cy <= ob; cy++ {
		yOut := cy < n.cy || cy > nb
		for cx := o.cx; cx <= or; cx++ {
			if yOut || cx < n.cx || cx > nr {
				g.erase(item, cellCoord{cx, cy})
			}
		}
	}
	for cy := n.cy; cy <= nb; cy++ {
		yOut := cy < o.cy || cy > ob
		for cx := n.cx; cx <= nr; cx++ {
			if yOut || cx < o.cx || cx > or {
				g.insert(item, cellCoord{cx, cy})
			}
		}
	}
}

func (g *grid) insert(item int, c cellCoord) {
	set := g.cells[c]
	if set == nil {
		set = make(map[int]struct{})
		g.cells[c] = set
	}
	set[item] = struct{}{}
}

// erase removes item from cell c. It tolerates a missing cell or a missing
// item and reports whether anything was actually removed.
func (g *grid) erase(item int, c cellCoord) bool {
	set, ok := g.cells[c]
	if !ok {
		return false
	}
	if _, ok := set[item]; !ok {
		return false
	}
	delete(set, item)
	return true
}

// candidates returns the union of item ids across the cells covered by r.
func (g *grid) candidates(r Rect) map[int]struct{} {
	cr := g.toCellRect(r)
	out := make(map[int]struct{})
	for cy := cr.cy; cy < cr.cy+cr.ch; cy++ {
		for cx := cr.cx; cx < cr.cx+cr.cw; cx++ {
			for id := range g.cells[cellCoord{cx, cy}] {
				out[id] = struct{}{}
			}
		}
	}
	return out
}

func (g *grid) countCells() int {
	n := 0
	for _, set := range g.cells {
		if len(set) > 0 {
			n++
		}
	}
	return n
}

// traverseStep computes the Amanatides-Woo step, initial boundary parameter
// and boundary increment for one axis.
func traverseStep(cellSize, ct int, t1, t2 float64) (step int, inc, next float64) {
	v := t2 - t1
	switch {
	case v > 0:
		return 1, float64(cellSize) / v, ((float64(ct)+v)*float64(cellSize) - t1) / v
	case v < 0:
		return -1, -float64(cellSize) / v, ((float64(ct)+v-1)*float64(cellSize) - t1) / v
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func iabs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// traverseSegment visits every grid cell the segment (x1,y1)-(x2,y2) passes
// through, in order, via the Amanatides-Woo algorithm. It always emits the
// starting cell; when the ray crosses a grid corner it emits the diagonal
// neighbour too, so both cells touching the corner are visited. Iteration
// stops once the current cell is within Manhattan distance 1 of the target
// cell, emitting the target cell if it wasn't already reached — the
// standard termination compares floating point boundary parameters for
// equality and can loop forever near the final cell.
func (g *grid) traverseSegment(x1, y1, x2, y2 float64, visit func(cx, cy int)) {
	cx1, cy1 := g.toCell(x1), g.toCell(y1)
	cx2, cy2 := g.toCell(x2), g.toCell(y2)

	stepX, dx, tx := traverseStep(g.cellSize, cx1, x1, x2)
	stepY, dy, ty := traverseStep(g.cellSize, cy1, y1, y2)

	cx, cy := cx1, cy1
	visit(cx, cy)

	for iabs(cx-cx2)+iabs(cy-cy2) > 1 {
		if tx < ty {
			tx += dx
			cx += stepX
			visit(cx, cy)
		} else {
			if tx == ty {
				visit(cx+stepX, cy)
			}
			ty += dy
			cy += stepY
			visit(cx, cy)
		}
	}

	if cx != cx2 || cy != cy2 {
		visit(cx2, cy2)
	}
}
