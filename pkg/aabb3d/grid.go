package aabb3d

import "math"

// cellCoord is a grid cell address.
type cellCoord struct {
	cx, cy, cz int
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

// cellRect is the inclusive range of cells covering a world box.
type cellRect struct {
	cx, cy, cz, cw, ch, cd int
}

func (g *grid) toCellRect(r Rect) cellRect {
	cx, cy, cz := g.toCell(r.X), g.toCell(r.Y), g.toCell(r.Z)
	cr := int(math.Ceil((r.X + r.W) / float64(g.cellSize)))
	cb := int(math.Ceil((r.Y + r.H) / float64(g.cellSize)))
	cf := int(math.Ceil((r.Z + r.D) / float64(g.cellSize)))
	return cellRect{cx: cx, cy: cy, cz: cz, cw: cr - cx + 1, ch: cb - cy + 1, cd: cf - cz + 1}
}

func (g *grid) forEachCell(cr cellRect, fn func(c cellCoord)) {
	for cz := cr.cz; cz < cr.cz+cr.cd; cz++ {
		for cy := cr.cy; cy < cr.cy+cr.ch; cy++ {
			for cx := cr.cx; cx < cr.cx+cr.cw; cx++ {
				fn(cellCoord{cx, cy, cz})
			}
		}
	}
}

func (g *grid) add(item int, r Rect) {
	g.forEachCell(g.toCellRect(r), func(c cellCoord) { g.insert(item, c) })
}

func (g *grid) remove(item int, r Rect) {
	g.forEachCell(g.toCellRect(r), func(c cellCoord) { g.erase(item, c) })
}

// update re-indexes item from oldR to newR, touching only the cells in the
// symmetric difference of the two cell rects.
func (g *grid) update(item int, oldR, newR Rect) {
	o := g.toCellRect(oldR)
	n := g.toCellRect(newR)
	if o == n {
		return
	}

	inNew := func(c cellCoord) bool {
		return c.cx >= n.cx && c.cx < n.cx+n.cw &&
			c.cy >= n.cy && c.cy < n.cy+n.ch &&
			c.cz >= n.cz && c.cz < n.cz+n.cd
	}
	inOld := func(c cellCoord) bool {
		return c.cx >= o.cx && c.cx < o.cx+o.cw &&
			c.cy >= o.cy && c.cy < o.cy+o.ch &&
			c.cz >= o.cz && c.cz < o.cz+o.cd
	}

	g.forEachCell(o, func(c cellCoord) {
		if !inNew(c) {
			g.erase(item, c)
		}
	})
	g.forEachCell(n, func(c cellCoord) {
		if !inOld(c) {
			g.insert(item, c)
		}
	})
}

func (g *grid) insert(item int, c cellCoord) {
	set := g.cells[c]
	if set == nil {
		set = make(map[int]struct{})
		g.cells[c] = set
	}
	set[item] = struct{}{}
}

// erase removes item from cell c. It tolerates a missing cell or item and
// reports whether anything was actually removed.
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
	out := make(map[int]struct{})
	g.forEachCell(g.toCellRect(r), func(c cellCoord) {
		for id := range g.cells[c] {
			out[id] = struct{}{}
		}
	})
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

// traverseSegment visits every grid cell the segment (x1,y1,z1)-(x2,y2,z2)
// passes through, in order, via the Amanatides-Woo algorithm. It always
// emits the starting cell; when the boundary parameter of the axis being
// advanced ties with another axis's, it first emits the neighbour one step
// along each tied axis. Cells that touch a crossed edge or corner only
// diagonally (e.g. one step along both x and y at once) are not emitted.
// Iteration stops once the current
// cell is within Manhattan distance 1 of the target cell, emitting the
// target cell if it wasn't already reached — the standard termination
// compares floating point boundary parameters for equality and can loop
// forever near the final cell.
func (g *grid) traverseSegment(x1, y1, z1, x2, y2, z2 float64, visit func(cx, cy, cz int)) {
	cx1, cy1, cz1 := g.toCell(x1), g.toCell(y1), g.toCell(z1)
	cx2, cy2, cz2 := g.toCell(x2), g.toCell(y2), g.toCell(z2)

	stepX, dx, tx := traverseStep(g.cellSize, cx1, x1, x2)
	stepY, dy, ty := traverseStep(g.cellSize, cy1, y1, y2)
	stepZ, dz, tz := traverseStep(g.cellSize, cz1, z1, z2)

	cx, cy, cz := cx1, cy1, cz1
	visit(cx, cy, cz)

	for iabs(cx-cx2)+iabs(cy-cy2)+iabs(cz-cz2) > 1 {
		switch {
		case tx < ty && tx < tz:
			tx += dx
			cx += stepX
			visit(cx, cy, cz)
		case ty < tz:
			if tx == ty {
				visit(cx+stepX, cy, cz)
			}
			ty += dy
			cy += stepY
			visit(cx, cy, cz)
		default:
			if tx == tz {
				visit(cx+stepX, cy, cz)
			}
			if ty == tz {
				visit(cx, cy+stepY, cz)
			}
			tz += dz
			cz += stepZ
			visit(cx, cy, cz)
		}
	}

	if cx != cx2 || cy != cy2 || cz != cz2 {
		visit(cx2, cy2, cz2)
	}
}
