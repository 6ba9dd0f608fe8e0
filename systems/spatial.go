// Package systems provides the per-tick simulation systems: motion, the
// spatial index, and impulse propagation.
package systems

import (
	"github.com/pthm-cable/sparks/components"
)

// Positions is an indexed view of dot positions.
type Positions interface {
	Len() int
	PositionAt(i int) components.Vec2
}

// Broadphase narrows the dots that may lie inside an axis-aligned rectangle.
// Results may contain dots outside the rectangle; callers do the exact test.
type Broadphase interface {
	Rebuild(dots Positions)
	IndicesInRect(dst []int, topLeft, bottomRight components.Vec2) []int
}

// SpatialGrid buckets dot indices into fixed-size cells. It is rebuilt from
// scratch every tick, never updated incrementally.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	width    float32
	height   float32
	cells    [][]int // flat grid of dot indices, row-major
}

// NewSpatialGrid creates a grid of floor(width/cellSize) x floor(height/cellSize)
// cells (at least one of each). Positions past the last full cell land in the
// last column or row.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	cols := max(int(width/cellSize), 1)
	rows := max(int(height/cellSize), 1)

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		width:    width,
		height:   height,
		cells:    cells,
	}
}

// Cols returns the number of columns.
func (g *SpatialGrid) Cols() int { return g.cols }

// Rows returns the number of rows.
func (g *SpatialGrid) Rows() int { return g.rows }

// Clear empties every cell, keeping capacity.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds dot index i at position p.
func (g *SpatialGrid) Insert(i int, p components.Vec2) {
	col, row := g.CellOf(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// Rebuild clears the grid and inserts every dot.
func (g *SpatialGrid) Rebuild(dots Positions) {
	g.Clear()
	n := dots.Len()
	for i := 0; i < n; i++ {
		g.Insert(i, dots.PositionAt(i))
	}
}

// CellOf returns the clamped cell coordinate containing p.
func (g *SpatialGrid) CellOf(p components.Vec2) (col, row int) {
	return g.colOf(p.X), g.rowOf(p.Y)
}

func (g *SpatialGrid) colOf(x float32) int {
	if !(x > 0) { // also catches NaN
		return 0
	}
	// Clamp before converting: huge coordinates overflow int.
	if x >= float32(g.cols)*g.cellSize {
		return g.cols - 1
	}
	return clampInt(int(x/g.cellSize), 0, g.cols-1)
}

func (g *SpatialGrid) rowOf(y float32) int {
	if !(y > 0) {
		return 0
	}
	if y >= float32(g.rows)*g.cellSize {
		return g.rows - 1
	}
	return clampInt(int(y/g.cellSize), 0, g.rows-1)
}

// Cell returns the indices stored in a cell. The slice is owned by the grid
// and only valid until the next rebuild.
func (g *SpatialGrid) Cell(col, row int) []int {
	return g.cells[row*g.cols+col]
}

// CellBounds returns the world-space rectangle a cell covers. The last
// column and row extend to the world edge.
func (g *SpatialGrid) CellBounds(col, row int) (minP, maxP components.Vec2) {
	minP = components.V(float32(col)*g.cellSize, float32(row)*g.cellSize)
	maxP = components.V(float32(col+1)*g.cellSize, float32(row+1)*g.cellSize)
	if col == g.cols-1 && g.width > maxP.X {
		maxP.X = g.width
	}
	if row == g.rows-1 && g.height > maxP.Y {
		maxP.Y = g.height
	}
	return minP, maxP
}

// IndicesInRect appends the indices of every cell the rectangle touches.
// The rectangle is clamped to the grid, so out-of-world corners are fine.
func (g *SpatialGrid) IndicesInRect(dst []int, topLeft, bottomRight components.Vec2) []int {
	c0, r0 := g.CellOf(topLeft)
	c1, r1 := g.CellOf(bottomRight)
	for row := r0; row <= r1; row++ {
		base := row * g.cols
		for col := c0; col <= c1; col++ {
			dst = append(dst, g.cells[base+col]...)
		}
	}
	return dst
}

// LinearScan is the brute-force broad phase: every dot is a candidate.
type LinearScan struct {
	n int
}

// Rebuild records the population size.
func (s *LinearScan) Rebuild(dots Positions) {
	s.n = dots.Len()
}

// IndicesInRect appends every index in order.
func (s *LinearScan) IndicesInRect(dst []int, _, _ components.Vec2) []int {
	for i := 0; i < s.n; i++ {
		dst = append(dst, i)
	}
	return dst
}
