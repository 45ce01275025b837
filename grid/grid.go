// Package grid implements the uniform metric grids used by the landscape
// model: the 2m light-influence field, the 10m height grid and stand grid,
// and the 100m resource-unit grid. Each grid is addressed by a geom.Bounds
// origin plus a fixed cell size. Grid[T] stores its cells in a plain slice;
// Float64Grid also mirrors its values into a sparse.DenseArray.
package grid

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// Grid is a uniform, axis-aligned raster of cell size CellSize covering
// Extent, with NX by NY cells. T is the stored value type.
type Grid[T any] struct {
	Extent   geom.Bounds
	CellSize float64
	NX, NY   int
	cells    []T
}

// New allocates a grid covering extent with the given cell size. NX and NY
// are the extent's width and height in cells rounded to the nearest integer
// (at least 1); Extent is stored unchanged, so the cells may fall short of or
// overrun it by up to half a cell.
func New[T any](extent geom.Bounds, cellSize float64) *Grid[T] {
	nx := int((extent.Max.X-extent.Min.X)/cellSize + 0.5)
	ny := int((extent.Max.Y-extent.Min.Y)/cellSize + 0.5)
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	return &Grid[T]{
		Extent:   extent,
		CellSize: cellSize,
		NX:       nx,
		NY:       ny,
		cells:    make([]T, nx*ny),
	}
}

// Index returns the flat cell index for (x, y), or -1 if out of range.
func (g *Grid[T]) Index(x, y int) int {
	if x < 0 || x >= g.NX || y < 0 || y >= g.NY {
		return -1
	}
	return y*g.NX + x
}

// At returns the value at (x, y). It panics if (x, y) is out of range, the
// same contract as a plain slice index.
func (g *Grid[T]) At(x, y int) T {
	i := g.Index(x, y)
	if i < 0 {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range [%d,%d]", x, y, g.NX, g.NY))
	}
	return g.cells[i]
}

// Set stores v at (x, y).
func (g *Grid[T]) Set(x, y int, v T) {
	i := g.Index(x, y)
	if i < 0 {
		panic(fmt.Sprintf("grid: index (%d,%d) out of range [%d,%d]", x, y, g.NX, g.NY))
	}
	g.cells[i] = v
}

// InBounds reports whether (x, y) addresses a valid cell.
func (g *Grid[T]) InBounds(x, y int) bool { return g.Index(x, y) >= 0 }

// PointToCell converts a metric point to the cell coordinates containing it.
func (g *Grid[T]) PointToCell(p geom.Point) (x, y int) {
	x = int((p.X - g.Extent.Min.X) / g.CellSize)
	y = int((p.Y - g.Extent.Min.Y) / g.CellSize)
	return
}

// CellCenter returns the metric coordinates of the center of cell (x, y).
func (g *Grid[T]) CellCenter(x, y int) geom.Point {
	return geom.Point{
		X: g.Extent.Min.X + (float64(x)+0.5)*g.CellSize,
		Y: g.Extent.Min.Y + (float64(y)+0.5)*g.CellSize,
	}
}

// Neighbors4 returns the four orthogonal neighbor coordinates of (x, y) that
// are in bounds. Grounded on the teacher's direction-indexed neighbor
// computation in neighbors.go, simplified for a uniform grid (the teacher
// needs an rtree query because its CTM grid is multi-resolution; forestsim's
// grids are not, so direct index arithmetic suffices).
func (g *Grid[T]) Neighbors4(x, y int) [][2]int {
	cand := [][2]int{{x - 1, y}, {x + 1, y}, {x, y - 1}, {x, y + 1}}
	out := make([][2]int, 0, 4)
	for _, c := range cand {
		if g.InBounds(c[0], c[1]) {
			out = append(out, c)
		}
	}
	return out
}

// Neighbors8 returns the eight Moore-neighborhood coordinates of (x, y) that
// are in bounds.
func (g *Grid[T]) Neighbors8(x, y int) [][2]int {
	out := make([][2]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if g.InBounds(nx, ny) {
				out = append(out, [2]int{nx, ny})
			}
		}
	}
	return out
}

// Window invokes f for every cell in the axis-aligned window of given radius
// (in cells) centered on (x, y), clipped to grid bounds.
func (g *Grid[T]) Window(x, y, radius int, f func(x, y int, v T)) {
	for wy := y - radius; wy <= y+radius; wy++ {
		if wy < 0 || wy >= g.NY {
			continue
		}
		for wx := x - radius; wx <= x+radius; wx++ {
			if wx < 0 || wx >= g.NX {
				continue
			}
			f(wx, wy, g.cells[g.Index(wx, wy)])
		}
	}
}

// WrapTorus maps (x, y) onto the grid using toroidal (wraparound) addressing,
// used by the light engine when the landscape is configured to simulate an
// infinitely-tiled stand.
func (g *Grid[T]) WrapTorus(x, y int) (int, int) {
	x = ((x % g.NX) + g.NX) % g.NX
	y = ((y % g.NY) + g.NY) % g.NY
	return x, y
}

// Float64Grid is a Grid[float64] additionally backed by a sparse.DenseArray
// for bulk numeric operations (e.g. resetting or scaling the whole LIF in a
// single call), matching the pattern of the teacher's CTMData.Data fields.
type Float64Grid struct {
	*Grid[float64]
	dense *sparse.DenseArray
}

// NewFloat64Grid allocates a float64 grid over extent with the given cell
// size, backed by a sparse.DenseArray in row-major (y, x) order.
func NewFloat64Grid(extent geom.Bounds, cellSize float64) *Float64Grid {
	g := New[float64](extent, cellSize)
	return &Float64Grid{Grid: g, dense: sparse.ZerosDense(g.NY, g.NX)}
}

// Reset sets every cell to v.
func (g *Float64Grid) Reset(v float64) {
	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			g.Grid.Set(x, y, v)
		}
	}
	if v == 0 {
		g.dense = sparse.ZerosDense(g.NY, g.NX)
	} else {
		for i := range g.dense.Elements {
			g.dense.Elements[i] = v
		}
	}
}

// Set stores v at (x, y) in both the Grid view and the dense backing array.
func (g *Float64Grid) Set(x, y int, v float64) {
	g.Grid.Set(x, y, v)
	g.dense.Set(v, y, x)
}

// Dense returns the sparse.DenseArray backing this grid, for code that wants
// to operate on it directly (e.g. gonum/floats reductions over Elements).
func (g *Float64Grid) Dense() *sparse.DenseArray { return g.dense }
