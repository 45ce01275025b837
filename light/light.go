// Package light implements the light-influence-pattern (LIP) engine
// (spec.md §4.2): stamping each tree's species/DBH-specific light-reduction
// raster onto the 2m light-influence field, writing the companion 10m
// height grid, and reading back a per-tree available-light fraction.
package light

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/landscape-sim/forestsim/grid"
	"github.com/landscape-sim/forestsim/species"
	"github.com/landscape-sim/forestsim/tree"
)

// Engine owns the light-influence field and height grid for one landscape.
type Engine struct {
	LIF    *grid.Float64Grid // 2m cells, values 0 (full shade) .. 1 (full light)
	Height *grid.Float64Grid // 10m cells, tallest tree height in the cell
	Species *species.Set
	Torus  bool // wrap the LIF/height grids as a torus, per spec.md
}

// NewEngine allocates a light Engine over the given grids.
func NewEngine(lif, height *grid.Float64Grid, sp *species.Set, torus bool) *Engine {
	return &Engine{LIF: lif, Height: height, Species: sp, Torus: torus}
}

// ResetLIF sets every LIF cell to full light (1.0), the required state
// before re-stamping all trees for the year.
func (e *Engine) ResetLIF() { e.LIF.Reset(1.0) }

// ResetHeight sets every height-grid cell to zero.
func (e *Engine) ResetHeight() { e.Height.Reset(0) }

// WriteHeight updates the height grid at the cell containing the tree's
// (X, Y) position if the tree is taller than what is currently recorded.
func (e *Engine) WriteHeight(t *tree.Tree) error {
	x, y := e.Height.PointToCell(geom.Point{X: t.X, Y: t.Y})
	if !e.Height.InBounds(x, y) {
		if e.Torus {
			x, y = e.Height.WrapTorus(x, y)
		} else {
			return fmt.Errorf("light: tree %d at (%v,%v) is outside the height grid", t.ID, t.X, t.Y)
		}
	}
	if t.Height > e.Height.At(x, y) {
		e.Height.Set(x, y, t.Height)
	}
	return nil
}

// ApplyLIP stamps t's species/DBH stamp onto the LIF grid centered on the
// tree's cell, multiplying (not overwriting) existing LIF values, matching
// spec.md §4.2's accumulation semantics.
func (e *Engine) ApplyLIP(t *tree.Tree) error {
	stamp, err := e.Species.StampFor(t.Species, t.DBH)
	if err != nil {
		return fmt.Errorf("light: %w", err)
	}
	cx, cy := e.LIF.PointToCell(geom.Point{X: t.X, Y: t.Y})
	radius := stamp.CenterOffset
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			v := stamp.At(dx, dy)
			if v == 0 {
				continue
			}
			x, y := cx+dx, cy+dy
			if !e.LIF.InBounds(x, y) {
				if !e.Torus {
					continue
				}
				x, y = e.LIF.WrapTorus(x, y)
			}
			e.LIF.Set(x, y, e.LIF.At(x, y)*v)
		}
	}
	return nil
}

// ReadLIF returns the available light fraction at the tree's crown
// position, blended with a stocked-area correction when the resource
// unit's leaf area index is below 3 (spec.md §4.2's LAI < 3 special case:
// sparse canopies see more light than a naive LIF read would suggest).
func (e *Engine) ReadLIF(t *tree.Tree, resourceUnitLAI float64) (float64, error) {
	x, y := e.LIF.PointToCell(geom.Point{X: t.X, Y: t.Y})
	if !e.LIF.InBounds(x, y) {
		if e.Torus {
			x, y = e.LIF.WrapTorus(x, y)
		} else {
			return 0, fmt.Errorf("light: tree %d at (%v,%v) is outside the LIF grid", t.ID, t.X, t.Y)
		}
	}
	raw := e.LIF.At(x, y)
	if resourceUnitLAI >= 3 {
		return raw, nil
	}
	blend := resourceUnitLAI / 3
	stockedAreaCorrection := 1.0 // full light outside the canopy's stocked fraction
	return raw*blend + stockedAreaCorrection*(1-blend), nil
}
