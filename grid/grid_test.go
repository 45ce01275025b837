package grid

import (
	"testing"

	"github.com/ctessum/geom"
)

func TestNewSizing(t *testing.T) {
	g := New[float64](geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 100, Y: 50}}, 10)
	if g.NX != 10 || g.NY != 5 {
		t.Errorf("got (%d,%d), want (10,5)", g.NX, g.NY)
	}
}

func TestSetAt(t *testing.T) {
	g := New[int](geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}}, 1)
	g.Set(3, 4, 42)
	if v := g.At(3, 4); v != 42 {
		t.Errorf("got %d, want 42", v)
	}
}

func TestNeighbors4(t *testing.T) {
	g := New[int](geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}}, 1)
	n := g.Neighbors4(0, 0)
	if len(n) != 2 {
		t.Errorf("corner cell: got %d neighbors, want 2", len(n))
	}
	n = g.Neighbors4(5, 5)
	if len(n) != 4 {
		t.Errorf("interior cell: got %d neighbors, want 4", len(n))
	}
}

func TestWrapTorus(t *testing.T) {
	g := New[int](geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}}, 1)
	x, y := g.WrapTorus(-1, 10)
	if x != 9 || y != 0 {
		t.Errorf("got (%d,%d), want (9,0)", x, y)
	}
}

func TestFloat64GridReset(t *testing.T) {
	g := NewFloat64Grid(geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 4, Y: 4}}, 1)
	g.Reset(1.0)
	g.Set(1, 1, 0.2)
	g.Reset(1.0)
	if v := g.At(1, 1); v != 1.0 {
		t.Errorf("got %v, want 1.0 after reset", v)
	}
}
