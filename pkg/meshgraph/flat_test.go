package meshgraph

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecApproxEqual(a, b r3.Vec) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestFlat_Elevation(t *testing.T) {
	g := NewFlat()
	v := g.AddVertex2D(3, 4, 2.5, 0)

	if got := g.Elevation(v); got != 2.5 {
		t.Errorf("Elevation() = %v, want 2.5", got)
	}
	g.SetElevation(v, -1)
	if got := g.Cartesian(v); !vecApproxEqual(got, r3.Vec{X: 3, Y: 4, Z: -1}) {
		t.Errorf("Cartesian() = %v, want (3, 4, -1)", got)
	}
}

func TestFlat_Coords2D(t *testing.T) {
	g := NewFlat()
	v := g.AddVertex(r3.Vec{X: 1, Y: 2, Z: 9}, 0)
	x, y := g.Coords2D(v)
	if x != 1 || y != 2 {
		t.Errorf("Coords2D() = (%v, %v), want (1, 2)", x, y)
	}
}

func TestFlat_ValueCartesian(t *testing.T) {
	g := NewFlat()
	v := g.AddVertex(r3.Vec{X: 1, Y: 2, Z: 3}, 0.5)
	if got := g.ValueCartesian(v); !vecApproxEqual(got, r3.Vec{X: 1, Y: 2, Z: 3.5}) {
		t.Errorf("ValueCartesian() = %v, want (1, 2, 3.5)", got)
	}
}

func TestFlat_Scale(t *testing.T) {
	g := NewFlat()
	v := g.AddVertex(r3.Vec{X: 1, Y: -2, Z: 3}, 0)
	w := g.AddVertex(r3.Vec{X: 4, Y: 0, Z: 0}, 0)
	h := g.AddHanging(v, w, r3.Vec{X: 2.5, Y: -1, Z: 1.5})

	g.Scale(2)

	if got := g.Cartesian(v); !vecApproxEqual(got, r3.Vec{X: 2, Y: -4, Z: 6}) {
		t.Errorf("Cartesian(v) = %v, want (2, -4, 6)", got)
	}
	// Hanging nodes are left in place; productions reposition them.
	if got := g.Cartesian(h); !vecApproxEqual(got, r3.Vec{X: 2.5, Y: -1, Z: 1.5}) {
		t.Errorf("Cartesian(h) = %v, want unchanged", got)
	}
}

func TestFlat_ScaleIdentityIsNoOp(t *testing.T) {
	g := NewFlat()
	v := g.AddVertex(r3.Vec{X: 1.25, Y: -0.5, Z: 7}, 0)
	before := g.Cartesian(v)

	g.Scale(1.0)

	if got := g.Cartesian(v); !vecApproxEqual(got, before) {
		t.Errorf("Scale(1.0) moved vertex: got %v, want %v", got, before)
	}
}
