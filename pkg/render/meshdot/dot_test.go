package meshdot

import (
	"fmt"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// newMesh builds one triangle with a boundary base edge and a hanging node
// on the edge (b, c).
func newMesh(t *testing.T) (*meshgraph.FlatGraph, [5]meshgraph.NodeID) {
	t.Helper()
	g := meshgraph.NewFlat()
	a := g.AddVertex2D(0, 0, 0, 0)
	b := g.AddVertex2D(4, 0, 0, 0)
	c := g.AddVertex2D(0, 3, 0, 0)
	for _, e := range [][2]meshgraph.NodeID{{a, b}, {c, a}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	g.SetBoundary(a, b, true)
	h := g.AddHanging(b, c, r3.Vec{X: 2, Y: 1.5})
	in := g.AddInterior(a, b, c)
	return g, [5]meshgraph.NodeID{a, b, c, h, in}
}

func TestToDOT_MeshOnly(t *testing.T) {
	g, ids := newMesh(t)
	dot := ToDOT(g, Options{})

	if !strings.HasPrefix(dot, "graph mesh {") {
		t.Errorf("ToDOT() does not open an undirected graph:\n%s", dot)
	}
	if !strings.Contains(dot, "layout=neato") {
		t.Error("ToDOT() missing neato layout")
	}
	for _, n := range ids[:4] {
		if !strings.Contains(dot, fmt.Sprintf("  %d [", n)) {
			t.Errorf("ToDOT() missing node %d", n)
		}
	}
	if strings.Contains(dot, fmt.Sprintf("  %d [", ids[4])) {
		t.Errorf("ToDOT() drew triangle record %d without Structure", ids[4])
	}
}

func TestToDOT_Styling(t *testing.T) {
	g, ids := newMesh(t)
	a, b, h := ids[0], ids[1], ids[3]
	dot := ToDOT(g, Options{})

	if !strings.Contains(dot, "style=\"filled,dashed\"") {
		t.Errorf("hanging node %d not dashed:\n%s", h, dot)
	}
	if !strings.Contains(dot, fmt.Sprintf("%d -- %d [penwidth=2.5];", a, b)) {
		t.Error("boundary edge not thickened")
	}
	if !strings.Contains(dot, "pos=\"2,1.5!\"") {
		t.Error("hanging node position not pinned")
	}
}

func TestToDOT_Structure(t *testing.T) {
	g, ids := newMesh(t)
	in := ids[4]
	dot := ToDOT(g, Options{Structure: true})

	if !strings.Contains(dot, fmt.Sprintf("  %d [shape=point", in)) {
		t.Errorf("triangle record %d not drawn as point", in)
	}
	if !strings.Contains(dot, "style=dotted") {
		t.Error("corner links not dotted")
	}
}

func TestToDOT_DetailedLabels(t *testing.T) {
	g := meshgraph.NewFlat()
	v := g.AddVertex2D(1, 2, 7.5, 0.25)
	dot := ToDOT(g, Options{Detailed: true})

	want := fmt.Sprintf("label=\"%d\\nelev: 7.5\\nval: 0.25\"", v)
	if !strings.Contains(dot, want) {
		t.Errorf("ToDOT() missing detailed label %s:\n%s", want, dot)
	}
}
