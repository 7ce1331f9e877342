package meshgraph

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestAddVertex_CountsAndFreshIDs(t *testing.T) {
	g := NewFlat()
	seen := map[NodeID]bool{}
	for i := 0; i < 5; i++ {
		id := g.AddVertex(r3.Vec{X: float64(i)}, 0)
		if seen[id] {
			t.Fatalf("AddVertex returned reused ID %d", id)
		}
		seen[id] = true
		if g.VertexCount() != i+1 {
			t.Errorf("VertexCount() = %d, want %d", g.VertexCount(), i+1)
		}
	}
}

func TestRemoveNode_NeverReusesIDs(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	g.RemoveNode(a)
	if g.Has(a) {
		t.Errorf("Has(%d) = true after removal", a)
	}
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	if b == a {
		t.Errorf("AddVertex reused removed ID %d", a)
	}
	if g.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", g.VertexCount())
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)

	if err := g.AddEdge(a, b); err != nil {
		t.Fatalf("AddEdge(%d, %d) = %v, want nil", a, b, err)
	}
	if err := g.AddEdge(b, a); !errors.Is(err, ErrDuplicateEdge) {
		t.Errorf("AddEdge(b, a) = %v, want ErrDuplicateEdge", err)
	}
	if err := g.AddEdge(a, 99); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddEdge(a, 99) = %v, want ErrUnknownNode", err)
	}
}

func TestRemoveNode_DropsIncidentEdges(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	c := g.AddVertex(r3.Vec{Y: 1}, 0)
	g.AddEdge(a, b)
	g.AddEdge(a, c)
	g.AddEdge(b, c)

	g.RemoveNode(a)

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if g.HasEdge(a, b) || g.HasEdge(a, c) {
		t.Error("edges incident to removed node survived")
	}
	if !g.HasEdge(b, c) {
		t.Error("unrelated edge (b, c) was removed")
	}
}

func TestAddInterior_TopologyAndCount(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	c := g.AddVertex(r3.Vec{Y: 1}, 0)
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)

	in := g.AddInterior(a, b, c)

	if !g.IsInterior(in) {
		t.Fatalf("IsInterior(%d) = false", in)
	}
	if g.InteriorCount() != 1 {
		t.Errorf("InteriorCount() = %d, want 1", g.InteriorCount())
	}
	got := g.InteriorVertices(in)
	want := map[NodeID]bool{a: true, b: true, c: true}
	for _, v := range got {
		if !want[v] {
			t.Errorf("InteriorVertices(%d) contains unexpected corner %d", in, v)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestHangingNodeBetween(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 2}, 0)
	c := g.AddVertex(r3.Vec{Y: 2}, 0)
	g.AddEdge(a, c)
	g.AddEdge(b, c)

	h := g.AddHanging(a, b, r3.Vec{X: 1})

	if g.HangingCount() != 1 {
		t.Errorf("HangingCount() = %d, want 1", g.HangingCount())
	}
	got, ok := g.HangingNodeBetween(a, b)
	if !ok || got != h {
		t.Errorf("HangingNodeBetween(a, b) = (%d, %v), want (%d, true)", got, ok, h)
	}
	if got, ok := g.HangingNodeBetween(b, a); !ok || got != h {
		t.Errorf("HangingNodeBetween(b, a) = (%d, %v), want (%d, true)", got, ok, h)
	}
	if _, ok := g.HangingNodeBetween(a, c); ok {
		t.Error("HangingNodeBetween(a, c) found a node on an unbisected edge")
	}

	pa, pb := g.HangingParents(h)
	if pa != a || pb != b {
		t.Errorf("HangingParents(%d) = (%d, %d), want (%d, %d)", h, pa, pb, a, b)
	}
}

func TestUnsetHanging_Promotes(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 2}, 0)
	h := g.AddHanging(a, b, r3.Vec{X: 1})

	g.UnsetHanging(h)

	if g.Kind(h) != KindVertex {
		t.Errorf("Kind(%d) = %s, want vertex", h, g.Kind(h))
	}
	if g.HangingCount() != 0 {
		t.Errorf("HangingCount() = %d, want 0", g.HangingCount())
	}
	if g.VertexCount() != 3 {
		t.Errorf("VertexCount() = %d, want 3", g.VertexCount())
	}
	if _, ok := g.HangingNodeBetween(a, b); ok {
		t.Error("promoted node still reported as hanging between its parents")
	}
}

func TestRefineMarks(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	c := g.AddVertex(r3.Vec{Y: 1}, 0)
	in := g.AddInterior(a, b, c)

	if g.Marked(in) {
		t.Error("new interior is marked")
	}
	g.MarkRefine(in)
	if !g.Marked(in) {
		t.Error("Marked() = false after MarkRefine")
	}
	g.ClearRefine(in)
	if g.Marked(in) {
		t.Error("Marked() = true after ClearRefine")
	}
}

func TestBoundaryFlags(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	g.AddEdge(a, b)

	if g.IsBoundary(a, b) {
		t.Error("new edge reported as boundary")
	}
	g.SetBoundary(a, b, true)
	if !g.IsBoundary(b, a) {
		t.Error("IsBoundary not symmetric in endpoint order")
	}
}

func TestValidate_CorruptHanging(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 2}, 0)
	h := g.AddHanging(a, b, r3.Vec{X: 1})

	g.RemoveEdge(h, a)

	if err := g.Validate(); !errors.Is(err, ErrHangingParents) {
		t.Errorf("Validate() = %v, want ErrHangingParents", err)
	}
}
