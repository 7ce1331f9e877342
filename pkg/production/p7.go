package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P7 handles a triangle carrying two hanging nodes whose longest edge is
// still whole. Neither hanging node may be split through first (the longest
// edge must always break first), so the rule bisects the longest edge; the
// triangle then matches P6 on a later sweep.
type P7 struct{ Geom Geometry }

// Name returns "P7".
func (p P7) Name() string { return "P7" }

func (p P7) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 2 {
		return match{}, false
	}
	i := longestEdgeIndex(p.Geom, g, corners)
	if hang[i] != meshgraph.InvalidNode {
		// The longest edge is already bisected; that is P5's pattern.
		return match{}, false
	}
	m := relabel(corners, hang, i)
	if !g.HasEdge(m.v1, m.v2) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P7) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply bisects the longest edge, with a vertex or hanging node depending
// on whether the edge is on the boundary.
func (p P7) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectEdge(p.Geom, g, center, m)
	return true
}
