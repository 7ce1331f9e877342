package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P4 handles a triangle carrying exactly one hanging node that is not on
// the longest edge. Splitting through a non-longest edge would degrade
// triangle quality, so the rule bisects the longest edge instead; the
// existing hanging node stays in place for a later promotion in one of the
// resulting sub-triangles.
type P4 struct{ Geom Geometry }

// Name returns "P4".
func (p P4) Name() string { return "P4" }

func (p P4) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 1 {
		return match{}, false
	}
	i := longestEdgeIndex(p.Geom, g, corners)
	if hang[i] != meshgraph.InvalidNode {
		// The hanging node is on the longest edge; that is P3's pattern.
		return match{}, false
	}
	m := relabel(corners, hang, i)
	if !g.HasEdge(m.v1, m.v2) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P4) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply bisects the longest edge, with a vertex or hanging node depending
// on whether the edge is on the boundary.
func (p P4) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectEdge(p.Geom, g, center, m)
	return true
}
