package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P2 splits a marked triangle with no hanging nodes whose longest edge is
// interior to the mesh. The midpoint comes in as a hanging node, leaving the
// neighboring triangle to be reconciled by a later promotion rule.
type P2 struct{ Geom Geometry }

// Name returns "P2".
func (p P2) Name() string { return "P2" }

func (p P2) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) || !g.Marked(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 0 {
		return match{}, false
	}
	m := relabel(corners, hang, longestEdgeIndex(p.Geom, g, corners))
	if !g.HasEdge(m.v1, m.v2) || g.IsBoundary(m.v1, m.v2) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P2) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply splits the longest edge with a new hanging node.
func (p P2) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectEdge(p.Geom, g, center, m)
	return true
}
