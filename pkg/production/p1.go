package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P1 splits a marked triangle with no hanging nodes whose longest edge lies
// on the mesh boundary. A boundary edge has no neighboring triangle to keep
// conforming, so the midpoint comes in as a full vertex.
type P1 struct{ Geom Geometry }

// Name returns "P1".
func (p P1) Name() string { return "P1" }

func (p P1) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) || !g.Marked(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 0 {
		return match{}, false
	}
	m := relabel(corners, hang, longestEdgeIndex(p.Geom, g, corners))
	if !g.HasEdge(m.v1, m.v2) || !g.IsBoundary(m.v1, m.v2) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P1) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply splits the longest (boundary) edge with a new full vertex.
func (p P1) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectEdge(p.Geom, g, center, m)
	return true
}
