package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P3 splits a triangle carrying exactly one hanging node when that node
// sits on the triangle's longest edge. The neighbor that created the
// hanging node has already been split, so splitting through it here makes
// both sides conforming and the node is promoted to a full vertex.
type P3 struct{ Geom Geometry }

// Name returns "P3".
func (p P3) Name() string { return "P3" }

func (p P3) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 1 {
		return match{}, false
	}
	i := 0
	for ; i < 3; i++ {
		if hang[i] != meshgraph.InvalidNode {
			break
		}
	}
	m := relabel(corners, hang, i)
	if !confirmLongest(p.Geom, g, m) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P3) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply splits through the hanging node and promotes it.
func (p P3) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectThrough(g, center, m)
	return true
}
