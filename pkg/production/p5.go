package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P5 splits a triangle carrying two hanging nodes through the one on the
// longer bisected edge, measured by split length and confirmed against the
// direct corner-to-corner distances, mirroring P6's selection. The other
// hanging node stays for a later rule in the sub-triangle that inherits it.
type P5 struct{ Geom Geometry }

// Name returns "P5".
func (p P5) Name() string { return "P5" }

func (p P5) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 2 {
		return match{}, false
	}

	edges := triangleEdges(corners)
	best, bestLen := -1, 0.0
	for i := 0; i < 3; i++ {
		if hang[i] == meshgraph.InvalidNode {
			continue
		}
		if l := splitLength(p.Geom, g, edges[i][0], edges[i][1], hang[i]); best == -1 || l > bestLen {
			best, bestLen = i, l
		}
	}

	m := relabel(corners, hang, best)
	if !confirmLongest(p.Geom, g, m) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P5) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply splits through the selected hanging node and promotes it.
func (p P5) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectThrough(g, center, m)
	return true
}
