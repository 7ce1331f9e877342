package production

import "github.com/jkarwowski/terramesh/pkg/meshgraph"

// P6 splits a triangle whose three edges all carry hanging nodes. The long
// edge is the pair with the maximum split length (the sum of distances from
// each endpoint to the edge's hanging node); the choice is then confirmed
// against the straight corner-to-corner distances, and the rule refuses to
// fire when the two disagree. On success the long edge's hanging node is
// promoted and the triangle is split through it; the other two hanging
// nodes stay for the resulting sub-triangles.
type P6 struct{ Geom Geometry }

// Name returns "P6".
func (p P6) Name() string { return "P6" }

func (p P6) check(g meshgraph.MeshGraph, center meshgraph.NodeID) (match, bool) {
	if !g.IsInterior(center) {
		return match{}, false
	}
	corners := g.InteriorVertices(center)
	hang, count := hangingPattern(g, corners)
	if count != 3 {
		return match{}, false
	}

	// Select the long edge by split length. Ties break toward the lowest
	// edge index, so selection is deterministic across repeated calls.
	edges := triangleEdges(corners)
	best, bestLen := 0, splitLength(p.Geom, g, edges[0][0], edges[0][1], hang[0])
	for i := 1; i < 3; i++ {
		if l := splitLength(p.Geom, g, edges[i][0], edges[i][1], hang[i]); l > bestLen {
			best, bestLen = i, l
		}
	}

	// The candidate must also be the longest edge measured directly between
	// its corner endpoints, not merely by split length.
	m := relabel(corners, hang, best)
	if !confirmLongest(p.Geom, g, m) {
		return match{}, false
	}
	return m, true
}

// Applies reports whether the rule matches without mutating the mesh.
func (p P6) Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	_, ok := p.check(g, center)
	return ok
}

// Apply promotes the long edge's hanging node, connects it to the opposite
// corner, replaces the triangle with the two halves, and removes the
// original triangle record.
func (p P6) Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool {
	m, ok := p.check(g, center)
	if !ok {
		return false
	}
	bisectThrough(g, center, m)
	return true
}
