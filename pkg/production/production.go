// Package production implements the Rivara-style longest-edge bisection
// rules that drive adaptive mesh refinement.
//
// Each production is a local rewrite over one triangle record: a pure
// predicate that matches the triangle's surrounding topology, and a mutation
// that re-triangulates when the predicate holds. Apply returns false and
// leaves the mesh untouched when the predicate fails; this is the expected
// path, not an error.
//
// # The rule family
//
//   - P1: marked triangle, no hanging nodes, longest edge on the boundary —
//     split the longest edge with a new full vertex
//   - P2: marked triangle, no hanging nodes, longest edge interior — split
//     the longest edge with a new hanging node
//   - P3: one hanging node, sitting on the longest edge — split through it
//     and promote it
//   - P4: one hanging node elsewhere — bisect the longest edge
//   - P5: two hanging nodes, one on the longest edge — split through that
//     one and promote it
//   - P6: hanging nodes on all three edges — split through the hanging node
//     with the longest split length
//   - P7: two hanging nodes, longest edge still whole — bisect the longest
//     edge
//
// Together the rules terminate: every application either consumes a
// refinement mark or moves a triangle closer to conformity, and bisection
// always attacks the longest edge, which bounds the sliver angle.
//
// Distance comparisons and midpoint placement go through an injected
// [Geometry], so productions never inspect the mesh variant themselves.
package production

import (
	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// Production is one local mesh-rewriting rule.
type Production interface {
	// Name returns the rule's short name, e.g. "P6".
	Name() string

	// Applies reports whether the rule matches the triangle record center.
	// It never mutates the mesh, and repeated calls without intervening
	// mutations return the same result.
	Applies(g meshgraph.MeshGraph, center meshgraph.NodeID) bool

	// Apply rewrites the mesh if the rule matches and reports whether it
	// fired. On a false return the mesh is unchanged.
	Apply(g meshgraph.MeshGraph, center meshgraph.NodeID) bool
}

// Names returns the production names in numeric order, for stable
// reporting.
func Names() []string {
	return []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7"}
}

// All returns the full rule family in application order. Promotion rules
// run before bisection rules so existing hanging nodes are consumed before
// new ones appear.
func All(geom Geometry) []Production {
	return []Production{
		P6{Geom: geom},
		P5{Geom: geom},
		P3{Geom: geom},
		P7{Geom: geom},
		P4{Geom: geom},
		P2{Geom: geom},
		P1{Geom: geom},
	}
}

// match is the canonical relabeling shared by all rules: (v1, v2) span the
// selected long edge, v3 is the opposite corner, and h1 is the hanging node
// on the long edge when the rule uses one.
type match struct {
	v1, v2, v3 meshgraph.NodeID
	h1         meshgraph.NodeID
}

// triangleEdges returns the corner pairs (c0,c1), (c1,c2), (c2,c0).
// The corner opposite edge i is corners[(i+2)%3].
func triangleEdges(corners [3]meshgraph.NodeID) [3][2]meshgraph.NodeID {
	return [3][2]meshgraph.NodeID{
		{corners[0], corners[1]},
		{corners[1], corners[2]},
		{corners[2], corners[0]},
	}
}

// hangingOn returns the hanging node bisecting edge (a, b), rejecting the
// degenerate case where the recorded node coincides with an endpoint.
func hangingOn(g meshgraph.MeshGraph, a, b meshgraph.NodeID) (meshgraph.NodeID, bool) {
	h, ok := g.HangingNodeBetween(a, b)
	if !ok || h == a || h == b {
		return meshgraph.InvalidNode, false
	}
	return h, true
}

// hangingPattern returns the per-edge hanging nodes for the triangle and
// how many edges carry one.
func hangingPattern(g meshgraph.MeshGraph, corners [3]meshgraph.NodeID) (hang [3]meshgraph.NodeID, count int) {
	for i, e := range triangleEdges(corners) {
		hang[i] = meshgraph.InvalidNode
		if h, ok := hangingOn(g, e[0], e[1]); ok {
			hang[i] = h
			count++
		}
	}
	return hang, count
}

// longestEdgeIndex returns the index of the (weakly) longest edge by direct
// corner-to-corner distance. Ties break toward the lowest index, keeping
// selection deterministic across repeated calls.
func longestEdgeIndex(geom Geometry, g meshgraph.MeshGraph, corners [3]meshgraph.NodeID) int {
	edges := triangleEdges(corners)
	best, bestLen := 0, geom.Distance(g, edges[0][0], edges[0][1])
	for i := 1; i < 3; i++ {
		if l := geom.Distance(g, edges[i][0], edges[i][1]); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// relabel builds the canonical match for edge index i of the triangle.
func relabel(corners [3]meshgraph.NodeID, hang [3]meshgraph.NodeID, i int) match {
	edges := triangleEdges(corners)
	return match{
		v1: edges[i][0],
		v2: edges[i][1],
		v3: corners[(i+2)%3],
		h1: hang[i],
	}
}

// splitLength measures a bisected edge through its hanging node, as the sum
// of the two half-edge lengths.
func splitLength(geom Geometry, g meshgraph.MeshGraph, a, b, h meshgraph.NodeID) float64 {
	return geom.Distance(g, a, h) + geom.Distance(g, b, h)
}

// confirmLongest reports whether edge (m.v1, m.v2) is weakly the longest
// edge of the triangle by direct corner-to-corner distance.
func confirmLongest(geom Geometry, g meshgraph.MeshGraph, m match) bool {
	l12 := geom.Distance(g, m.v1, m.v2)
	return l12 >= geom.Distance(g, m.v2, m.v3) && l12 >= geom.Distance(g, m.v3, m.v1)
}

func addEdge(g meshgraph.MeshGraph, a, b meshgraph.NodeID) {
	if err := g.AddEdge(a, b); err != nil {
		panic(err)
	}
}

// bisectThrough splits the triangle along the segment from the hanging node
// m.h1 to the opposite corner, promoting m.h1 to a full vertex. Used by the
// promotion rules P3, P5 and P6.
func bisectThrough(g meshgraph.MeshGraph, center meshgraph.NodeID, m match) {
	g.UnsetHanging(m.h1)
	addEdge(g, m.h1, m.v3)
	g.AddInterior(m.v1, m.h1, m.v3)
	g.AddInterior(m.h1, m.v2, m.v3)
	g.RemoveNode(center)
}

// bisectEdge splits the triangle by inserting a midpoint node on the whole
// edge (m.v1, m.v2): a full vertex when the edge is on the mesh boundary
// (there is no neighbor to keep conforming), a hanging node otherwise. The
// midpoint inherits the mean of the endpoint values. Used by the bisection
// rules P1, P2, P4 and P7.
func bisectEdge(geom Geometry, g meshgraph.MeshGraph, center meshgraph.NodeID, m match) {
	mid := geom.Midpoint(g, m.v1, m.v2)
	value := (g.Value(m.v1) + g.Value(m.v2)) / 2
	boundary := g.IsBoundary(m.v1, m.v2)
	g.RemoveEdge(m.v1, m.v2)

	var n meshgraph.NodeID
	if boundary {
		n = g.AddVertex(mid, value)
		addEdge(g, m.v1, n)
		addEdge(g, n, m.v2)
		g.SetBoundary(m.v1, n, true)
		g.SetBoundary(n, m.v2, true)
	} else {
		n = g.AddHanging(m.v1, m.v2, mid)
		g.SetValue(n, value)
	}

	addEdge(g, n, m.v3)
	g.AddInterior(m.v1, n, m.v3)
	g.AddInterior(n, m.v2, m.v3)
	g.RemoveNode(center)
}
