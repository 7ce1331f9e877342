package meshgraph

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// metadata keys used by the refinement engine.
const (
	metaRefine   = "refine"   // interior: marked for refinement
	metaBoundary = "boundary" // edge: lies on the mesh boundary
)

// node is one arena slot. Geometry fields beyond xyz are only meaningful for
// the variant that owns the graph (lat/lon/elevation on the sphere).
type node struct {
	kind  NodeKind
	alive bool

	xyz   r3.Vec
	value float64

	// Spherical attributes, maintained by SphereGraph only.
	lat, lon  float64
	elevation float64

	// Parent pair for hanging nodes.
	parents [2]NodeID

	meta Metadata
}

type edgeKey struct{ a, b NodeID }

func keyFor(a, b NodeID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Graph is the shared topology core embedded by [FlatGraph] and
// [SphereGraph]. Nodes live in an arena indexed by [NodeID]; removal
// tombstones the slot so IDs are never reused within a refinement session.
//
// Methods that take a NodeID panic when the ID does not name a live node of
// the expected kind. Such a call is a programmer error or graph corruption,
// not an expected failure path, and must not be silently tolerated.
type Graph struct {
	nodes []node
	edges map[edgeKey]Metadata
	adj   map[NodeID][]NodeID

	vertexCount   int
	interiorCount int
	hangingCount  int
}

func newGraph() *Graph {
	return &Graph{
		edges: make(map[edgeKey]Metadata),
		adj:   make(map[NodeID][]NodeID),
	}
}

// VertexCount returns the number of live true vertices.
func (g *Graph) VertexCount() int { return g.vertexCount }

// InteriorCount returns the number of live triangle records.
func (g *Graph) InteriorCount() int { return g.interiorCount }

// HangingCount returns the number of live hanging nodes.
func (g *Graph) HangingCount() int { return g.hangingCount }

// Has reports whether id names a live node.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes) && g.nodes[id].alive
}

// node returns the live arena slot for id, panicking otherwise.
func (g *Graph) node(id NodeID) *node {
	if !g.Has(id) {
		panic(fmt.Sprintf("meshgraph: no live node %d", id))
	}
	return &g.nodes[id]
}

// newNode appends an arena slot of the given kind and adjusts the matching
// counter. Returns the new, previously-unused ID.
func (g *Graph) newNode(kind NodeKind) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, node{
		kind:    kind,
		alive:   true,
		parents: [2]NodeID{InvalidNode, InvalidNode},
		meta:    Metadata{},
	})
	g.bumpCount(kind, 1)
	return id
}

func (g *Graph) bumpCount(kind NodeKind, delta int) {
	switch kind {
	case KindVertex:
		g.vertexCount += delta
	case KindInterior:
		g.interiorCount += delta
	case KindHanging:
		g.hangingCount += delta
	}
}

// Kind returns the node kind.
func (g *Graph) Kind(id NodeID) NodeKind { return g.node(id).kind }

// Meta returns the node's metadata map. The map is never nil and writes to
// it are visible to the graph.
func (g *Graph) Meta(id NodeID) Metadata { return g.node(id).meta }

// Value returns the scalar field value carried by a vertex or hanging node.
func (g *Graph) Value(id NodeID) float64 { return g.node(id).value }

// SetValue sets the scalar field value.
func (g *Graph) SetValue(id NodeID, value float64) { g.node(id).value = value }

// Nodes returns the IDs of all live nodes in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for i := range g.nodes {
		if g.nodes[i].alive {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// AddEdge connects two live nodes. Returns ErrUnknownNode if either endpoint
// is dead or out of range, or ErrDuplicateEdge if the edge already exists.
func (g *Graph) AddEdge(a, b NodeID) error {
	if !g.Has(a) || !g.Has(b) {
		return fmt.Errorf("%w: edge (%d, %d)", ErrUnknownNode, a, b)
	}
	key := keyFor(a, b)
	if _, exists := g.edges[key]; exists {
		return fmt.Errorf("%w: (%d, %d)", ErrDuplicateEdge, a, b)
	}
	g.edges[key] = Metadata{}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	return nil
}

// RemoveEdge removes the edge between a and b if it exists.
func (g *Graph) RemoveEdge(a, b NodeID) {
	key := keyFor(a, b)
	if _, exists := g.edges[key]; !exists {
		return
	}
	delete(g.edges, key)
	g.adj[a] = slices.DeleteFunc(g.adj[a], func(n NodeID) bool { return n == b })
	g.adj[b] = slices.DeleteFunc(g.adj[b], func(n NodeID) bool { return n == a })
}

// HasEdge reports whether a and b are connected.
func (g *Graph) HasEdge(a, b NodeID) bool {
	_, exists := g.edges[keyFor(a, b)]
	return exists
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns all edges as (low, high) ID pairs in deterministic order.
func (g *Graph) Edges() [][2]NodeID {
	out := make([][2]NodeID, 0, len(g.edges))
	for key := range g.edges {
		out = append(out, [2]NodeID{key.a, key.b})
	}
	slices.SortFunc(out, func(x, y [2]NodeID) int {
		if x[0] != y[0] {
			return int(x[0] - y[0])
		}
		return int(x[1] - y[1])
	})
	return out
}

func (g *Graph) edgeMeta(a, b NodeID) Metadata {
	meta, exists := g.edges[keyFor(a, b)]
	if !exists {
		panic(fmt.Sprintf("meshgraph: no edge (%d, %d)", a, b))
	}
	return meta
}

// SetBoundary flags the edge between a and b as a mesh boundary edge.
// Boundary edges have no neighboring triangle, so bisecting them never
// leaves a hanging node behind.
func (g *Graph) SetBoundary(a, b NodeID, boundary bool) {
	g.edgeMeta(a, b)[metaBoundary] = boundary
}

// IsBoundary reports whether the edge between a and b is a boundary edge.
// Returns false for edges never flagged.
func (g *Graph) IsBoundary(a, b NodeID) bool {
	v, _ := g.edgeMeta(a, b)[metaBoundary].(bool)
	return v
}

// Neighbors returns the IDs adjacent to id. The returned slice is a
// read-only view; callers must not modify it.
func (g *Graph) Neighbors(id NodeID) []NodeID { return g.adj[id] }

// AddInterior creates a triangle record over three corner vertices and
// connects it to them. The corners must be live vertex or hanging nodes.
func (g *Graph) AddInterior(a, b, c NodeID) NodeID {
	for _, corner := range [3]NodeID{a, b, c} {
		if g.node(corner).kind == KindInterior {
			panic(fmt.Sprintf("meshgraph: interior corner %d is itself an interior", corner))
		}
	}
	id := g.newNode(KindInterior)
	for _, corner := range [3]NodeID{a, b, c} {
		if err := g.AddEdge(id, corner); err != nil {
			panic(err)
		}
	}
	return id
}

// Interiors returns the IDs of all live triangle records in ascending order.
func (g *Graph) Interiors() []NodeID {
	var ids []NodeID
	for i := range g.nodes {
		if g.nodes[i].alive && g.nodes[i].kind == KindInterior {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// IsInterior reports whether id names a live triangle record.
func (g *Graph) IsInterior(id NodeID) bool {
	return g.Has(id) && g.nodes[id].kind == KindInterior
}

// InteriorVertices returns the three corners of a triangle record.
// Panics if id is not an interior or is not connected to exactly three
// corners; either indicates graph corruption.
func (g *Graph) InteriorVertices(id NodeID) [3]NodeID {
	if g.node(id).kind != KindInterior {
		panic(fmt.Sprintf("meshgraph: node %d is %s, not interior", id, g.nodes[id].kind))
	}
	nbs := g.adj[id]
	if len(nbs) != 3 {
		panic(fmt.Sprintf("meshgraph: interior %d has %d corners, want 3", id, len(nbs)))
	}
	return [3]NodeID{nbs[0], nbs[1], nbs[2]}
}

// HangingNodeBetween returns the hanging node whose parent pair is {a, b},
// or (InvalidNode, false) when the edge has not been bisected. The search is
// over neighbors of a, so it is O(degree).
func (g *Graph) HangingNodeBetween(a, b NodeID) (NodeID, bool) {
	for _, nb := range g.adj[a] {
		if g.node(nb).kind != KindHanging {
			continue
		}
		pa, pb := g.HangingParents(nb)
		if (pa == a && pb == b) || (pa == b && pb == a) {
			return nb, true
		}
	}
	return InvalidNode, false
}

// HangingParents returns the two vertices a hanging node sits between.
// Panics if id is not a hanging node or its parent pair was never recorded;
// a hanging node without parents is a hard invariant violation.
func (g *Graph) HangingParents(id NodeID) (NodeID, NodeID) {
	n := g.node(id)
	if n.kind != KindHanging {
		panic(fmt.Sprintf("meshgraph: node %d is %s, not hanging", id, n.kind))
	}
	if n.parents[0] == InvalidNode || n.parents[1] == InvalidNode {
		panic(fmt.Sprintf("meshgraph: hanging node %d has no parent pair", id))
	}
	return n.parents[0], n.parents[1]
}

// UnsetHanging promotes a hanging node to a full vertex, clearing its parent
// pair and moving it between the hanging and vertex counters.
func (g *Graph) UnsetHanging(id NodeID) {
	n := g.node(id)
	if n.kind != KindHanging {
		panic(fmt.Sprintf("meshgraph: node %d is %s, not hanging", id, n.kind))
	}
	n.kind = KindVertex
	n.parents = [2]NodeID{InvalidNode, InvalidNode}
	g.hangingCount--
	g.vertexCount++
}

// RemoveNode tombstones a node and removes all incident edges.
// The ID is never reused.
func (g *Graph) RemoveNode(id NodeID) {
	n := g.node(id)
	for _, nb := range slices.Clone(g.adj[id]) {
		g.RemoveEdge(id, nb)
	}
	delete(g.adj, id)
	g.bumpCount(n.kind, -1)
	n.alive = false
}

// MarkRefine marks a triangle record for refinement. Productions P1, P2 and
// P4 fire only on marked triangles.
func (g *Graph) MarkRefine(id NodeID) {
	if g.node(id).kind != KindInterior {
		panic(fmt.Sprintf("meshgraph: refine mark on non-interior node %d", id))
	}
	g.nodes[id].meta[metaRefine] = true
}

// Marked reports whether a triangle record is marked for refinement.
func (g *Graph) Marked(id NodeID) bool {
	v, _ := g.node(id).meta[metaRefine].(bool)
	return v
}

// ClearRefine removes the refinement mark.
func (g *Graph) ClearRefine(id NodeID) {
	delete(g.node(id).meta, metaRefine)
}

// Cartesian returns the Cartesian coordinates of a vertex or hanging node.
func (g *Graph) Cartesian(id NodeID) r3.Vec { return g.node(id).xyz }

// addHanging creates the topology half of a hanging node: the arena slot,
// the parent pair, and edges to both parents. Variants add geometry on top.
func (g *Graph) addHanging(parentA, parentB NodeID) NodeID {
	if g.node(parentA).kind == KindInterior || g.node(parentB).kind == KindInterior {
		panic(fmt.Sprintf("meshgraph: hanging parents (%d, %d) must be vertices", parentA, parentB))
	}
	id := g.newNode(KindHanging)
	g.nodes[id].parents = [2]NodeID{parentA, parentB}
	for _, p := range [2]NodeID{parentA, parentB} {
		if err := g.AddEdge(id, p); err != nil {
			panic(err)
		}
	}
	return id
}
