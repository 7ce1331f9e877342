// Package meshgraph implements the attributed topological graph underlying
// adaptive triangular mesh refinement.
//
// A mesh is stored as a single graph holding three kinds of nodes:
//
//   - [KindVertex]: a true mesh vertex carrying a geometric position and a
//     scalar field value
//   - [KindInterior]: a triangle record, connected by edges to its three
//     corner vertices
//   - [KindHanging]: a vertex introduced by edge bisection, sitting between
//     two parent vertices until a production promotes it
//
// Two concrete variants share the topology bookkeeping and differ only in
// coordinate representation: [FlatGraph] embeds the mesh in the plane (the
// third Cartesian component is a free elevation), while [SphereGraph] embeds
// it on a sphere of configurable radius, keeping Cartesian coordinates and
// geographic (lat, lon, elevation) attributes mutually consistent under
// every mutation.
//
// The graph is not safe for concurrent use; it is exclusively owned by the
// refinement driver that mutates it.
package meshgraph

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/geom"
)

var (
	// ErrLatitudeRange is returned by [SphereGraph.AddVertexGeo] when the
	// latitude falls outside [-90, 90]. The graph is left unchanged.
	ErrLatitudeRange = geom.ErrLatitudeRange

	// ErrLongitudeRange is returned by [SphereGraph.AddVertexGeo] for a NaN
	// or infinite longitude. The graph is left unchanged.
	ErrLongitudeRange = geom.ErrLongitudeRange

	// ErrUnknownNode is returned by [Graph.AddEdge] when an endpoint does
	// not name a live node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] when the edge already
	// exists. The mesh is a simple graph; parallel edges are never valid.
	ErrDuplicateEdge = errors.New("duplicate edge")
)

// NodeID identifies a node in a mesh graph. IDs are assigned sequentially
// and stay stable for the lifetime of the graph: removing a node tombstones
// its slot and the ID is never reused.
type NodeID int

// InvalidNode is the zero-value-adjacent sentinel for "no node".
const InvalidNode NodeID = -1

// NodeKind distinguishes the three kinds of mesh graph nodes.
type NodeKind uint8

const (
	// KindVertex is a true mesh vertex.
	KindVertex NodeKind = iota
	// KindInterior is a triangle record referencing three corner vertices.
	KindInterior
	// KindHanging is a bisection midpoint not yet promoted to a full vertex.
	KindHanging
)

// String returns the lowercase kind name.
func (k NodeKind) String() string {
	switch k {
	case KindVertex:
		return "vertex"
	case KindInterior:
		return "interior"
	case KindHanging:
		return "hanging"
	}
	return "unknown"
}

// Metadata stores arbitrary key-value pairs attached to nodes or edges.
// It is used for refinement marks on interiors and boundary flags on edges.
// Metadata maps are never nil once the owning node or edge exists.
type Metadata map[string]any

// MeshGraph is the capability set shared by the flat and spherical variants.
// Topology operations are implemented once by the embedded [Graph]; geometry
// operations dispatch per variant.
type MeshGraph interface {
	// Topology, variant-independent.
	VertexCount() int
	InteriorCount() int
	HangingCount() int
	Has(id NodeID) bool
	Kind(id NodeID) NodeKind
	Meta(id NodeID) Metadata
	Value(id NodeID) float64
	SetValue(id NodeID, value float64)
	Nodes() []NodeID
	AddEdge(a, b NodeID) error
	RemoveEdge(a, b NodeID)
	HasEdge(a, b NodeID) bool
	EdgeCount() int
	Edges() [][2]NodeID
	SetBoundary(a, b NodeID, boundary bool)
	IsBoundary(a, b NodeID) bool
	Neighbors(id NodeID) []NodeID
	AddInterior(a, b, c NodeID) NodeID
	Interiors() []NodeID
	IsInterior(id NodeID) bool
	InteriorVertices(id NodeID) [3]NodeID
	HangingNodeBetween(a, b NodeID) (NodeID, bool)
	HangingParents(id NodeID) (NodeID, NodeID)
	UnsetHanging(id NodeID)
	RemoveNode(id NodeID)
	MarkRefine(id NodeID)
	Marked(id NodeID) bool
	ClearRefine(id NodeID)

	// Geometry, per variant.
	AddVertex(p r3.Vec, value float64) NodeID
	AddHanging(parentA, parentB NodeID, p r3.Vec) NodeID
	Cartesian(id NodeID) r3.Vec
	Coords2D(id NodeID) (float64, float64)
	Elevation(id NodeID) float64
	SetElevation(id NodeID, elevation float64)
	ValueCartesian(id NodeID) r3.Vec
	Scale(scale float64)
}
