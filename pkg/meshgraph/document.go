package meshgraph

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/geom"
)

// Mesh variant names used in documents and manifests.
const (
	VariantFlat   = "flat"
	VariantSphere = "sphere"
)

var (
	// ErrUnknownVariant is returned by [Decode] for a document whose kind is
	// neither "flat" nor "sphere".
	ErrUnknownVariant = errors.New("unknown mesh variant")

	// ErrMalformedDocument is returned by [Decode] when a document violates
	// structural constraints (bad node kinds, dangling edge endpoints,
	// hanging nodes without a parent pair).
	ErrMalformedDocument = errors.New("malformed mesh document")
)

// Document is a serializable snapshot of a mesh graph, used by the snapshot
// store, the HTTP API, and the CLI. Node IDs are preserved across an
// encode/decode round trip, including tombstoned gaps left by removals.
type Document struct {
	Variant string    `json:"variant"`
	Radius  float64   `json:"radius,omitempty"`
	Nodes   []NodeDoc `json:"nodes"`
	Edges   []EdgeDoc `json:"edges"`
}

// NodeDoc is one node in a mesh document.
type NodeDoc struct {
	ID        int        `json:"id"`
	Kind      string     `json:"kind"`
	XYZ       [3]float64 `json:"xyz"`
	Lat       float64    `json:"lat,omitempty"`
	Lon       float64    `json:"lon,omitempty"`
	Elevation float64    `json:"elevation,omitempty"`
	Value     float64    `json:"value,omitempty"`
	Parents   []int      `json:"parents,omitempty"`
	Refine    bool       `json:"refine,omitempty"`
}

// EdgeDoc is one edge in a mesh document.
type EdgeDoc struct {
	A        int  `json:"a"`
	B        int  `json:"b"`
	Boundary bool `json:"boundary,omitempty"`
}

// Encode snapshots a mesh graph into a Document.
func Encode(g MeshGraph) Document {
	doc := Document{Variant: VariantFlat}
	var base *Graph
	switch mg := g.(type) {
	case *FlatGraph:
		base = mg.Graph
	case *SphereGraph:
		doc.Variant = VariantSphere
		doc.Radius = mg.radius
		base = mg.Graph
	default:
		panic(fmt.Sprintf("meshgraph: cannot encode %T", g))
	}

	for _, id := range base.Nodes() {
		n := &base.nodes[id]
		nd := NodeDoc{
			ID:    int(id),
			Kind:  n.kind.String(),
			XYZ:   [3]float64{n.xyz.X, n.xyz.Y, n.xyz.Z},
			Value: n.value,
		}
		if doc.Variant == VariantSphere && n.kind != KindInterior {
			nd.Lat = n.lat
			nd.Lon = n.lon
			nd.Elevation = n.elevation
		}
		if n.kind == KindHanging {
			pa, pb := base.HangingParents(id)
			nd.Parents = []int{int(pa), int(pb)}
		}
		if n.kind == KindInterior {
			nd.Refine = base.Marked(id)
		}
		doc.Nodes = append(doc.Nodes, nd)
	}

	for _, e := range base.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{
			A:        int(e[0]),
			B:        int(e[1]),
			Boundary: base.IsBoundary(e[0], e[1]),
		})
	}
	return doc
}

// Decode rebuilds a mesh graph from a Document, preserving node IDs.
// Returns ErrUnknownVariant or an error wrapping ErrMalformedDocument when
// the document cannot describe a valid mesh.
//
// Sphere documents are held to the same geographic constraints as
// [SphereGraph.AddVertexGeo]: latitude must lie in [-90, 90] and longitude
// must be finite (it is normalized into (-180, 180]). Cartesian coordinates
// of sphere nodes are recomputed from the geographic attributes, so a
// document with stale xyz decodes into a consistent graph.
func Decode(doc Document) (MeshGraph, error) {
	var (
		out  MeshGraph
		base *Graph
		sg   *SphereGraph
	)
	switch doc.Variant {
	case VariantFlat:
		fg := NewFlat()
		out, base = fg, fg.Graph
	case VariantSphere:
		sg = NewSphere(doc.Radius)
		out, base = sg, sg.Graph
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, doc.Variant)
	}

	maxID := -1
	for _, nd := range doc.Nodes {
		if nd.ID < 0 {
			return nil, fmt.Errorf("%w: negative node ID %d", ErrMalformedDocument, nd.ID)
		}
		maxID = max(maxID, nd.ID)
	}
	base.nodes = make([]node, maxID+1)

	for _, nd := range doc.Nodes {
		slot := &base.nodes[nd.ID]
		if slot.alive {
			return nil, fmt.Errorf("%w: duplicate node ID %d", ErrMalformedDocument, nd.ID)
		}
		var kind NodeKind
		switch nd.Kind {
		case KindVertex.String():
			kind = KindVertex
		case KindInterior.String():
			kind = KindInterior
		case KindHanging.String():
			kind = KindHanging
		default:
			return nil, fmt.Errorf("%w: node %d has kind %q", ErrMalformedDocument, nd.ID, nd.Kind)
		}
		lat, lon := nd.Lat, nd.Lon
		if sg != nil && kind != KindInterior {
			if err := geom.CheckLat(lat); err != nil {
				return nil, fmt.Errorf("%w: node %d: %w", ErrMalformedDocument, nd.ID, err)
			}
			if err := geom.CheckLon(lon); err != nil {
				return nil, fmt.Errorf("%w: node %d: %w", ErrMalformedDocument, nd.ID, err)
			}
			lon = geom.NormalizeLon(lon)
		}
		*slot = node{
			kind:      kind,
			alive:     true,
			xyz:       r3.Vec{X: nd.XYZ[0], Y: nd.XYZ[1], Z: nd.XYZ[2]},
			value:     nd.Value,
			lat:       lat,
			lon:       lon,
			elevation: nd.Elevation,
			parents:   [2]NodeID{InvalidNode, InvalidNode},
			meta:      Metadata{},
		}
		base.bumpCount(kind, 1)
		if sg != nil && kind != KindInterior {
			sg.recalculateCartesian(NodeID(nd.ID))
		}
		if kind == KindHanging {
			if len(nd.Parents) != 2 {
				return nil, fmt.Errorf("%w: hanging node %d has %d parents, want 2", ErrMalformedDocument, nd.ID, len(nd.Parents))
			}
			slot.parents = [2]NodeID{NodeID(nd.Parents[0]), NodeID(nd.Parents[1])}
		}
		if kind == KindInterior && nd.Refine {
			slot.meta[metaRefine] = true
		}
	}

	for _, ed := range doc.Edges {
		if err := base.AddEdge(NodeID(ed.A), NodeID(ed.B)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		if ed.Boundary {
			base.SetBoundary(NodeID(ed.A), NodeID(ed.B), true)
		}
	}

	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return out, nil
}
