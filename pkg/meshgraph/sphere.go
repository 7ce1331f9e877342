package meshgraph

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/geom"
)

// SphereGraph is a mesh embedded on a sphere. Vertices carry both Cartesian
// coordinates and a geographic (lat, lon, elevation) representation relative
// to the sphere's radius. The two representations are kept mutually
// consistent: any mutation of one triggers recomputation of the other.
type SphereGraph struct {
	*Graph
	radius float64
}

var _ MeshGraph = (*SphereGraph)(nil)

// NewSphere creates an empty spherical mesh graph with the given nominal
// radius. The radius is scaled alongside vertex coordinates by [SphereGraph.Scale].
func NewSphere(radius float64) *SphereGraph {
	return &SphereGraph{Graph: newGraph(), radius: radius}
}

// Radius returns the nominal sphere radius.
func (g *SphereGraph) Radius() float64 { return g.radius }

// AddVertex adds a true vertex at the given Cartesian position and derives
// its geographic representation.
func (g *SphereGraph) AddVertex(p r3.Vec, value float64) NodeID {
	id := g.newNode(KindVertex)
	g.nodes[id].xyz = p
	g.nodes[id].value = value
	g.recalculateSpherical(id)
	return id
}

// AddVertexGeo adds a true vertex from geographic coordinates. The latitude
// is validated against [-90, 90] and the longitude against being finite
// before any mutation; a bad value returns an error wrapping
// [ErrLatitudeRange] or [ErrLongitudeRange] and leaves the graph unchanged.
// The longitude is normalized into (-180, 180].
func (g *SphereGraph) AddVertexGeo(lat, lon, elevation, value float64) (NodeID, error) {
	if err := geom.CheckLat(lat); err != nil {
		return InvalidNode, fmt.Errorf("add vertex: %w", err)
	}
	if err := geom.CheckLon(lon); err != nil {
		return InvalidNode, fmt.Errorf("add vertex: %w", err)
	}
	id := g.newNode(KindVertex)
	n := &g.nodes[id]
	n.lat = lat
	n.lon = geom.NormalizeLon(lon)
	n.elevation = elevation
	n.value = value
	g.recalculateCartesian(id)
	return id, nil
}

// AddHanging adds a hanging node between two parent vertices at the given
// Cartesian position and derives its geographic representation.
func (g *SphereGraph) AddHanging(parentA, parentB NodeID, p r3.Vec) NodeID {
	id := g.addHanging(parentA, parentB)
	g.nodes[id].xyz = p
	g.recalculateSpherical(id)
	return id
}

// Elevation returns the height above the nominal sphere.
func (g *SphereGraph) Elevation(id NodeID) float64 { return g.node(id).elevation }

// SetElevation sets the height above the nominal sphere and recomputes the
// Cartesian coordinates, keeping the two representations consistent.
func (g *SphereGraph) SetElevation(id NodeID, elevation float64) {
	g.node(id).elevation = elevation
	g.recalculateCartesian(id)
}

// Coords2D returns the geographic (lat, lon) position.
func (g *SphereGraph) Coords2D(id NodeID) (float64, float64) {
	n := g.node(id)
	return n.lat, n.lon
}

// ValueCartesian returns the Cartesian position with the node's scalar value
// applied as an additional radius perturbation.
func (g *SphereGraph) ValueCartesian(id NodeID) r3.Vec {
	n := g.node(id)
	return geom.SphericalToCartesian(g.radius+n.elevation+n.value, n.lat, n.lon)
}

// Scale multiplies the Cartesian coordinates of every true vertex and the
// sphere radius by scale, then recomputes the geographic representation
// node by node inside the loop so the consistency invariant holds for every
// coordinate-bearing node before Scale returns.
func (g *SphereGraph) Scale(scale float64) {
	g.radius *= scale
	for i := range g.nodes {
		n := &g.nodes[i]
		if !n.alive || n.kind == KindInterior {
			continue
		}
		if n.kind == KindVertex {
			n.xyz = r3.Scale(scale, n.xyz)
		}
		g.recalculateSpherical(NodeID(i))
	}
}

// recalculateSpherical derives (lat, lon, elevation) from the node's
// Cartesian coordinates and the current radius.
func (g *SphereGraph) recalculateSpherical(id NodeID) {
	n := g.node(id)
	r, lat, lon := geom.CartesianToSpherical(n.xyz)
	n.lat = lat
	n.lon = lon
	n.elevation = r - g.radius
}

// recalculateCartesian derives Cartesian coordinates from the node's
// geographic representation and the current radius.
func (g *SphereGraph) recalculateCartesian(id NodeID) {
	n := g.node(id)
	n.xyz = geom.SphericalToCartesian(g.radius+n.elevation, n.lat, n.lon)
}
