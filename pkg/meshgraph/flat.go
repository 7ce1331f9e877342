package meshgraph

import "gonum.org/v1/gonum/spatial/r3"

// FlatGraph is a mesh embedded in the plane. Vertices carry 3D Cartesian
// coordinates where X and Y are the planar position and Z is an elevation
// free to be set independently.
type FlatGraph struct {
	*Graph
}

var _ MeshGraph = (*FlatGraph)(nil)

// NewFlat creates an empty flat mesh graph.
func NewFlat() *FlatGraph {
	return &FlatGraph{Graph: newGraph()}
}

// AddVertex adds a true vertex at the given Cartesian position and returns
// its ID.
func (g *FlatGraph) AddVertex(p r3.Vec, value float64) NodeID {
	id := g.newNode(KindVertex)
	g.nodes[id].xyz = p
	g.nodes[id].value = value
	return id
}

// AddVertex2D adds a true vertex from a planar position and an elevation,
// merged into the 3D Cartesian representation.
func (g *FlatGraph) AddVertex2D(x, y, elevation, value float64) NodeID {
	return g.AddVertex(r3.Vec{X: x, Y: y, Z: elevation}, value)
}

// AddHanging adds a hanging node between two parent vertices at the given
// Cartesian position, connected to both parents.
func (g *FlatGraph) AddHanging(parentA, parentB NodeID, p r3.Vec) NodeID {
	id := g.addHanging(parentA, parentB)
	g.nodes[id].xyz = p
	return id
}

// Elevation returns the vertex's Z coordinate.
func (g *FlatGraph) Elevation(id NodeID) float64 { return g.node(id).xyz.Z }

// SetElevation sets the vertex's Z coordinate.
func (g *FlatGraph) SetElevation(id NodeID, elevation float64) {
	g.node(id).xyz.Z = elevation
}

// Coords2D returns the planar (x, y) position.
func (g *FlatGraph) Coords2D(id NodeID) (float64, float64) {
	n := g.node(id)
	return n.xyz.X, n.xyz.Y
}

// ValueCartesian returns the vertex position offset along Z by its scalar
// value, for measuring the carried field as elevation.
func (g *FlatGraph) ValueCartesian(id NodeID) r3.Vec {
	n := g.node(id)
	return r3.Add(n.xyz, r3.Vec{Z: n.value})
}

// Scale multiplies the Cartesian coordinates of every true vertex by scale.
// Hanging nodes keep their coordinates; they are repositioned when a
// production promotes or rebuilds them.
func (g *FlatGraph) Scale(scale float64) {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.alive && n.kind == KindVertex {
			n.xyz = r3.Scale(scale, n.xyz)
		}
	}
}
