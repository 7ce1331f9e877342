package production

import (
	"math"

	"github.com/golang/geo/s2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// Geometry supplies the distance metric and midpoint construction used by
// productions. Injecting it keeps the rules variant-agnostic: the same
// production splits flat and spherical meshes, differing only in how edge
// lengths are compared and where bisection nodes land.
type Geometry interface {
	// Distance returns the separation between two mesh nodes.
	Distance(g meshgraph.MeshGraph, a, b meshgraph.NodeID) float64

	// Midpoint returns the Cartesian position for a node bisecting the edge
	// between a and b.
	Midpoint(g meshgraph.MeshGraph, a, b meshgraph.NodeID) r3.Vec
}

// ForGraph selects the geometry matching the mesh variant. With useUV set,
// distances are compared in the variant's 2D projection: great-circle for
// spherical meshes, planar for flat ones. Without it, straight-line
// Cartesian distance is used for either variant.
func ForGraph(g meshgraph.MeshGraph, useUV bool) Geometry {
	if !useUV {
		return Cartesian{}
	}
	if _, ok := g.(*meshgraph.SphereGraph); ok {
		return GreatCircle{}
	}
	return Plane{}
}

// Cartesian measures straight-line 3D distance and places midpoints halfway
// along the chord.
type Cartesian struct{}

// Distance returns the Euclidean distance between the nodes' Cartesian
// positions.
func (Cartesian) Distance(g meshgraph.MeshGraph, a, b meshgraph.NodeID) float64 {
	return r3.Norm(r3.Sub(g.Cartesian(a), g.Cartesian(b)))
}

// Midpoint returns the Cartesian average of the two positions.
func (Cartesian) Midpoint(g meshgraph.MeshGraph, a, b meshgraph.NodeID) r3.Vec {
	return r3.Scale(0.5, r3.Add(g.Cartesian(a), g.Cartesian(b)))
}

// Plane measures distance in the flat 2D projection, ignoring elevation.
type Plane struct{}

// Distance returns the planar Euclidean distance between Coords2D positions.
func (Plane) Distance(g meshgraph.MeshGraph, a, b meshgraph.NodeID) float64 {
	ax, ay := g.Coords2D(a)
	bx, by := g.Coords2D(b)
	return math.Hypot(ax-bx, ay-by)
}

// Midpoint returns the Cartesian average, so elevation is interpolated
// along with the planar position.
func (Plane) Midpoint(g meshgraph.MeshGraph, a, b meshgraph.NodeID) r3.Vec {
	return r3.Scale(0.5, r3.Add(g.Cartesian(a), g.Cartesian(b)))
}

// GreatCircle measures geodesic distance on a spherical mesh and places
// midpoints on the great-circle arc at the mean elevation of the endpoints.
// It only operates on [meshgraph.SphereGraph] instances and panics when
// handed any other variant.
type GreatCircle struct{}

func (GreatCircle) sphere(g meshgraph.MeshGraph) *meshgraph.SphereGraph {
	sg, ok := g.(*meshgraph.SphereGraph)
	if !ok {
		panic("production: great-circle geometry requires a spherical mesh")
	}
	return sg
}

func latLng(g meshgraph.MeshGraph, id meshgraph.NodeID) s2.LatLng {
	lat, lon := g.Coords2D(id)
	return s2.LatLngFromDegrees(lat, lon)
}

// Distance returns the great-circle arc length between the two nodes on the
// nominal sphere.
func (gc GreatCircle) Distance(g meshgraph.MeshGraph, a, b meshgraph.NodeID) float64 {
	sg := gc.sphere(g)
	return latLng(g, a).Distance(latLng(g, b)).Radians() * sg.Radius()
}

// Midpoint interpolates halfway along the great-circle arc and lifts the
// point to the mean elevation of the endpoints.
func (gc GreatCircle) Midpoint(g meshgraph.MeshGraph, a, b meshgraph.NodeID) r3.Vec {
	sg := gc.sphere(g)
	mid := s2.Interpolate(0.5, s2.PointFromLatLng(latLng(g, a)), s2.PointFromLatLng(latLng(g, b)))
	radius := sg.Radius() + (sg.Elevation(a)+sg.Elevation(b))/2
	return r3.Scale(radius, r3.Vec{X: mid.X, Y: mid.Y, Z: mid.Z})
}
