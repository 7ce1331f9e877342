// Package manifest loads TOML mesh descriptions and builds mesh graphs
// from them.
//
// A manifest names the mesh variant, the vertices with their coordinates,
// and the triangles over vertex indices:
//
//	variant = "sphere"
//	radius = 6371000.0
//
//	[[vertices]]
//	coords = [52.2, 21.0]   # lat, lon on a sphere; x, y on a flat mesh
//	elevation = 110.0
//	value = 4.5
//
//	[[triangles]]
//	corners = [0, 1, 2]
//	refine = true
//
// Edges are derived from triangle incidence, and an edge used by exactly
// one triangle is flagged as a mesh boundary edge.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// ErrInvalidManifest is returned by [Manifest.Build] and the loaders for
// structurally invalid manifests: unknown variants, malformed coordinate
// tuples, or triangle corners out of range.
var ErrInvalidManifest = errors.New("invalid mesh manifest")

// Manifest is a declarative mesh description.
type Manifest struct {
	Variant   string     `toml:"variant"`
	Radius    float64    `toml:"radius"`
	Vertices  []Vertex   `toml:"vertices"`
	Triangles []Triangle `toml:"triangles"`
}

// Vertex declares one mesh vertex. Coords is (x, y) for a flat mesh and
// (lat, lon) for a spherical one.
type Vertex struct {
	Coords    []float64 `toml:"coords"`
	Elevation float64   `toml:"elevation"`
	Value     float64   `toml:"value"`
}

// Triangle declares one triangle over vertex indices, optionally marked for
// refinement.
type Triangle struct {
	Corners []int `toml:"corners"`
	Refine  bool  `toml:"refine"`
}

// Load reads a manifest from a TOML file.
func Load(path string) (Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a manifest from TOML text.
func Parse(r io.Reader) (Manifest, error) {
	var m Manifest
	if _, err := toml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// Build constructs a mesh graph from the manifest: vertices first, then
// triangle records with their corner edges, then boundary flags on every
// edge used by exactly one triangle.
func (m Manifest) Build() (meshgraph.MeshGraph, error) {
	g, addVertex, err := m.newGraph()
	if err != nil {
		return nil, err
	}

	ids := make([]meshgraph.NodeID, len(m.Vertices))
	for i, v := range m.Vertices {
		if len(v.Coords) != 2 {
			return nil, fmt.Errorf("%w: vertex %d has %d coordinates, want 2", ErrInvalidManifest, i, len(v.Coords))
		}
		id, err := addVertex(v)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		ids[i] = id
	}

	incidence := make(map[[2]meshgraph.NodeID]int)
	for ti, tri := range m.Triangles {
		if len(tri.Corners) != 3 {
			return nil, fmt.Errorf("%w: triangle %d has %d corners, want 3", ErrInvalidManifest, ti, len(tri.Corners))
		}
		var corners [3]meshgraph.NodeID
		for i, c := range tri.Corners {
			if c < 0 || c >= len(ids) {
				return nil, fmt.Errorf("%w: triangle %d corner %d out of range", ErrInvalidManifest, ti, c)
			}
			corners[i] = ids[c]
		}
		for i := 0; i < 3; i++ {
			a, b := corners[i], corners[(i+1)%3]
			if a == b {
				return nil, fmt.Errorf("%w: triangle %d repeats corner %d", ErrInvalidManifest, ti, a)
			}
			if !g.HasEdge(a, b) {
				if err := g.AddEdge(a, b); err != nil {
					return nil, fmt.Errorf("triangle %d: %w", ti, err)
				}
			}
			incidence[edgeKey(a, b)]++
		}
		in := g.AddInterior(corners[0], corners[1], corners[2])
		if tri.Refine {
			g.MarkRefine(in)
		}
	}

	for key, n := range incidence {
		if n == 1 {
			g.SetBoundary(key[0], key[1], true)
		}
	}
	return g, nil
}

func edgeKey(a, b meshgraph.NodeID) [2]meshgraph.NodeID {
	if a > b {
		a, b = b, a
	}
	return [2]meshgraph.NodeID{a, b}
}

// newGraph creates the empty variant graph and a vertex-adding closure
// matching its coordinate convention.
func (m Manifest) newGraph() (meshgraph.MeshGraph, func(Vertex) (meshgraph.NodeID, error), error) {
	switch m.Variant {
	case meshgraph.VariantFlat:
		g := meshgraph.NewFlat()
		return g, func(v Vertex) (meshgraph.NodeID, error) {
			return g.AddVertex2D(v.Coords[0], v.Coords[1], v.Elevation, v.Value), nil
		}, nil
	case meshgraph.VariantSphere:
		if m.Radius <= 0 {
			return nil, nil, fmt.Errorf("%w: sphere mesh needs a positive radius", ErrInvalidManifest)
		}
		g := meshgraph.NewSphere(m.Radius)
		return g, func(v Vertex) (meshgraph.NodeID, error) {
			return g.AddVertexGeo(v.Coords[0], v.Coords[1], v.Elevation, v.Value)
		}, nil
	default:
		return nil, nil, fmt.Errorf("%w: variant %q", ErrInvalidManifest, m.Variant)
	}
}
