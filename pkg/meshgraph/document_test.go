package meshgraph

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/jkarwowski/terramesh/pkg/geom"
)

func buildSphereFixture(t *testing.T) *SphereGraph {
	t.Helper()
	g := NewSphere(10)
	a, err := g.AddVertexGeo(0, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := g.AddVertexGeo(0, 90, 0, 2)
	c, _ := g.AddVertexGeo(60, 45, 0, 3)
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, a)
	g.SetBoundary(a, b, true)
	in := g.AddInterior(a, b, c)
	g.MarkRefine(in)
	g.RemoveEdge(b, c)
	g.AddHanging(b, c, r3.Scale(0.5, r3.Add(g.Cartesian(b), g.Cartesian(c))))
	return g
}

func TestDocumentRoundTrip(t *testing.T) {
	g := buildSphereFixture(t)
	doc := Encode(g)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	decoded, err := Decode(back)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	sg, ok := decoded.(*SphereGraph)
	if !ok {
		t.Fatalf("Decode() returned %T, want *SphereGraph", decoded)
	}

	if sg.Radius() != g.Radius() {
		t.Errorf("Radius() = %v, want %v", sg.Radius(), g.Radius())
	}
	if sg.VertexCount() != g.VertexCount() || sg.InteriorCount() != g.InteriorCount() || sg.HangingCount() != g.HangingCount() {
		t.Errorf("counts = (%d, %d, %d), want (%d, %d, %d)",
			sg.VertexCount(), sg.InteriorCount(), sg.HangingCount(),
			g.VertexCount(), g.InteriorCount(), g.HangingCount())
	}
	if sg.EdgeCount() != g.EdgeCount() {
		t.Errorf("EdgeCount() = %d, want %d", sg.EdgeCount(), g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if !sg.HasEdge(e[0], e[1]) {
			t.Errorf("edge (%d, %d) missing after round trip", e[0], e[1])
		}
		if sg.IsBoundary(e[0], e[1]) != g.IsBoundary(e[0], e[1]) {
			t.Errorf("boundary flag mismatch on edge (%d, %d)", e[0], e[1])
		}
	}
	for _, id := range g.Nodes() {
		if sg.Kind(id) != g.Kind(id) {
			t.Errorf("node %d kind = %s, want %s", id, sg.Kind(id), g.Kind(id))
		}
		if !vecApproxEqual(sg.Cartesian(id), g.Cartesian(id)) {
			t.Errorf("node %d moved: %v, want %v", id, sg.Cartesian(id), g.Cartesian(id))
		}
	}
	for _, in := range g.Interiors() {
		if sg.Marked(in) != g.Marked(in) {
			t.Errorf("interior %d refine mark lost", in)
		}
	}
}

func TestDocumentRoundTrip_PreservesTombstonedIDs(t *testing.T) {
	g := NewFlat()
	a := g.AddVertex(r3.Vec{}, 0)
	b := g.AddVertex(r3.Vec{X: 1}, 0)
	c := g.AddVertex(r3.Vec{Y: 1}, 0)
	g.RemoveNode(b)

	decoded, err := Decode(Encode(g))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Has(b) {
		t.Errorf("removed node %d is live after round trip", b)
	}
	if !decoded.Has(a) || !decoded.Has(c) {
		t.Error("live nodes lost after round trip")
	}
}

func TestDecode_UnknownVariant(t *testing.T) {
	_, err := Decode(Document{Variant: "torus"})
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Decode() error = %v, want ErrUnknownVariant", err)
	}
}

func TestDecode_MalformedHanging(t *testing.T) {
	doc := Document{
		Variant: VariantFlat,
		Nodes: []NodeDoc{
			{ID: 0, Kind: "vertex"},
			{ID: 1, Kind: "hanging", Parents: []int{0}},
		},
	}
	if _, err := Decode(doc); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Decode() error = %v, want ErrMalformedDocument", err)
	}
}

func TestDecode_DanglingEdge(t *testing.T) {
	doc := Document{
		Variant: VariantFlat,
		Nodes:   []NodeDoc{{ID: 0, Kind: "vertex"}},
		Edges:   []EdgeDoc{{A: 0, B: 7}},
	}
	if _, err := Decode(doc); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("Decode() error = %v, want ErrMalformedDocument", err)
	}
}

// Documents arrive from files and the HTTP API, so sphere nodes are held to
// the same geographic constraints as AddVertexGeo.
func TestDecode_SphereLatitudeOutOfRange(t *testing.T) {
	doc := Document{
		Variant: VariantSphere,
		Radius:  10,
		Nodes:   []NodeDoc{{ID: 0, Kind: "vertex", Lat: 200, Lon: 0}},
	}
	_, err := Decode(doc)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("Decode() error = %v, want ErrMalformedDocument", err)
	}
	if !errors.Is(err, ErrLatitudeRange) {
		t.Errorf("Decode() error = %v, want wrapped ErrLatitudeRange", err)
	}
}

func TestDecode_SphereLongitudeNotFinite(t *testing.T) {
	doc := Document{
		Variant: VariantSphere,
		Radius:  10,
		Nodes:   []NodeDoc{{ID: 0, Kind: "vertex", Lat: 0, Lon: math.Inf(1)}},
	}
	_, err := Decode(doc)
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("Decode() error = %v, want ErrMalformedDocument", err)
	}
	if !errors.Is(err, ErrLongitudeRange) {
		t.Errorf("Decode() error = %v, want wrapped ErrLongitudeRange", err)
	}
}

// A decoded sphere node gets its longitude normalized and its Cartesian
// coordinates recomputed from the geographic attributes, so a document with
// stale xyz still yields a consistent graph.
func TestDecode_SphereNormalizesAndRecomputesCartesian(t *testing.T) {
	doc := Document{
		Variant: VariantSphere,
		Radius:  10,
		Nodes: []NodeDoc{
			{ID: 0, Kind: "vertex", Lat: 0, Lon: 999, XYZ: [3]float64{1, 2, 3}},
		},
	}
	decoded, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	lat, lon := decoded.Coords2D(0)
	if math.Abs(lat) > tol || math.Abs(lon-(-81)) > tol {
		t.Errorf("Coords2D() = (%v, %v), want (0, -81)", lat, lon)
	}
	want := geom.SphericalToCartesian(10, 0, -81)
	if got := decoded.Cartesian(0); !vecApproxEqual(got, want) {
		t.Errorf("Cartesian() = %v, want %v", got, want)
	}
}
