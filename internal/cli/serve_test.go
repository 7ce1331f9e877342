package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/store"
)

// markedMeshDoc encodes two right triangles sharing their hypotenuse, with
// the first marked for refinement.
func markedMeshDoc(t *testing.T) meshgraph.Document {
	t.Helper()
	g := meshgraph.NewFlat()
	a := g.AddVertex2D(0, 0, 0, 0)
	b := g.AddVertex2D(4, 0, 0, 0)
	c := g.AddVertex2D(0, 3, 0, 0)
	d := g.AddVertex2D(4, 3, 0, 0)
	for _, e := range [][2]meshgraph.NodeID{{a, b}, {b, c}, {c, a}, {b, d}, {d, c}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]meshgraph.NodeID{{a, b}, {c, a}, {b, d}, {d, c}} {
		g.SetBoundary(e[0], e[1], true)
	}
	t1 := g.AddInterior(a, b, c)
	g.AddInterior(b, d, c)
	g.MarkRefine(t1)
	return meshgraph.Encode(g)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	api := &apiServer{store: store.NewMemory()}
	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestServe_Healthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", resp.StatusCode)
	}
}

func TestServe_Refine(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/refine", refineRequest{Mesh: markedMeshDoc(t), UseUV: true})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/refine = %d, want 200", resp.StatusCode)
	}

	var out refineResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	g, err := meshgraph.Decode(out.Mesh)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if g.HangingCount() != 0 {
		t.Errorf("HangingCount() = %d, want 0", g.HangingCount())
	}
	if g.InteriorCount() != 4 {
		t.Errorf("InteriorCount() = %d, want 4", g.InteriorCount())
	}
	if out.Stats.Applied != 2 {
		t.Errorf("Stats.Applied = %d, want 2", out.Stats.Applied)
	}
}

func TestServe_RefineBadPayload(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/refine", "application/json", bytes.NewReader([]byte("{")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /api/refine = %d, want 400", resp.StatusCode)
	}
}

func TestServe_SnapshotLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/snapshots", saveRequest{Name: "coastline", Mesh: markedMeshDoc(t)})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /api/snapshots = %d, want 201", resp.StatusCode)
	}
	var info store.Info
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	listResp, err := http.Get(srv.URL + "/api/snapshots")
	if err != nil {
		t.Fatal(err)
	}
	var infos []store.Info
	if err := json.NewDecoder(listResp.Body).Decode(&infos); err != nil {
		t.Fatal(err)
	}
	listResp.Body.Close()
	if len(infos) != 1 || infos[0].Name != "coastline" {
		t.Errorf("GET /api/snapshots = %v, want one entry named coastline", infos)
	}

	getResp, err := http.Get(srv.URL + "/api/snapshots/" + info.ID)
	if err != nil {
		t.Fatal(err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("GET /api/snapshots/{id} = %d, want 200", getResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/snapshots/"+info.ID, nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE /api/snapshots/{id} = %d, want 204", delResp.StatusCode)
	}

	missResp, err := http.Get(srv.URL + "/api/snapshots/" + info.ID)
	if err != nil {
		t.Fatal(err)
	}
	missResp.Body.Close()
	if missResp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted snapshot = %d, want 404", missResp.StatusCode)
	}
}
