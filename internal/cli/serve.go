package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/production"
	"github.com/jkarwowski/terramesh/pkg/refine"
	"github.com/jkarwowski/terramesh/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr  string
	store storeOpts
}

// newServeCmd creates the serve command, exposing refinement and the
// snapshot store over HTTP.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP refinement API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	opts.store.register(cmd)

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	st, err := opts.store.open(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	api := &apiServer{store: st}

	srv := &http.Server{
		Addr:        opts.addr,
		Handler:     api.router(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type apiServer struct {
	store store.Store
}

func (s *apiServer) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/api/refine", s.handleRefine)
	r.Route("/api/snapshots", func(r chi.Router) {
		r.Get("/", s.handleListSnapshots)
		r.Post("/", s.handleSaveSnapshot)
		r.Get("/{id}", s.handleGetSnapshot)
		r.Delete("/{id}", s.handleDeleteSnapshot)
	})
	return r
}

// refineRequest is the POST /api/refine payload: a mesh document plus the
// refinement knobs.
type refineRequest struct {
	Mesh      meshgraph.Document `json:"mesh"`
	UseUV     bool               `json:"use_uv"`
	MaxSweeps int                `json:"max_sweeps"`
}

type refineResponse struct {
	Mesh  meshgraph.Document `json:"mesh"`
	Stats refine.Stats       `json:"stats"`
}

func (s *apiServer) handleRefine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	g, err := meshgraph.Decode(req.Mesh)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	rf := refine.New(production.ForGraph(g, req.UseUV),
		refine.WithLogger(loggerFromContext(r.Context())),
		refine.WithMaxSweeps(req.MaxSweeps))
	stats, err := rf.Run(r.Context(), g)
	if err != nil {
		httpError(w, http.StatusUnprocessableEntity, err)
		return
	}
	writeJSON(w, http.StatusOK, refineResponse{Mesh: meshgraph.Encode(g), Stats: stats})
}

// saveRequest is the POST /api/snapshots payload.
type saveRequest struct {
	Name string             `json:"name"`
	Mesh meshgraph.Document `json:"mesh"`
}

func (s *apiServer) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	g, err := meshgraph.Decode(req.Mesh)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}
	snap := store.NewSnapshot(req.Name, g)
	if err := s.store.Put(r.Context(), snap); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, store.Info{ID: snap.ID, Name: snap.Name, CreatedAt: snap.CreatedAt})
}

func (s *apiServer) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	if infos == nil {
		infos = []store.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *apiServer) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, err)
			return
		}
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *apiServer) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
