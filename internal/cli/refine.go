package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/manifest"
	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/production"
	"github.com/jkarwowski/terramesh/pkg/refine"
)

// refineOpts holds the command-line flags for the refine command.
type refineOpts struct {
	output    string // output mesh JSON path
	uv        bool   // measure edges in the surface parametrization
	maxSweeps int    // sweep limit, 0 for unbounded
	save      bool   // store the refined mesh as a snapshot
	name      string // snapshot name, defaults to the manifest basename
	store     storeOpts
}

// newRefineCmd creates the refine command. It loads a mesh manifest, runs
// longest-edge bisection until the mesh is conforming, and writes or stores
// the result.
func newRefineCmd() *cobra.Command {
	var opts refineOpts

	cmd := &cobra.Command{
		Use:   "refine [manifest]",
		Short: "Refine a mesh described by a TOML manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefine(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the refined mesh as JSON")
	cmd.Flags().BoolVar(&opts.uv, "uv", false, "measure edge lengths in the surface parametrization (planar or great-circle)")
	cmd.Flags().IntVar(&opts.maxSweeps, "max-sweeps", 0, "abort after this many sweeps (0 = unbounded)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the refined mesh as a snapshot")
	cmd.Flags().StringVar(&opts.name, "name", "", "snapshot name (default: manifest basename)")
	opts.store.register(cmd)

	return cmd
}

func runRefine(ctx context.Context, path string, opts *refineOpts) error {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	g, err := m.Build()
	if err != nil {
		return err
	}
	logger.Debug("manifest loaded", "variant", m.Variant,
		"vertices", g.VertexCount(), "triangles", g.InteriorCount())

	sp := newSpinner(ctx, "refining mesh")
	sp.Start()
	r := refine.New(production.ForGraph(g, opts.uv),
		refine.WithLogger(logger), refine.WithMaxSweeps(opts.maxSweeps))
	stats, err := r.Run(ctx, g)
	if err != nil {
		sp.StopWithError(fmt.Sprintf("refinement failed: %v", err))
		return err
	}
	sp.Stop()

	printSuccess("Refined %s", filepath.Base(path))
	printDetail("%d sweeps · %d applications (%s)", stats.Sweeps, stats.Applied, fmtByRule(stats))
	printDetail("%d vertices · %d triangles · %d hanging",
		g.VertexCount(), g.InteriorCount(), g.HangingCount())

	if opts.output != "" {
		if err := writeMeshJSON(opts.output, g); err != nil {
			return err
		}
		printFile(opts.output)
	}
	if opts.save {
		id, err := saveSnapshot(ctx, g, snapshotName(opts, path), &opts.store)
		if err != nil {
			return err
		}
		printInfo("Snapshot %s", id)
		printNextStep("Inspect it with", "terramesh snapshots show "+id)
	}

	p.done(fmt.Sprintf("Refined mesh: %d triangles", g.InteriorCount()))
	return nil
}

func snapshotName(opts *refineOpts, path string) string {
	if opts.name != "" {
		return opts.name
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func fmtByRule(stats refine.Stats) string {
	if stats.Applied == 0 {
		return "already conforming"
	}
	var parts []string
	for _, name := range production.Names() {
		if n := stats.ByRule[name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s×%d", name, n))
		}
	}
	return strings.Join(parts, " ")
}

func writeMeshJSON(path string, g meshgraph.MeshGraph) error {
	data, err := json.MarshalIndent(meshgraph.Encode(g), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal mesh: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write mesh: %w", err)
	}
	return nil
}
