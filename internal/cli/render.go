package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/manifest"
	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/render/meshdot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file path, derived from the input when empty
	format    string // "svg" (default) or "dot"
	detailed  bool   // include elevation and value in vertex labels
	structure bool   // draw triangle records and corner links
}

// newRenderCmd creates the render command for drawing meshes. The input is
// either a TOML manifest or a mesh JSON file written by refine.
func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [mesh]",
		Short: "Render a mesh to SVG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", opts.format, formatSVG, formatDOT)
			}
			return runRender(args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input with the format extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg (default), dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show elevation and value in vertex labels")
	cmd.Flags().BoolVar(&opts.structure, "structure", false, "draw triangle records and corner links")

	return cmd
}

func runRender(path string, opts *renderOpts) error {
	g, err := loadMesh(path)
	if err != nil {
		return err
	}

	dot := meshdot.ToDOT(g, meshdot.Options{Detailed: opts.detailed, Structure: opts.structure})
	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = meshdot.RenderSVG(dot)
		if err != nil {
			return err
		}
	}

	out := opts.output
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	printSuccess("Rendered %s", filepath.Base(path))
	printFile(out)
	return nil
}

// loadMesh reads a mesh from either a TOML manifest or a mesh JSON
// document, detected by file extension.
func loadMesh(path string) (meshgraph.MeshGraph, error) {
	if filepath.Ext(path) == ".toml" {
		m, err := manifest.Load(path)
		if err != nil {
			return nil, err
		}
		return m.Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	var doc meshgraph.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mesh: %w", err)
	}
	return meshgraph.Decode(doc)
}
