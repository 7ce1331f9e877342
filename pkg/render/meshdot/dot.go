// Package meshdot renders mesh graphs as Graphviz drawings.
//
// Meshes are laid out with neato using pinned node positions taken from the
// planar projection, so the drawing reflects the actual mesh geometry.
// Hanging nodes get dashed outlines, triangle records shrink to points, and
// boundary edges draw thicker.
package meshdot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// Options configures mesh rendering.
type Options struct {
	// Detailed includes elevation and value in vertex labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Structure includes triangle records and their corner links.
	// When false, only vertices, hanging nodes and mesh edges are drawn.
	Structure bool
}

// ToDOT converts a mesh to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG].
func ToDOT(g meshgraph.MeshGraph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph mesh {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		if g.Kind(n) == meshgraph.KindInterior {
			continue
		}
		attrs := nodeAttrs(g, n, opts.Detailed)
		fmt.Fprintf(&buf, "  %d [%s];\n", n, strings.Join(attrs, ", "))
	}
	if opts.Structure {
		for _, in := range g.Interiors() {
			fmt.Fprintf(&buf, "  %d [shape=point, width=0.08, fillcolor=black];\n", in)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !opts.Structure && (g.Kind(e[0]) == meshgraph.KindInterior || g.Kind(e[1]) == meshgraph.KindInterior) {
			continue
		}
		fmt.Fprintf(&buf, "  %d -- %d%s;\n", e[0], e[1], edgeAttrs(g, e[0], e[1]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g meshgraph.MeshGraph, n meshgraph.NodeID, detailed bool) []string {
	x, y := g.Coords2D(n)
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(g, n, detailed)),
		fmt.Sprintf("pos=\"%g,%g!\"", x, y),
	}
	if g.Kind(n) == meshgraph.KindHanging {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func fmtLabel(g meshgraph.MeshGraph, n meshgraph.NodeID, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%d\nelev: %g\nval: %g", n, g.Elevation(n), g.Value(n))
}

func edgeAttrs(g meshgraph.MeshGraph, a, b meshgraph.NodeID) string {
	if g.Kind(a) == meshgraph.KindInterior || g.Kind(b) == meshgraph.KindInterior {
		return " [style=dotted, color=grey]"
	}
	if g.IsBoundary(a, b) {
		return " [penwidth=2.5]"
	}
	return ""
}

// RenderSVG renders a DOT mesh drawing to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
