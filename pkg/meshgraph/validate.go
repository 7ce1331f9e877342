package meshgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrInteriorCorners is returned by [Graph.Validate] when a triangle
	// record is not connected to exactly three non-interior corners.
	ErrInteriorCorners = errors.New("interior must have exactly three corners")

	// ErrHangingParents is returned by [Graph.Validate] when a hanging node
	// is missing its parent pair, a parent is dead, or the connecting edges
	// are gone.
	ErrHangingParents = errors.New("hanging node has an invalid parent pair")
)

// Validate checks mesh integrity and returns nil if the graph is
// structurally sound:
//
//  1. Every interior is connected to exactly three live non-interior corners.
//  2. Every hanging node records two live parents and is connected to both.
//
// Counter consistency is maintained by construction and is not re-derived
// here. Use Validate after decoding external documents or between driver
// sweeps when debugging.
func (g *Graph) Validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		if !n.alive {
			continue
		}
		id := NodeID(i)
		switch n.kind {
		case KindInterior:
			nbs := g.adj[id]
			if len(nbs) != 3 {
				return fmt.Errorf("%w: interior %d has %d", ErrInteriorCorners, id, len(nbs))
			}
			for _, c := range nbs {
				if !g.Has(c) || g.nodes[c].kind == KindInterior {
					return fmt.Errorf("%w: interior %d corner %d", ErrInteriorCorners, id, c)
				}
			}
		case KindHanging:
			pa, pb := n.parents[0], n.parents[1]
			if pa == InvalidNode || pb == InvalidNode || !g.Has(pa) || !g.Has(pb) {
				return fmt.Errorf("%w: node %d", ErrHangingParents, id)
			}
			if !g.HasEdge(id, pa) || !g.HasEdge(id, pb) {
				return fmt.Errorf("%w: node %d is disconnected from a parent", ErrHangingParents, id)
			}
		}
	}
	return nil
}
