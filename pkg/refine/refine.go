// Package refine drives adaptive mesh refinement: it repeatedly sweeps the
// mesh's triangle records, applying the first matching production to each,
// until a full sweep fires nothing.
//
// The driver owns no geometry of its own. The production family and its
// distance metric are fixed at construction, and the mesh is exclusively
// owned by the caller for the duration of a run; nothing here is safe for
// concurrent use.
package refine

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
	"github.com/jkarwowski/terramesh/pkg/production"
)

// ErrSweepBudget is returned by [Refiner.Run] when the sweep limit is hit
// while productions are still firing. The mesh is left in its partially
// refined (but structurally valid) state.
var ErrSweepBudget = errors.New("sweep budget exhausted")

// Stats summarizes a refinement run.
type Stats struct {
	// Sweeps is the number of full passes over the triangle records,
	// including the final pass that fired nothing.
	Sweeps int
	// Applied is the total number of production applications.
	Applied int
	// ByRule counts applications per production name.
	ByRule map[string]int
}

// Refiner applies a production family to a mesh until fixpoint.
type Refiner struct {
	rules     []production.Production
	logger    *log.Logger
	maxSweeps int
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithLogger sets the logger used for per-sweep progress. Defaults to the
// package-level default logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Refiner) { r.logger = l }
}

// WithMaxSweeps bounds the number of sweeps. Zero (the default) means no
// bound; the rule family terminates on its own.
func WithMaxSweeps(n int) Option {
	return func(r *Refiner) { r.maxSweeps = n }
}

// WithRules overrides the production family, for drivers that want a
// restricted rule set. Rules are tried in slice order.
func WithRules(rules []production.Production) Option {
	return func(r *Refiner) { r.rules = rules }
}

// New creates a Refiner using the full production family over the given
// geometry.
func New(geom production.Geometry, opts ...Option) *Refiner {
	r := &Refiner{
		rules:  production.All(geom),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run sweeps the mesh until no production fires. Returns ErrSweepBudget if
// the configured sweep limit is reached first, or the context error if ctx
// is cancelled between sweeps.
func (r *Refiner) Run(ctx context.Context, g meshgraph.MeshGraph) (Stats, error) {
	stats := Stats{ByRule: make(map[string]int)}
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		applied := r.Sweep(g, &stats)
		stats.Sweeps++
		r.logger.Debug("refinement sweep", "sweep", stats.Sweeps, "applied", applied,
			"interiors", g.InteriorCount(), "hanging", g.HangingCount())
		if applied == 0 {
			return stats, nil
		}
		if r.maxSweeps > 0 && stats.Sweeps >= r.maxSweeps {
			return stats, ErrSweepBudget
		}
	}
}

// Sweep makes one pass over a snapshot of the current triangle records,
// applying at most one production per record, and returns the number of
// applications. Records created mid-sweep are picked up on the next sweep.
func (r *Refiner) Sweep(g meshgraph.MeshGraph, stats *Stats) int {
	applied := 0
	for _, center := range g.Interiors() {
		if !g.Has(center) {
			// Removed earlier in this sweep by a neighbor's production.
			continue
		}
		for _, rule := range r.rules {
			if rule.Apply(g, center) {
				applied++
				stats.Applied++
				stats.ByRule[rule.Name()]++
				break
			}
		}
	}
	return applied
}
