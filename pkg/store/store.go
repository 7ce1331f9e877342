// Package store persists mesh snapshots.
//
// A snapshot is an immutable copy of a mesh at a point in time, identified
// by a UUID. The Store interface supports several backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for CLI usage
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable archives
//
// # Usage
//
// Create a store:
//
//	// Development
//	store := store.NewMemory()
//
//	// CLI
//	store, err := store.NewFile("") // Uses ~/.config/terramesh/snapshots/
//
//	// Multi-instance
//	store, err := store.NewRedis(ctx, store.RedisConfig{Addr: "localhost:6379"})
//
// Save and load meshes:
//
//	snap := store.NewSnapshot("warsaw-basin", mesh)
//	if err := st.Put(ctx, snap); err != nil {
//	    return err
//	}
//
//	snap, err := st.Get(ctx, id)
//	mesh, err := meshgraph.Decode(snap.Mesh)
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jkarwowski/terramesh/pkg/meshgraph"
)

// ErrNotFound is returned when a snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored mesh with its identity and provenance.
type Snapshot struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	CreatedAt time.Time          `json:"created_at"`
	Mesh      meshgraph.Document `json:"mesh"`
}

// Info is a snapshot listing entry, without the mesh payload.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put stores a snapshot, overwriting any snapshot with the same ID.
	Put(ctx context.Context, snap *Snapshot) error

	// Get retrieves a snapshot by ID. Returns ErrNotFound if it does not
	// exist.
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Delete removes a snapshot. Deleting a missing snapshot is not an
	// error.
	Delete(ctx context.Context, id string) error

	// List returns metadata for all stored snapshots, newest first.
	List(ctx context.Context) ([]Info, error)

	// Close releases backend resources.
	Close() error
}

// NewSnapshot encodes a mesh into a freshly identified snapshot.
func NewSnapshot(name string, g meshgraph.MeshGraph) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Mesh:      meshgraph.Encode(g),
	}
}

func marshalSnapshot(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func unmarshalSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

func sortInfos(infos []Info) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].CreatedAt.After(infos[j].CreatedAt) })
}

func unixNano(n int64) time.Time { return time.Unix(0, n).UTC() }
