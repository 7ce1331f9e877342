package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jkarwowski/terramesh/pkg/store"
)

// Snapshot store backends selectable via --store.
const (
	storeFile  = "file"
	storeRedis = "redis"
	storeMongo = "mongo"
)

// storeOpts holds the backend-selection flags shared by commands that touch
// the snapshot store.
type storeOpts struct {
	kind      string // backend: "file", "redis", "mongo"
	dir       string // file backend directory
	redisAddr string // redis backend address
	mongoURI  string // mongo backend connection string
}

func (o *storeOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.kind, "store", storeFile, "snapshot store backend: file (default), redis, mongo")
	cmd.Flags().StringVar(&o.dir, "store-dir", "", "snapshot directory for the file backend (default ~/.config/terramesh/snapshots)")
	cmd.Flags().StringVar(&o.redisAddr, "redis-addr", "localhost:6379", "redis address for the redis backend")
	cmd.Flags().StringVar(&o.mongoURI, "mongo-uri", "mongodb://localhost:27017", "connection string for the mongo backend")
}

// open creates the selected snapshot store. Callers own the returned store
// and must Close it.
func (o *storeOpts) open(ctx context.Context) (store.Store, error) {
	switch o.kind {
	case storeFile:
		return store.NewFile(o.dir)
	case storeRedis:
		return store.NewRedis(ctx, store.RedisConfig{Addr: o.redisAddr})
	case storeMongo:
		return store.NewMongo(ctx, store.MongoConfig{URI: o.mongoURI})
	default:
		return nil, fmt.Errorf("unknown snapshot store %q", o.kind)
	}
}
