package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "snapshots"

// MongoConfig configures the MongoDB snapshot store.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "terramesh".
	Database string
}

// MongoStore is a MongoDB-backed snapshot store for durable archives.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoDoc wraps the JSON-encoded snapshot so the mesh payload stays in
// one serialization format across backends.
type mongoDoc struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	CreatedAt int64  `bson:"created_at"`
	Data      []byte `bson:"data"`
}

// NewMongo connects to MongoDB and verifies the connection.
func NewMongo(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "terramesh"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Put(ctx context.Context, snap *Snapshot) error {
	data, err := marshalSnapshot(snap)
	if err != nil {
		return err
	}
	doc := mongoDoc{
		ID:        snap.ID,
		Name:      snap.Name,
		CreatedAt: snap.CreatedAt.UnixNano(),
		Data:      data,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": snap.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find snapshot: %w", err)
	}
	return unmarshalSnapshot(doc.Data)
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.M{"created_at": -1})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer cur.Close(ctx)

	var infos []Info
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode snapshot listing: %w", err)
		}
		infos = append(infos, Info{ID: doc.ID, Name: doc.Name, CreatedAt: unixNano(doc.CreatedAt)})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return infos, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
