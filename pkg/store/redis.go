package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "terramesh:snapshot:"

// RedisConfig configures the Redis snapshot store.
type RedisConfig struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// Password is optional.
	Password string

	// DB is the Redis database number.
	DB int

	// TTL expires snapshots after the given duration. Zero means snapshots
	// never expire.
	TTL time.Duration
}

// RedisStore is a Redis-backed snapshot store for multi-instance
// deployments.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: cfg.TTL}, nil
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Put(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(snap.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]Info, error) {
	var infos []Info
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			// Expired between scan and fetch.
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			continue
		}
		infos = append(infos, Info{ID: snap.ID, Name: snap.Name, CreatedAt: snap.CreatedAt})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	sortInfos(infos)
	return infos, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
