// Package redis implements pkg/cache.Store on Redis, the low-latency
// alternative backing store for deployments that already run Redis
// rather than Postgres, via github.com/redis/go-redis/v9.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/madspark-dev/madspark/pkg/cache"
)

// Store is a Redis-backed pkg/cache.Store.
type Store struct {
	client *redis.Client
	prefix string
}

// Config configures the underlying go-redis client.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New builds a Store and verifies connectivity with a PING.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "madspark:cache:"
	}
	return &Store{client: client, prefix: prefix}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.client.Close()
}

type wireEntry struct {
	Record map[string]interface{} `json:"record"`
	Meta   map[string]interface{} `json:"meta"`
}

// Get implements pkg/cache.Store.
func (s *Store) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err == redis.Nil {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}

	var w wireEntry
	if err := json.Unmarshal(raw, &w); err != nil {
		return cache.Entry{}, false, err
	}
	return cache.Entry{Record: w.Record, Meta: w.Meta}, true, nil
}

// Set implements pkg/cache.Store.
func (s *Store) Set(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) error {
	raw, err := json.Marshal(wireEntry{Record: entry.Record, Meta: entry.Meta})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, raw, ttl).Err()
}
