// Package redis implements kv.Store on a Redis database, one string key per
// value under a common namespace prefix.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/timemark/internal/kv"
)

// scanBatch is the COUNT hint passed to SCAN when reading the namespace.
const scanBatch = 100

// Store handles Redis operations for the bookmark namespace
type Store struct {
	client    *redis.Client
	namespace string
}

// NewStore creates a new Redis-backed store. An empty namespace uses DefaultNamespace.
func NewStore(client *redis.Client, namespace string) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{
		client:    client,
		namespace: namespace,
	}
}

// Set stores a value without expiry
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Get retrieves a value by key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Remove deletes a key; DEL on a missing key is a no-op in Redis
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// All reads the whole namespace with SCAN and fetches values in MGET batches
func (s *Store) All(ctx context.Context) (map[string][]byte, error) {
	out := make(map[string][]byte)

	iter := s.client.Scan(ctx, 0, s.namespace+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.fetch(ctx, batch, out); err != nil {
				return nil, err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan namespace: %w", err)
	}
	if len(batch) > 0 {
		if err := s.fetch(ctx, batch, out); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (s *Store) fetch(ctx context.Context, keys []string, out map[string][]byte) error {
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("failed to read namespace values: %w", err)
	}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Deleted between SCAN and MGET
			continue
		}
		if k, ok := s.stripNamespace(keys[i]); ok {
			out[k] = []byte(str)
		}
	}
	return nil
}

// Ping checks the Redis connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

var _ kv.Store = (*Store)(nil)
