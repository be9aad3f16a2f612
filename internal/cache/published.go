// Package cache provides the Redis-backed read cache for publicly visible
// nodes. Only published, non-archived nodes are ever stored; owner-scoped
// reads always go to the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"citrusreach/internal/domain/models"
)

// PublishedStore caches published nodes in Redis with a TTL.
type PublishedStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewPublishedStore creates a Redis-backed published-node cache and verifies
// the connection.
func NewPublishedStore(redisURL string, ttl time.Duration) (*PublishedStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewPublishedStoreWithClient(client, ttl), nil
}

// NewPublishedStoreWithClient creates a cache from an existing Redis client.
func NewPublishedStoreWithClient(client *redis.Client, ttl time.Duration) *PublishedStore {
	return &PublishedStore{
		client: client,
		prefix: "published:",
		ttl:    ttl,
	}
}

func (s *PublishedStore) key(kind models.Kind, id string) string {
	return s.prefix + string(kind) + ":" + id
}

// Get returns the cached node, or nil on miss.
func (s *PublishedStore) Get(ctx context.Context, kind models.Kind, id string) (*models.Node, error) {
	data, err := s.client.Get(ctx, s.key(kind, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var node models.Node
	if err := json.Unmarshal([]byte(data), &node); err != nil {
		return nil, fmt.Errorf("unmarshal cached node: %w", err)
	}

	// A stale entry that is no longer publicly visible must not be served.
	if !node.PubliclyVisible() {
		return nil, nil
	}

	return &node, nil
}

// Set stores a node. Nodes that are not publicly visible are silently
// skipped; the cache never holds private or archived records.
func (s *PublishedStore) Set(ctx context.Context, kind models.Kind, node *models.Node) error {
	if !node.PubliclyVisible() {
		return nil
	}

	data, err := json.Marshal(node)
	if err != nil {
		return fmt.Errorf("marshal node: %w", err)
	}

	if err := s.client.Set(ctx, s.key(kind, node.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Invalidate drops a node from the cache.
func (s *PublishedStore) Invalidate(ctx context.Context, kind models.Kind, id string) error {
	if err := s.client.Del(ctx, s.key(kind, id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (s *PublishedStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying Redis client.
func (s *PublishedStore) Close() error {
	return s.client.Close()
}
