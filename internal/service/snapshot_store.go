package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const snapshotKeyPrefix = "session:"

// RedisSnapshotStore persists session snapshots in Redis so a session
// created on one replica stays reachable through another.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedisSnapshotStore wraps a connected Redis client.
func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// Save writes the snapshot with the session TTL.
func (s *RedisSnapshotStore) Save(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return s.client.Set(ctx, snapshotKeyPrefix+id, payload, ttl).Err()
}

// Load reads a snapshot; a missing key returns nil without error.
func (s *RedisSnapshotStore) Load(ctx context.Context, id string) ([]byte, error) {
	payload, err := s.client.Get(ctx, snapshotKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Delete drops the snapshot.
func (s *RedisSnapshotStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, snapshotKeyPrefix+id).Err()
}
