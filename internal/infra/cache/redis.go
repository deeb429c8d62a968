package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise-api/internal/domain"
)

// SnapshotRedis shares the catalog snapshot across instances through
// Redis. Failures degrade to a cache miss; the caller refetches from the
// store.
type SnapshotRedis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotRedis connects to Redis and verifies the connection.
func NewSnapshotRedis(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*SnapshotRedis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SnapshotRedis{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached snapshot, if present and decodable.
func (s *SnapshotRedis) Get(ctx context.Context) (*domain.CatalogSnapshot, bool) {
	data, err := s.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("redis: snapshot read failed", zap.Error(err))
		return nil, false
	}

	var snapshot domain.CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Warn("redis: snapshot decode failed", zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

// Set stores the snapshot with the configured TTL.
func (s *SnapshotRedis) Set(ctx context.Context, snapshot *domain.CatalogSnapshot) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("redis: snapshot encode failed", zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, snapshotKey, data, s.ttl).Err(); err != nil {
		s.logger.Warn("redis: snapshot write failed", zap.Error(err))
	}
}

// Close closes the underlying Redis client.
func (s *SnapshotRedis) Close() error {
	return s.client.Close()
}
