// Package cache keeps court snapshots in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arena/internal/court"
	"arena/internal/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "arena:court:"

// SnapshotCache stores serialized courts with a TTL. A nil client or non-positive TTL disables it.
type SnapshotCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *SnapshotCache {
	return &SnapshotCache{redis: client, ttl: ttl, logger: logger}
}

func (c *SnapshotCache) enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

func key(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}

// Get returns the cached court, or false on a miss or any redis error.
func (c *SnapshotCache) Get(ctx context.Context, id int64) (court.Court, bool) {
	if !c.enabled() {
		return court.Court{}, false
	}
	val, err := c.redis.Get(ctx, key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Int64("court_id", id).Msg("cache read failed")
		}
		metrics.IncCache("miss")
		return court.Court{}, false
	}
	var out court.Court
	if err := json.Unmarshal(val, &out); err != nil {
		c.logger.Warn().Err(err).Int64("court_id", id).Msg("cache entry corrupt")
		metrics.IncCache("miss")
		return court.Court{}, false
	}
	metrics.IncCache("hit")
	return out, true
}

// Set stores c under its ID.
func (c *SnapshotCache) Set(ctx context.Context, snapshot court.Court) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key(snapshot.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("court_id", snapshot.ID).Msg("cache write failed")
	}
}

// Invalidate drops the cached snapshot of a court.
func (c *SnapshotCache) Invalidate(ctx context.Context, id int64) {
	if !c.enabled() {
		return
	}
	if err := c.redis.Del(ctx, key(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Int64("court_id", id).Msg("cache invalidate failed")
	}
}
