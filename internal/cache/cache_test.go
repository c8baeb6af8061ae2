package cache

import (
	"context"
	"io"
	"testing"
	"time"

	"arena/internal/court"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, ttl time.Duration) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	logger := zerolog.New(io.Discard)
	return NewSnapshotCache(client, ttl, &logger), mr
}

func TestSnapshotCache(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)

	snapshot, err := court.New("Court A", "padel", decimal.NewFromInt(100))
	require.NoError(t, err)
	snapshot.ID = 1
	snapshot.Version = 3
	c.Set(ctx, snapshot)

	got, ok := c.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Court A", got.Name)
	assert.Equal(t, int64(3), got.Version)
	assert.True(t, got.BasePrice.Equal(decimal.NewFromInt(100)))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, 1)
	assert.False(t, ok)

	c.Set(ctx, snapshot)
	c.Invalidate(ctx, 1)
	_, ok = c.Get(ctx, 1)
	assert.False(t, ok)
}

func TestSnapshotCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := setupCache(t, time.Minute)
	require.NoError(t, mr.Set(key(5), "{not json"))

	_, ok := c.Get(context.Background(), 5)
	assert.False(t, ok)
}

func TestSnapshotCache_Disabled(t *testing.T) {
	logger := zerolog.New(io.Discard)
	c := NewSnapshotCache(nil, time.Minute, &logger)
	ctx := context.Background()

	c.Set(ctx, court.Court{ID: 1})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	c.Invalidate(ctx, 1)

	var nilCache *SnapshotCache
	_, ok = nilCache.Get(ctx, 1)
	assert.False(t, ok)
}
