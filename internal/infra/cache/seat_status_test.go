//go:build unit

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, mr *miniredis.Miniredis) *RedisSeatStatusCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSeatStatusCache(client,
		config.RedisConfig{TTL: 30 * time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRedisSeatStatusCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss on empty cache", func(t *testing.T) {
		c := newTestCache(t, miniredis.RunT(t))
		got, ok, err := c.Get(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("set then get round-trips with the configured ttl", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c := newTestCache(t, mr)

		gen, err := c.Generation(ctx)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, gen, []int{1, 2, 80}))
		got, ok, err := c.Get(ctx)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 2, 80}, got)
		assert.Equal(t, 30*time.Second, mr.TTL(seatStatusKey))
	})

	t.Run("empty booked list is a hit, not a miss", func(t *testing.T) {
		c := newTestCache(t, miniredis.RunT(t))
		require.NoError(t, c.Set(ctx, 0, nil))

		got, ok, err := c.Get(ctx)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("invalidate removes the entry and advances the generation", func(t *testing.T) {
		c := newTestCache(t, miniredis.RunT(t))
		require.NoError(t, c.Set(ctx, 0, []int{7}))
		require.NoError(t, c.Invalidate(ctx))
		require.NoError(t, c.Invalidate(ctx))

		_, ok, err := c.Get(ctx)
		assert.NoError(t, err)
		assert.False(t, ok)

		gen, err := c.Generation(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), gen)
	})

	t.Run("fill read before an invalidation is dropped", func(t *testing.T) {
		c := newTestCache(t, miniredis.RunT(t))

		readGen, err := c.Generation(ctx)
		require.NoError(t, err)
		require.NoError(t, c.Invalidate(ctx))

		require.NoError(t, c.Set(ctx, readGen, []int{}))
		_, ok, err := c.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok, "list read before the invalidation must not be cached")

		freshGen, err := c.Generation(ctx)
		require.NoError(t, err)
		assert.Equal(t, readGen+1, freshGen)

		require.NoError(t, c.Set(ctx, freshGen, []int{1, 2, 3}))
		got, ok, err := c.Get(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("corrupt entry is reported", func(t *testing.T) {
		mr := miniredis.RunT(t)
		require.NoError(t, mr.Set(seatStatusKey, "not-json"))

		_, ok, err := newTestCache(t, mr).Get(ctx)

		assert.False(t, ok)
		assert.True(t, errs.Is(err, errCacheDecode))
	})

	t.Run("redis errors are returned", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		c := newTestCache(t, mr)
		mr.Close()

		_, _, err = c.Get(ctx)
		assert.Error(t, err)
		_, err = c.Generation(ctx)
		assert.Error(t, err)
		assert.Error(t, c.Set(ctx, 0, []int{1}))
		assert.Error(t, c.Invalidate(ctx))
	})
}

func TestNoopSeatStatusCache(t *testing.T) {
	c := NewNoopSeatStatusCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, 0, []int{1}))
	got, ok, err := c.Get(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	gen, err := c.Generation(ctx)
	assert.NoError(t, err)
	assert.Zero(t, gen)
	assert.NoError(t, c.Invalidate(ctx))
}
