package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

const (
	seatStatusKey    = "coach:seat-status"
	seatStatusGenKey = "coach:seat-status:gen"
)

var (
	errCacheDecode     = errs.New("failed to decode cached seat status")
	errStaleGeneration = errs.New("seat status generation moved")
)

// Client is the part of *redis.Client the seat status cache talks to.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Watch(ctx context.Context, fn func(*redis.Tx) error, keys ...string) error
	TxPipelined(ctx context.Context, fn func(redis.Pipeliner) error) ([]redis.Cmder, error)
}

type RedisSeatStatusCache struct {
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisSeatStatusCache(client Client, cfg config.RedisConfig, logger *slog.Logger) *RedisSeatStatusCache {
	return &RedisSeatStatusCache{
		client: client,
		ttl:    cfg.TTL,
		logger: logger,
	}
}

func (c *RedisSeatStatusCache) Get(ctx context.Context) ([]int, bool, error) {
	raw, err := c.client.Get(ctx, seatStatusKey).Bytes()
	if errs.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.Wrap(err, "redis get seat status")
	}

	var booked []int
	if err := json.Unmarshal(raw, &booked); err != nil {
		// Readers fall back to the store on error and overwrite the entry.
		c.logger.Warn("discarding unreadable seat status entry", "error", err)
		return nil, false, errs.Mark(err, errCacheDecode)
	}
	return booked, true, nil
}

func (c *RedisSeatStatusCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, seatStatusGenKey).Int64()
	if errs.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errs.Wrap(err, "redis get seat status generation")
	}
	return gen, nil
}

// Set writes under WATCH on the generation key. A concurrent Invalidate
// either changes the generation first or aborts the EXEC; in both cases
// the list is dropped.
func (c *RedisSeatStatusCache) Set(ctx context.Context, gen int64, booked []int) error {
	if booked == nil {
		booked = []int{}
	}
	body, err := json.Marshal(booked)
	if err != nil {
		return errs.Wrap(err, "encode seat status")
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, seatStatusGenKey).Int64()
		if err != nil && !errs.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, seatStatusKey, body, c.ttl)
			return nil
		})
		return err
	}, seatStatusGenKey)

	if errs.Is(err, errStaleGeneration) || errs.Is(err, redis.TxFailedErr) {
		c.logger.Debug("seat status fill dropped, invalidated during read", "generation", gen)
		return nil
	}
	if err != nil {
		return errs.Wrap(err, "redis set seat status")
	}
	return nil
}

func (c *RedisSeatStatusCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, seatStatusGenKey)
		pipe.Del(ctx, seatStatusKey)
		return nil
	})
	if err != nil {
		return errs.Wrap(err, "redis invalidate seat status")
	}
	return nil
}

// NoopSeatStatusCache always misses. Used when Redis is disabled.
type NoopSeatStatusCache struct{}

func NewNoopSeatStatusCache() *NoopSeatStatusCache {
	return &NoopSeatStatusCache{}
}

func (NoopSeatStatusCache) Get(context.Context) ([]int, bool, error)  { return nil, false, nil }
func (NoopSeatStatusCache) Generation(context.Context) (int64, error) { return 0, nil }
func (NoopSeatStatusCache) Set(context.Context, int64, []int) error   { return nil }
func (NoopSeatStatusCache) Invalidate(context.Context) error          { return nil }

var (
	_ shared.SeatStatusCache = (*RedisSeatStatusCache)(nil)
	_ shared.SeatStatusCache = NoopSeatStatusCache{}
)
