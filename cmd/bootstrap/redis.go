package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"coach-booking/internal/infra/cache"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewSeatStatusCache,
	),
)

// NewSeatStatusCache falls back to a no-op cache when Redis is disabled or
// unreachable at startup, so bookings never depend on it.
func NewSeatStatusCache(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.SeatStatusCache {
	if !cfg.Redis.Enabled {
		return cache.NewNoopSeatStatusCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, seat status cache disabled", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return cache.NewNoopSeatStatusCache()
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	logger.Info("seat status cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	return cache.NewRedisSeatStatusCache(client, cfg.Redis, logger)
}
