package bootstrap

import (
	"context"
	"log/slog"

	"coach-booking/internal/infra/outbox"
	sqlc "coach-booking/internal/infra/sqlc/generated"
	"coach-booking/internal/pkg/config"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		NewOutboxRelay,
		NewScheduler,
	),
	fx.Invoke(ScheduleOutboxRelay),
)

func NewOutboxRelay(pool *pgxpool.Pool, q *sqlc.Queries, pub outbox.Publisher, cfg config.Config, logger *slog.Logger) *outbox.Relay {
	return outbox.NewRelay(pool, q, pub, cfg.Outbox, logger)
}

func NewScheduler(lc fx.Lifecycle, logger *slog.Logger) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			logger.Info("scheduler started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			return s.Shutdown()
		},
	})
	return s, nil
}

// ScheduleOutboxRelay relays pending events on a fixed interval. Singleton
// mode skips a tick while the previous batch is still running.
func ScheduleOutboxRelay(s gocron.Scheduler, relay *outbox.Relay, cfg config.Config, logger *slog.Logger) error {
	_, err := s.NewJob(
		gocron.DurationJob(cfg.Outbox.Interval),
		gocron.NewTask(func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, cfg.Outbox.Interval)
			defer cancel()
			if _, err := relay.RunOnce(ctx); err != nil {
				logger.Error("outbox relay failed", "error", err)
			}
		}),
		gocron.WithName("outbox-relay"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}
