package bootstrap

import (
	"context"
	"log/slog"

	"coach-booking/internal/infra/broker"
	"coach-booking/internal/infra/outbox"
	"coach-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewPublisher,
	),
)

func NewPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) outbox.Publisher {
	if !cfg.Broker.Enabled {
		return broker.NewLogPublisher(logger)
	}

	pub := broker.NewRabbitPublisher(cfg.Broker, logger)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return pub.Close()
		},
	})
	return pub
}
