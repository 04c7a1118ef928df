package bootstrap

import (
	"log/slog"

	"coach-booking/internal/handler/middleware"
	"coach-booking/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

func NewLogger(cfg config.Config) *slog.Logger {
	logger := middleware.NewLogger(cfg.Log)
	slog.SetDefault(logger)
	return logger
}
