package bootstrap

import (
	"log/slog"

	"coach-booking/internal/pkg/config"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		LoadConfig,
	),
)

// LoadConfig reads an optional .env file before processing the environment.
// Variables already set in the environment take precedence over the file.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	return config.LoadConfig()
}
