package bootstrap

import (
	"time"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// NewJWTService fails startup rather than issuing tokens that never verify or never expire.
func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	if cfg.JWT.Secret == "" {
		return nil, errs.New("JWT_SECRET must be set")
	}
	duration, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, errs.Wrapf(err, "invalid JWT_DURATION %q", cfg.JWT.Duration)
	}
	if duration <= 0 {
		return nil, errs.Newf("JWT_DURATION must be positive, got %s", duration)
	}

	return jwt.NewService(cfg.JWT.Secret, duration), nil
}
