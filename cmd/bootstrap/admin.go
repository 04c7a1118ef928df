package bootstrap

import (
	"context"
	"log/slog"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"
	"coach-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var AdminModule = fx.Module("admin",
	fx.Invoke(
		ProvisionAdmin,
	),
)

// ProvisionAdmin makes ADMIN_EMAIL an admin before the server starts
// accepting requests. A failure stops startup.
func ProvisionAdmin(lc fx.Lifecycle, cfg config.Config, authCommands commands.AuthCommands, logger *slog.Logger) {
	if cfg.Admin.Email == "" {
		logger.Debug("admin provisioning disabled")
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			res, err := authCommands.EnsureAdmin(ctx, commands.AdminInput{
				Name:     cfg.Admin.Name,
				Email:    cfg.Admin.Email,
				Password: cfg.Admin.Password,
			})
			if err != nil {
				return errs.Wrapf(err, "provision admin %s", cfg.Admin.Email)
			}
			logger.Info("admin account ready",
				"user_id", res.UserID.String(),
				"email", cfg.Admin.Email,
				"created", res.Created)
			return nil
		},
	})
}
