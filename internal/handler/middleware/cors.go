package middleware

import (
	"log/slog"
	"slices"

	"coach-booking/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware treats a "*" origin as allow-all; credentials are then
// disabled since browsers reject that combination.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  cfg.AllowMethods,
		AllowHeaders:  cfg.AllowHeaders,
		ExposeHeaders: appendMissing(cfg.ExposeHeaders, HeaderRequestID),
		MaxAge:        cfg.MaxAge,
	}
	if slices.Contains(cfg.AllowOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowOrigins
		corsCfg.AllowCredentials = cfg.AllowCredentials
	}

	logger.Info("cors configured", "allow_origins", cfg.AllowOrigins, "allow_all", corsCfg.AllowAllOrigins)
	return cors.New(corsCfg)
}

func appendMissing(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(slices.Clone(list), v)
}
