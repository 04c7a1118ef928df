package middleware

import (
	"context"
	"log/slog"
	"os"
	"time"

	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestIDKey = "request_id"
	HeaderRequestID = "X-Request-ID"

	maxRequestIDLen = 64
	stackLines      = 12
)

// NewLogger builds the process logger: JSON in release mode, text otherwise,
// timestamps rendered in the configured zone.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key != slog.TimeKey || cfg.TimeFormat == "" {
				return a
			}
			if t, ok := a.Value.Any().(time.Time); ok {
				a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
			}
			return a
		},
	}

	if gin.Mode() == gin.ReleaseMode {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// RequestLogger tags every request with an id (taken from X-Request-ID when the
// caller sent a usable one) and logs one line per completed request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := incomingRequestID(c)
		c.Set(ctxRequestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		attrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}
		logger.LogAttrs(context.Background(), slog.LevelDebug, "request started", attrs...)

		c.Next()

		status := c.Writer.Status()
		attrs = append(attrs,
			slog.Int("status_code", status),
			slog.Duration("duration", time.Since(start)),
		)
		// The principal only exists once RequireAuth has run.
		if principal, ok := GetPrincipal(c); ok {
			attrs = append(attrs,
				slog.String("user_id", principal.UserID.String()),
				slog.String("role", principal.Role.String()),
			)
		}
		if size := c.Writer.Size(); size > 0 {
			attrs = append(attrs, slog.Int("response_size", size))
		}

		level := slog.LevelInfo
		if last := c.Errors.Last(); last != nil {
			attrs = append(attrs,
				slog.String("error", last.Err.Error()),
				slog.String("error_kind", errs.KindOf(last.Err).String()),
			)
			if status >= 500 {
				attrs = append(attrs, slog.Any("stack", errs.ExtractStackLines(last.Err, stackLines)))
			}
		}
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.LogAttrs(context.Background(), level, "request completed", attrs...)
	}
}

func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(ctxRequestIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func incomingRequestID(c *gin.Context) string {
	if id := c.GetHeader(HeaderRequestID); id != "" && len(id) <= maxRequestIDLen {
		return id
	}
	return uuid.NewString()
}
