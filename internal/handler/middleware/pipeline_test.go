//go:build unit

package middleware_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"

	"coach-booking/internal/handler/httperr"
	"coach-booking/internal/handler/middleware"
	"coach-booking/internal/pkg/config"
	"coach-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T, buf *bytes.Buffer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler())

	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"id": middleware.GetRequestID(c)}) })
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(errs.WithKind(errs.New("seat taken"), errs.KindStoreConflict))
	})
	r.GET("/boom", func(*gin.Context) { panic("selector exploded") })
	r.GET("/internal", func(c *gin.Context) {
		httperr.AbortWithKind(c, errors.New("db down"))
	})
	return r
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRequestLogger(t *testing.T) {
	t.Run("generates an id and echoes it", func(t *testing.T) {
		var buf bytes.Buffer
		r := newPipeline(t, &buf)
		rec := nethttptest.NewRecorder()

		r.ServeHTTP(rec, nethttptest.NewRequest(http.MethodGet, "/ok", nil))

		id := rec.Header().Get(middleware.HeaderRequestID)
		require.NotEmpty(t, id)
		assert.Contains(t, rec.Body.String(), id)

		entry := lastLogLine(t, &buf)
		assert.Equal(t, "request completed", entry["msg"])
		assert.Equal(t, id, entry["request_id"])
		assert.Equal(t, "INFO", entry["level"])
	})

	t.Run("keeps a caller supplied id", func(t *testing.T) {
		var buf bytes.Buffer
		r := newPipeline(t, &buf)
		req := nethttptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(middleware.HeaderRequestID, "trace-123")
		rec := nethttptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, "trace-123", rec.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("server errors log at error with kind and stack", func(t *testing.T) {
		var buf bytes.Buffer
		r := newPipeline(t, &buf)
		rec := nethttptest.NewRecorder()

		r.ServeHTTP(rec, nethttptest.NewRequest(http.MethodGet, "/internal", nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		entry := lastLogLine(t, &buf)
		assert.Equal(t, "ERROR", entry["level"])
		assert.Equal(t, "Internal", entry["error_kind"])
		assert.NotEmpty(t, entry["stack"])
	})
}

func TestErrorHandler(t *testing.T) {
	var buf bytes.Buffer
	r := newPipeline(t, &buf)
	rec := nethttptest.NewRecorder()

	r.ServeHTTP(rec, nethttptest.NewRequest(http.MethodGet, "/conflict", nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body httperr.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "StoreConflict", body.Error.Kind)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	r := newPipeline(t, &buf)
	rec := nethttptest.NewRecorder()

	r.ServeHTTP(rec, nethttptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
	assert.Contains(t, buf.String(), "selector exploded")
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger := middleware.NewLogger(config.LogConfig{Level: "verbose"})
	assert.True(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, logger.Enabled(t.Context(), slog.LevelDebug))
}
