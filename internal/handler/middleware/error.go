package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"coach-booking/internal/handler/httperr"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes a response for handlers that recorded an error with
// c.Error but returned without writing one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}

		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok {
			c.JSON(resp.Status, resp)
			return
		}
		httperr.AbortWithKind(c, last.Err)
	}
}

// Recovery turns a panic into a 500 with the standard error body.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.Error("recovered from panic",
				"panic", fmt.Sprint(rec),
				"request_id", GetRequestID(c),
				"method", c.Request.Method,
				"path", c.Request.URL.Path)

			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}
