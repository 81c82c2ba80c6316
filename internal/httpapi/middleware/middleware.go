package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/chatbridge/gateway/internal/apperr"
	"github.com/chatbridge/gateway/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request/response with a unique id, honoring one the
// caller already supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Next()
	}
}

// AccessLog logs each HTTP request after it completes.
func AccessLog(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", c.GetString("request_id")).
			Str("remote", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery converts panics into internal errors for the boundary handler,
// capturing the stack at the panic site.
func Recovery(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				ae := apperr.Internal(fmt.Errorf("panic: %v", r))
				ae.Stack = string(debug.Stack())
				log.Error().
					Str("path", c.Request.URL.Path).
					Str("request_id", c.GetString("request_id")).
					Msgf("panic recovered: %v", r)
				_ = c.Error(ae)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Errors is the single boundary handler: every error attached to the
// context is logged and serialized as {"error":{"message", "stack"?}}.
// The stack is included only outside production.
func Errors(log *logging.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}

		ae := apperr.From(c.Errors.Last().Err)
		status := ae.HTTPStatus()

		evt := log.Warn()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.
			Int("status", status).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Err(ae).
			Msg("request failed")

		if c.Writer.Written() {
			return
		}
		body := gin.H{"message": ae.Error()}
		if !production && ae.Stack != "" {
			body["stack"] = ae.Stack
		}
		c.JSON(status, gin.H{"error": body})
	}
}
