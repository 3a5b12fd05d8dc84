package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/pkg/logger"
)

// RequestLogger logs every request once it completes
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Str("role", string(GetCaller(c).Role)).
			Msg("Request handled")
	}
}

// Pinger reports whether the backing store can serve requests
type Pinger interface {
	Ping(ctx context.Context) error
}

// RequireStore fails the request with 503 when the store is unavailable
func RequireStore(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}
