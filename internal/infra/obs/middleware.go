package obs

import (
	"log/slog"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"
const requestIDContextKey = "stayfinder.request_id"

// Middleware bundles the observability middleware used by the HTTP server.
type Middleware struct {
	Logger *slog.Logger
}

// RequestID assigns every request an id, honoring one supplied by the client.
func (m Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware emits one structured line per request.
func (m Middleware) LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.Logger == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if id, ok := c.Get(requestIDContextKey); ok {
			attrs = append(attrs, "request_id", id)
		}
		if c.Writer.Status() >= 500 {
			m.Logger.Error("request", attrs...)
			return
		}
		m.Logger.Info("request", attrs...)
	}
}
