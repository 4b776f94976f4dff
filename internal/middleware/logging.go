package middleware

import (
	"time"

	"taskify-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id (reusing X-Request-ID when the
// client sends one) and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// The auth middleware may have replaced the request context.
		logger.Info(c.Request.Context(), "request complete",
			"http.req.method", c.Request.Method,
			"http.req.path", c.FullPath(),
			"http.resp.status", c.Writer.Status(),
			"http.resp.bytes", c.Writer.Size(),
			"http.resp.took_ms", time.Since(start).Milliseconds(),
		)
	}
}
