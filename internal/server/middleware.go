package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

const requestIDHeader = "X-Request-ID"

// requestLogger attaches a logger carrying the request id to the request
// context and echoes the id back in the response.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		logger := log.FromContext(c.Request.Context()).WithValues("requestId", id)
		c.Request = c.Request.WithContext(log.IntoContext(c.Request.Context(), logger))
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.V(1).Info("Handled request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
