package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/tourquote/internal/observability"
)

// Metrics records request count and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.ObserveHTTP(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
