package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tokenkit/observability"
)

// Metrics records request count, latency and in-flight requests. Routes are
// labeled by their registered pattern; unmatched paths share one label.
func Metrics(m *observability.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		m.RecordRequestStart(ctx)
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequestEnd(ctx, route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
