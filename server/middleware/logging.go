package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/tokenkit/logger"
)

// RequestLogger logs every request with method, path, status and latency.
// Liveness and version probes are skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.WithComponent("http")
	}
	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			logger.FieldStatus, status,
			"latency", latency.String(),
			logger.FieldClientIP, c.ClientIP(),
		)
		if id := c.GetString(RequestIDKey); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if p, ok := Principal(c); ok {
			fields[logger.FieldUserID] = p.UserID
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Debug("request completed", fields)
		}
	}
}

func isProbe(path string) bool {
	switch path {
	case "/alive", "/version":
		return true
	}
	return false
}
