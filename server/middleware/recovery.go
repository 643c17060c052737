package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/tokenkit/errors"
	"github.com/kbukum/tokenkit/logger"
)

// Recovery returns a Gin middleware that turns a panic into a 500 response
// with an INTERNAL_ERROR body and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.WithComponent("middleware.recovery")
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
					logger.FieldPath, c.Request.URL.Path,
					logger.FieldMethod, c.Request.Method,
					logger.FieldClientIP, c.ClientIP(),
					logger.FieldRequestID, c.GetString(RequestIDKey),
				))
				abortWithError(c, apperrors.Internal(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}
