package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/tokenkit/auth/jwt"
	apperrors "github.com/kbukum/tokenkit/errors"
)

// RequireRole allows the request only if the Principal stored by Auth has one
// of roles. It must run after Auth; without a Principal it answers 401.
func RequireRole(roles ...jwt.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok {
			abortWithError(c, apperrors.Unauthorized(""))
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, apperrors.Forbidden("").WithDetail("role", p.Role.String()))
	}
}
