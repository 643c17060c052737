package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/tokenkit/auth"
	"github.com/kbukum/tokenkit/auth/authctx"
	"github.com/kbukum/tokenkit/auth/jwt"
	apperrors "github.com/kbukum/tokenkit/errors"
	"github.com/kbukum/tokenkit/logger"
	"github.com/kbukum/tokenkit/observability"
)

// PrincipalKey is the gin context key holding the verified jwt.Principal.
const PrincipalKey = "auth.principal"

// AuthConfig configures the bearer authentication middleware.
type AuthConfig struct {
	// Verifier checks access tokens. A nil Verifier rejects every request with 503.
	Verifier auth.AccessVerifier
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
	// Logger receives rejection events (default: global logger).
	Logger *logger.Logger
}

// Auth returns a Gin middleware that requires a valid access token in the
// Authorization header. The verified Principal is stored under PrincipalKey
// and in the request context via authctx.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = logger.WithComponent("middleware.auth")
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		if cfg.Verifier == nil {
			abortWithError(c, apperrors.ServiceUnavailable("token authority"))
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			abortWithError(c, apperrors.Unauthorized("Bearer token required."))
			return
		}

		ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanVerifyAccess)
		p, err := cfg.Verifier.VerifyAccessToken(token)
		if err != nil {
			kind := jwt.KindOf(err)
			observability.EndSpan(span, err, attribute.String(observability.AttrAuthResult, kind.String()))
			log.Debug("access token rejected", logger.Fields(
				logger.FieldPath, path,
				logger.FieldReason, kind.String(),
				logger.FieldRequestID, c.GetString(RequestIDKey),
			))

			appErr := jwt.ToAppError(err)
			if appErr.HTTPStatus == http.StatusUnauthorized {
				c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			}
			abortWithError(c, appErr)
			return
		}
		observability.EndSpan(span, nil,
			attribute.String(observability.AttrAuthResult, "ok"),
			attribute.Int64(observability.AttrUserID, p.UserID),
			attribute.String(observability.AttrUserRole, p.Role.String()),
		)

		c.Request = c.Request.WithContext(authctx.WithPrincipal(ctx, p))
		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Principal returns the Principal stored by Auth.
func Principal(c *gin.Context) (jwt.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return jwt.Principal{}, false
	}
	p, ok := v.(jwt.Principal)
	return p, ok
}

func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}
