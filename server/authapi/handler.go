// Package authapi exposes the token authority over HTTP.
package authapi

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/tokenkit/auth"
	"github.com/kbukum/tokenkit/auth/authctx"
	"github.com/kbukum/tokenkit/auth/jwt"
	apperrors "github.com/kbukum/tokenkit/errors"
	"github.com/kbukum/tokenkit/logger"
	"github.com/kbukum/tokenkit/observability"
	"github.com/kbukum/tokenkit/server"
	"github.com/kbukum/tokenkit/validation"
)

// TokenTypeBearer is the token_type returned with every access token.
const TokenTypeBearer = "bearer"

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshResponse carries a newly issued access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Handler serves the token routes.
type Handler struct {
	refresher auth.Refresher
	log       *logger.Logger
}

// NewHandler creates a Handler backed by refresher.
func NewHandler(refresher auth.Refresher, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.WithComponent("authapi")
	}
	return &Handler{refresher: refresher, log: log}
}

// Register mounts POST /auth/refresh, which needs no access token, and
// GET /auth/me behind authMiddleware. refreshMiddleware runs before the
// refresh handler only (typically a rate limit).
func (h *Handler) Register(r gin.IRouter, authMiddleware gin.HandlerFunc, refreshMiddleware ...gin.HandlerFunc) {
	g := r.Group("/auth")
	g.POST("/refresh", append(refreshMiddleware, h.Refresh)...)
	g.GET("/me", authMiddleware, h.Me)
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// is not rotated.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("body", "expected a JSON object with refresh_token").WithCause(err))
		return
	}
	if err := validation.Validate(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	_, span := observability.StartSpan(c.Request.Context(), observability.SpanRefresh)
	access, err := h.refresher.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		kind := jwt.KindOf(err)
		observability.EndSpan(span, err, attribute.String(observability.AttrAuthResult, kind.String()))
		h.log.Debug("refresh rejected", logger.Fields(logger.FieldReason, kind.String()))
		server.RespondWithError(c, jwt.ToAppError(err))
		return
	}
	observability.EndSpan(span, nil, attribute.String(observability.AttrAuthResult, "ok"))

	server.RespondOK(c, RefreshResponse{AccessToken: access, TokenType: TokenTypeBearer})
}

// Me returns the Principal of the verified access token.
func (h *Handler) Me(c *gin.Context) {
	p, err := authctx.PrincipalOrError(c.Request.Context())
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}
	server.RespondOK(c, p)
}
