// Package jwt issues and verifies the access and refresh tokens of an
// authenticated principal.
//
// An Authority owns two HMAC secrets and two lifetimes. Access tokens and
// refresh tokens are signed with different secrets and carry a "type" claim,
// so neither can stand in for the other:
//
//	auth, err := jwt.NewAuthority(jwt.Config{
//	    AccessSecret:    os.Getenv("ACCESS_SECRET"),
//	    RefreshSecret:   os.Getenv("REFRESH_SECRET"),
//	    AccessTokenTTL:  time.Hour,
//	    RefreshTokenTTL: 24 * time.Hour,
//	})
//	pair, err := auth.IssueTokenPair(jwt.Principal{UserID: 1, Role: jwt.RoleUser})
//	p, err := auth.VerifyAccessToken(pair.AccessToken)
//	access, err := auth.RefreshAccessToken(pair.RefreshToken)
//
// The authority is stateless: there is no revocation, and a token stays valid
// until its exp claim passes. Expiry is compared exactly, with no leeway.
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/tokenkit/logger"
)

// Authority issues and verifies tokens. It is immutable after construction
// and safe for concurrent use.
type Authority struct {
	cfg     Config
	method  gojwt.SigningMethod
	now     func() time.Time
	log     *logger.Logger
	metrics *Metrics
}

// Option customizes an Authority.
type Option func(*Authority)

// WithClock sets the time source used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(a *Authority) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the logger. The default is the global logger tagged with
// the "auth.jwt" component.
func WithLogger(l *logger.Logger) Option {
	return func(a *Authority) { a.log = l }
}

// WithMetrics records issuance and verification counters.
func WithMetrics(m *Metrics) Option {
	return func(a *Authority) { a.metrics = m }
}

// NewAuthority validates cfg and returns an Authority holding a copy of it.
// An empty Method means HS256; every other field must be set.
func NewAuthority(cfg Config, opts ...Option) (*Authority, error) {
	if cfg.Method == "" {
		cfg.Method = HS256
	}
	if err := cfg.Validate(); err != nil {
		return nil, &Error{Kind: KindConfig, Op: "new authority", Err: err}
	}

	a := &Authority{
		cfg:    cfg,
		method: cfg.signingMethod(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.WithComponent("auth.jwt")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		a.log.Warn("access and refresh secrets are identical")
	}
	return a, nil
}

// IssueAccessToken signs an access token for p with the access secret.
func (a *Authority) IssueAccessToken(p Principal) (string, error) {
	token, _, err := a.issue(p, TokenAccess, a.now())
	return token, err
}

// IssueRefreshToken signs a refresh token for p with the refresh secret.
func (a *Authority) IssueRefreshToken(p Principal) (string, error) {
	token, _, err := a.issue(p, TokenRefresh, a.now())
	return token, err
}

// IssueTokenPair signs an access and a refresh token for p at one instant.
func (a *Authority) IssueTokenPair(p Principal) (TokenPair, error) {
	now := a.now()
	access, accessExp, err := a.issue(p, TokenAccess, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := a.issue(p, TokenRefresh, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// VerifyAccessToken checks signature, expiry and type of an access token and
// returns the principal it carries.
func (a *Authority) VerifyAccessToken(token string) (Principal, error) {
	return a.verify("verify access token", token, TokenAccess)
}

// VerifyRefreshToken checks signature, expiry and type of a refresh token and
// returns the principal it carries.
func (a *Authority) VerifyRefreshToken(token string) (Principal, error) {
	return a.verify("verify refresh token", token, TokenRefresh)
}

// RefreshAccessToken verifies refreshToken and issues a new access token for
// the same principal. The refresh token itself is not rotated. Verification
// errors are returned unchanged.
func (a *Authority) RefreshAccessToken(refreshToken string) (string, error) {
	p, err := a.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	return a.IssueAccessToken(p)
}

func (a *Authority) issue(p Principal, typ TokenType, now time.Time) (string, time.Time, error) {
	if !p.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("jwt: issue %s token: unknown role %d", typ, uint8(p.Role))
	}

	now = now.UTC()
	claims := newClaims(p, typ, now, now.Add(a.cfg.ttl(typ)))

	signed, err := gojwt.NewWithClaims(a.method, claims).SignedString(a.cfg.secret(typ))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign %s token: %w", typ, err)
	}

	a.metrics.recordIssued(typ)
	a.log.Debug("token issued", logger.Fields(
		logger.FieldUserID, p.UserID,
		logger.FieldTokenType, string(typ),
	))
	return signed, claims.ExpiresAt.Time, nil
}

// verify checks, in order: signature, expiry, type claim, userId claim.
func (a *Authority) verify(op, token string, want TokenType) (Principal, error) {
	claims, err := a.parse(token, want)
	if err != nil {
		kind := classify(err)
		if kind == KindInvalidSignature {
			// A token of the other type that is fully valid under the other
			// secret is authentic, just presented to the wrong operation.
			other, otherErr := a.parse(token, want.counterpart())
			if otherErr == nil && other.Type == want.counterpart() {
				kind = KindWrongTokenType
				err = fmt.Errorf("got %q token, want %q", other.Type, want)
			}
		}
		return Principal{}, a.reject(op, want, kind, err)
	}

	if claims.Type != want {
		return Principal{}, a.reject(op, want, KindWrongTokenType,
			fmt.Errorf("got %q token, want %q", claims.Type, want))
	}
	if claims.UserID == nil {
		return Principal{}, a.reject(op, want, KindMissingRequiredClaim, errors.New("userId claim is missing"))
	}
	if claims.IssuedAt == nil {
		return Principal{}, a.reject(op, want, KindMissingRequiredClaim, errors.New("iat claim is missing"))
	}

	a.metrics.recordVerified(want, "ok")
	return claims.principal(), nil
}

// parse verifies token against the secret for typ. It does not look at the
// type claim.
func (a *Authority) parse(token string, typ TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := gojwt.ParseWithClaims(token, claims,
		func(t *gojwt.Token) (interface{}, error) {
			if t.Method.Alg() != a.method.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
			}
			return a.cfg.secret(typ), nil
		},
		gojwt.WithValidMethods([]string{a.method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a *Authority) reject(op string, typ TokenType, kind ErrorKind, cause error) error {
	a.metrics.recordVerified(typ, kind.String())
	a.log.Debug("token rejected", logger.Fields(
		logger.FieldOperation, op,
		logger.FieldTokenType, string(typ),
		logger.FieldReason, kind.String(),
	))
	return &Error{Kind: kind, Op: op, Err: cause}
}
