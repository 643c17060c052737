package auth

import "github.com/kbukum/tokenkit/auth/jwt"

// AccessVerifier verifies access tokens and returns the principal they carry.
// HTTP middleware depends on this interface rather than on *jwt.Authority.
type AccessVerifier interface {
	VerifyAccessToken(token string) (jwt.Principal, error)
}

// AccessVerifierFunc adapts an ordinary function to AccessVerifier.
type AccessVerifierFunc func(token string) (jwt.Principal, error)

// VerifyAccessToken implements AccessVerifier.
func (f AccessVerifierFunc) VerifyAccessToken(token string) (jwt.Principal, error) {
	return f(token)
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	RefreshAccessToken(refreshToken string) (string, error)
}

// Issuer mints tokens for an already authenticated principal.
type Issuer interface {
	IssueAccessToken(p jwt.Principal) (string, error)
	IssueRefreshToken(p jwt.Principal) (string, error)
	IssueTokenPair(p jwt.Principal) (jwt.TokenPair, error)
}

// TokenAuthority is the full set of operations offered by *jwt.Authority.
type TokenAuthority interface {
	Issuer
	AccessVerifier
	Refresher
	VerifyRefreshToken(token string) (jwt.Principal, error)
}

var _ TokenAuthority = (*jwt.Authority)(nil)
