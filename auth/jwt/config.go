package jwt

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/tokenkit/validation"
)

// SigningMethod defines supported JWT signing algorithms.
// Only the HMAC-SHA2 family is accepted: both token types are symmetric.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

const (
	// DefaultAccessTokenTTL is applied by ApplyDefaults when AccessTokenTTL is unset.
	DefaultAccessTokenTTL = 24 * time.Hour
	// DefaultRefreshTokenTTL is applied by ApplyDefaults when RefreshTokenTTL is unset.
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

// Config configures the token authority.
//
// The two secrets should differ: a deployment that shares them relies on the
// type claim alone to keep refresh tokens out of the access path.
type Config struct {
	// AccessSecret signs and verifies access tokens.
	AccessSecret string `yaml:"access_secret" mapstructure:"access_secret" validate:"required"`

	// RefreshSecret signs and verifies refresh tokens.
	RefreshSecret string `yaml:"refresh_secret" mapstructure:"refresh_secret" validate:"required"`

	// AccessTokenTTL is the lifetime of access tokens.
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" mapstructure:"access_token_ttl" validate:"gt=0"`

	// RefreshTokenTTL is the lifetime of refresh tokens.
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" mapstructure:"refresh_token_ttl" validate:"gt=0"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method" validate:"omitempty,oneof=HS256 HS384 HS512"`
}

// ApplyDefaults fills in zero-value fields with defaults.
// NewAuthority does not call it: an unset TTL passed straight to the
// constructor is a configuration error.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
}

// Validate checks secrets, lifetimes and the signing method.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// signingMethod returns the golang-jwt SigningMethod instance.
func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}

// secret returns the key that signs and verifies tokens of the given type.
func (c *Config) secret(typ TokenType) []byte {
	if typ == TokenRefresh {
		return []byte(c.RefreshSecret)
	}
	return []byte(c.AccessSecret)
}

// ttl returns the lifetime for tokens of the given type.
func (c *Config) ttl(typ TokenType) time.Duration {
	if typ == TokenRefresh {
		return c.RefreshTokenTTL
	}
	return c.AccessTokenTTL
}
