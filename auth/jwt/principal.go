package jwt

import (
	"fmt"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// TokenType is the value of the "type" claim.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// counterpart returns the other token type.
func (t TokenType) counterpart() TokenType {
	if t == TokenAccess {
		return TokenRefresh
	}
	return TokenAccess
}

// Role is the authorization role carried in a token.
// RoleNone means the role claim is absent.
type Role uint8

const (
	RoleNone Role = iota
	RoleUser
	RoleAdmin
)

var roleNames = [...]string{
	RoleNone:  "",
	RoleUser:  "USER",
	RoleAdmin: "ADMIN",
}

// Valid reports whether r is a declared role.
func (r Role) Valid() bool {
	return int(r) < len(roleNames)
}

// String returns the wire form of the role ("" for RoleNone).
func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
	return roleNames[r]
}

// ParseRole maps a wire string to a Role. Matching is case-insensitive and
// the empty string yields RoleNone.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return RoleNone, fmt.Errorf("jwt: unknown role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("jwt: unknown role %d", uint8(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Principal is the authenticated identity carried inside a token.
// Empty Name and Email are treated as absent.
type Principal struct {
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
	UserID int64  `json:"userId"`
	Role   Role   `json:"role,omitempty"`
}

// Claims is the signed payload of every token issued by the authority.
type Claims struct {
	Name   string    `json:"name,omitempty"`
	Email  string    `json:"email,omitempty"`
	UserID *int64    `json:"userId,omitempty"`
	Role   Role      `json:"role,omitempty"`
	Type   TokenType `json:"type"`
	gojwt.RegisteredClaims
}

func newClaims(p Principal, typ TokenType, issuedAt, expiresAt time.Time) *Claims {
	uid := p.UserID
	return &Claims{
		Name:   p.Name,
		Email:  p.Email,
		UserID: &uid,
		Role:   p.Role,
		Type:   typ,
		RegisteredClaims: gojwt.RegisteredClaims{
			IssuedAt:  gojwt.NewNumericDate(issuedAt),
			ExpiresAt: gojwt.NewNumericDate(expiresAt),
		},
	}
}

// principal rebuilds the identity from verified claims.
// Callers must check UserID for nil first.
func (c *Claims) principal() Principal {
	return Principal{
		Name:   c.Name,
		Email:  c.Email,
		UserID: *c.UserID,
		Role:   c.Role,
	}
}

// TokenPair is an access and refresh token minted for the same principal at
// the same instant.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
