package auth

import (
	"fmt"

	"github.com/kbukum/tokenkit/auth/jwt"
)

// Config holds authentication configuration as loaded from YAML or env.
// JWT is a pointer so an absent section stays nil and skips defaults.
type Config struct {
	// Enabled controls whether authentication is active.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// JWT configures the token authority (nil if not used).
	JWT *jwt.Config `yaml:"jwt" mapstructure:"jwt"`
}

// ApplyDefaults fills lifetimes and signing method of a present JWT section.
func (c *Config) ApplyDefaults() {
	if c.JWT != nil {
		c.JWT.ApplyDefaults()
	}
}

// Validate checks the configuration. A disabled config is always valid;
// an enabled one needs a JWT section.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.JWT == nil {
		return fmt.Errorf("auth.jwt is required when auth is enabled")
	}
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	return nil
}

// NewAuthority builds the token authority described by the JWT section.
func (c *Config) NewAuthority(opts ...jwt.Option) (*jwt.Authority, error) {
	if c.JWT == nil {
		return nil, fmt.Errorf("auth: no jwt configuration")
	}
	return jwt.NewAuthority(*c.JWT, opts...)
}

// Describe returns a one-line summary for the startup log.
// Example: "JWT(HS256) access=1h0m0s refresh=720h0m0s"
func (c *Config) Describe() string {
	if !c.Enabled {
		return "disabled"
	}
	if c.JWT == nil {
		return "enabled (no providers configured)"
	}
	return fmt.Sprintf("JWT(%s) access=%s refresh=%s", c.JWT.Method, c.JWT.AccessTokenTTL, c.JWT.RefreshTokenTTL)
}
