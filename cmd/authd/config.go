package main

import (
	"fmt"

	"github.com/kbukum/tokenkit/auth"
	"github.com/kbukum/tokenkit/config"
	"github.com/kbukum/tokenkit/observability"
	"github.com/kbukum/tokenkit/server"
	"github.com/kbukum/tokenkit/server/middleware"
)

const serviceName = "authd"

// Config is the authd configuration file layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`

	// RefreshRateLimit throttles POST /auth/refresh per client IP. A negative
	// per_second disables it.
	RefreshRateLimit middleware.RateLimitConfig `yaml:"refresh_rate_limit" mapstructure:"refresh_rate_limit"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Name == "" {
		c.Name = serviceName
	}
	c.Auth.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Server.Debug = c.Debug
	c.Observability.ApplyDefaults()
	if c.RefreshRateLimit.PerSecond == 0 {
		c.RefreshRateLimit.PerSecond = 5
		c.RefreshRateLimit.Burst = 10
	}
}

// Validate checks every section. authd has nothing to serve without a token
// authority, so auth must be enabled.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if !c.Auth.Enabled {
		return fmt.Errorf("auth.enabled must be true for %s", serviceName)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	if c.RefreshRateLimit.Burst < 0 {
		return fmt.Errorf("refresh_rate_limit.burst must be non-negative (got: %d)", c.RefreshRateLimit.Burst)
	}
	return nil
}
