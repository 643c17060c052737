// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are searched in the usual service locations (./cmd/<service>/,
// ./config/, the working directory) unless given explicitly. Environment
// variables win over file values; AUTH_JWT_ACCESS_SECRET binds to the key
// auth.jwt.access_secret. With WithEnvPrefix("AUTHD") only AUTHD_* variables
// are considered and the prefix is stripped before binding.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Auth auth.Config     `yaml:"auth" mapstructure:"auth"`
//	}
//
//	var cfg Config
//	if err := config.Load("authd", &cfg); err != nil {
//	    log.Fatal(err)
//	}
package config
