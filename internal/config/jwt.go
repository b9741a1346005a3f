package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by NewJWTConfig.
const (
	EnvJWTSecret          = "JWT_SECRET"
	EnvJWTExpirationHours = "JWT_EXPIRATION_HOURS"
	EnvJWTIssuer          = "JWT_ISSUER"
)

// Token lifetime bounds in hours.
const (
	DefaultJWTExpirationHours = 24
	MaxJWTExpirationHours     = 30 * 24
)

// DefaultJWTIssuer is the iss claim stamped on and required of every token.
const DefaultJWTIssuer = "profile_agent"

// JWTConfig holds the HMAC secret and claims used for /me bearer tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	Issuer          string
}

// NewJWTConfig reads the token settings from the environment.
// JWT_SECRET must be set; the lifetime and issuer fall back to defaults.
func NewJWTConfig() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          os.Getenv(EnvJWTSecret),
		ExpirationHours: DefaultJWTExpirationHours,
		Issuer:          strings.TrimSpace(os.Getenv(EnvJWTIssuer)),
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%s is required but not set", EnvJWTSecret)
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultJWTIssuer
	}

	if raw := strings.TrimSpace(os.Getenv(EnvJWTExpirationHours)); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s %q: %w", EnvJWTExpirationHours, raw, err)
		}
		cfg.ExpirationHours = hours
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the secret is present and the lifetime is within bounds.
func (c *JWTConfig) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt config error: secret is empty")
	}
	if c.ExpirationHours < 1 || c.ExpirationHours > MaxJWTExpirationHours {
		return fmt.Errorf("jwt config error: expiration must be between 1 and %d hours, got %d",
			MaxJWTExpirationHours, c.ExpirationHours)
	}
	return nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
