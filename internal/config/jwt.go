package config

import (
	"fmt"
	"time"
)

// DefaultJWTExpirationHours is the lifetime of issued tokens.
const DefaultJWTExpirationHours = 24

// minJWTSecretLength keeps HS256 keys from being trivially guessable.
const minJWTSecretLength = 16

// JWTConfig holds configuration for JWT token generation and validation.
// An empty Secret disables authentication.
type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration-hours"`
}

// Enabled reports whether POST routes require a bearer token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

// TTL is how long an issued token stays valid.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if len(c.Secret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
