package auth

import (
	"os"
	"time"

	sectoken "parley/internal/security/token"
)

// Config defines runtime configuration for token issuance and validation.
//
// It is intentionally explicit and environment-driven so that production
// deployments can tune security parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim of issued tokens.
	Issuer string

	// TokenTTL defines the maximum age of an issued token. Tokens older than
	// this are rejected during validation.
	TokenTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	ClockSkew time.Duration

	// Secret signs tokens (HMAC) and keys verifier fingerprints.
	Secret []byte
}

// DefaultConfig returns defaults suitable for development.
// The secret must still be provided; there is no default signing key.
func DefaultConfig() Config {
	return Config{
		Issuer:    "parley",
		TokenTTL:  24 * time.Hour,
		ClockSkew: 30 * time.Second,
	}
}

// LoadConfigFromEnv loads auth configuration from environment variables.
//
// Required:
//   - PARLEY_TOKEN_SECRET (>= 32 bytes)
//
// Optional (durations must be valid Go duration strings):
//   - PARLEY_TOKEN_ISSUER
//   - PARLEY_TOKEN_TTL
//   - PARLEY_TOKEN_CLOCK_SKEW
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	secret, err := sectoken.SecretFromEnv()
	if err != nil {
		return Config{}, ErrConfig
	}
	cfg.Secret = secret

	if v := os.Getenv("PARLEY_TOKEN_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("PARLEY_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TokenTTL = d
	}

	if v := os.Getenv("PARLEY_TOKEN_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	return cfg, nil
}
