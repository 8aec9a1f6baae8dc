package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// EnvAuthSessionSecret overrides the session token signing secret.
	EnvAuthSessionSecret = "AUTH_SESSION_SECRET"

	// EnvAuthChallengeTTL overrides the challenge time-to-live.
	EnvAuthChallengeTTL = "AUTH_CHALLENGE_TTL"

	// EnvAuthSessionTTL overrides the session token lifetime.
	EnvAuthSessionTTL = "AUTH_SESSION_TTL"

	// EnvAuthRefreshGrace overrides the post-expiry refresh grace window.
	EnvAuthRefreshGrace = "AUTH_REFRESH_GRACE"
)

// AuthConfig contains authentication configuration: challenge lifetime,
// session token lifetime, and the server-side signing secret.
type AuthConfig struct {
	SessionSecret string `toml:"session_secret"`
	ChallengeTTL  string `toml:"challenge_ttl"`
	SessionTTL    string `toml:"session_ttl"`
	RefreshGrace  string `toml:"refresh_grace"`
}

// ChallengeTTLDuration parses and returns the challenge TTL as a time.Duration.
func (c *AuthConfig) ChallengeTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.ChallengeTTL)
	return d
}

// SessionTTLDuration parses and returns the session TTL as a time.Duration.
func (c *AuthConfig) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// RefreshGraceDuration parses and returns the refresh grace window as a time.Duration.
func (c *AuthConfig) RefreshGraceDuration() time.Duration {
	d, _ := time.ParseDuration(c.RefreshGrace)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the auth configuration.
func (c *AuthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.SessionSecret != "" {
		c.SessionSecret = overlay.SessionSecret
	}
	if overlay.ChallengeTTL != "" {
		c.ChallengeTTL = overlay.ChallengeTTL
	}
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
	if overlay.RefreshGrace != "" {
		c.RefreshGrace = overlay.RefreshGrace
	}
}

func (c *AuthConfig) loadDefaults() {
	if c.ChallengeTTL == "" {
		c.ChallengeTTL = "120s"
	}
	if c.SessionTTL == "" {
		c.SessionTTL = "168h"
	}
	if c.RefreshGrace == "" {
		c.RefreshGrace = "24h"
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthSessionSecret); v != "" {
		c.SessionSecret = v
	}
	if v := os.Getenv(EnvAuthChallengeTTL); v != "" {
		c.ChallengeTTL = v
	}
	if v := os.Getenv(EnvAuthSessionTTL); v != "" {
		c.SessionTTL = v
	}
	if v := os.Getenv(EnvAuthRefreshGrace); v != "" {
		c.RefreshGrace = v
	}
}

func (c *AuthConfig) validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("session_secret required")
	}
	if len(c.SessionSecret) < 32 {
		return fmt.Errorf("session_secret must be at least 32 characters")
	}
	if d, err := time.ParseDuration(c.ChallengeTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid challenge_ttl: %s", c.ChallengeTTL)
	}
	if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid session_ttl: %s", c.SessionTTL)
	}
	if _, err := time.ParseDuration(c.RefreshGrace); err != nil {
		return fmt.Errorf("invalid refresh_grace: %w", err)
	}
	return nil
}
