package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// EnvSafetyMaxMessageLength overrides the maximum message length in characters.
	EnvSafetyMaxMessageLength = "SAFETY_MAX_MESSAGE_LENGTH"

	// EnvSafetyRateLimit overrides the per-window message allowance.
	EnvSafetyRateLimit = "SAFETY_RATE_LIMIT"

	// EnvSafetyRateWindow overrides the rate limit window.
	EnvSafetyRateWindow = "SAFETY_RATE_WINDOW"
)

// SafetyConfig contains message safety configuration: length cap and the
// per-sender, per-collaboration rate limit.
type SafetyConfig struct {
	MaxMessageLength int    `toml:"max_message_length"`
	RateLimit        int    `toml:"rate_limit"`
	RateWindow       string `toml:"rate_window"`
}

// RateWindowDuration parses and returns the rate limit window as a time.Duration.
func (c *SafetyConfig) RateWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.RateWindow)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the safety configuration.
func (c *SafetyConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *SafetyConfig) Merge(overlay *SafetyConfig) {
	if overlay.MaxMessageLength != 0 {
		c.MaxMessageLength = overlay.MaxMessageLength
	}
	if overlay.RateLimit != 0 {
		c.RateLimit = overlay.RateLimit
	}
	if overlay.RateWindow != "" {
		c.RateWindow = overlay.RateWindow
	}
}

func (c *SafetyConfig) loadDefaults() {
	if c.MaxMessageLength == 0 {
		c.MaxMessageLength = 10000
	}
	if c.RateLimit == 0 {
		c.RateLimit = 30
	}
	if c.RateWindow == "" {
		c.RateWindow = "1m"
	}
}

func (c *SafetyConfig) loadEnv() {
	if v := os.Getenv(EnvSafetyMaxMessageLength); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxMessageLength = n
		}
	}
	if v := os.Getenv(EnvSafetyRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit = n
		}
	}
	if v := os.Getenv(EnvSafetyRateWindow); v != "" {
		c.RateWindow = v
	}
}

func (c *SafetyConfig) validate() error {
	if c.MaxMessageLength < 1 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate_limit must be positive")
	}
	if d, err := time.ParseDuration(c.RateWindow); err != nil || d <= 0 {
		return fmt.Errorf("invalid rate_window: %s", c.RateWindow)
	}
	return nil
}
