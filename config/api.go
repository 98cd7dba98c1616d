package config

import (
	"strings"
	"time"
)

const (
	defaultAPIURL     = "http://localhost:8088/api"
	defaultAPITimeout = 15 * time.Second
	maxAPITimeout     = 2 * time.Minute
)

// APIConfig locates the POS REST API.
type APIConfig struct {
	// URL is the API base, including the /api path prefix.
	URL       string        `env:"URL"        envDefault:"http://localhost:8088/api"`
	Timeout   time.Duration `env:"TIMEOUT"    envDefault:"15s"`
	UserAgent string        `env:"USER_AGENT" envDefault:"posctl"`
}

// Sanitize trims the base URL and clamps the timeout.
func (c *APIConfig) Sanitize() {
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		c.URL = defaultAPIURL
	}
	switch {
	case c.Timeout <= 0:
		c.Timeout = defaultAPITimeout
	case c.Timeout > maxAPITimeout:
		c.Timeout = maxAPITimeout
	}
	c.UserAgent = strings.TrimSpace(c.UserAgent)
}
