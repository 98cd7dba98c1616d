package config

import (
	"os"
	"strings"
)

const defaultProfile = "default"

// AppConfig is the console configuration, composed from the domain configs
// in this package and loaded from environment variables with
// github.com/caarlos0/env:
//   - api.go: REST API endpoint
//   - storage.go: session storage backend and Redis
//   - observability.go: logging and StatsD metrics
//   - display.go: locale used for amounts
type AppConfig struct {
	// IsDev enables debug logging and text output unless overridden.
	// Set POS_DEV=true or NODE_ENV=development.
	IsDev bool `env:"POS_DEV" envDefault:"false"`

	// Profile namespaces persisted session state so several sign-ins can
	// coexist on one machine.
	Profile string `env:"POS_PROFILE" envDefault:"default"`

	API     APIConfig `envPrefix:"POS_API_"`
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`
	Log     LogConfig
	Metrics MetricsConfig
	Display DisplayConfig
}

// Sanitize applies guardrails to values loaded from env.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.Profile = strings.TrimSpace(c.Profile)
	if c.Profile == "" || strings.ContainsAny(c.Profile, `/\:`) {
		c.Profile = defaultProfile
	}

	c.API.Sanitize()
	c.Storage.Sanitize(c.Profile)
	c.Redis.Sanitize()
	c.Log.Sanitize(c.IsDev)
	c.Metrics.Sanitize()
	c.Display.Sanitize()
}

// detectDevMode falls back to NODE_ENV, which the web front end uses.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
