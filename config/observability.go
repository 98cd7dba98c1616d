package config

import (
	"log/slog"
	"strings"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string    `env:"LOG_LEVEL"`
	Format LogFormat `env:"LOG_FORMAT"`
}

// Sanitize normalises level and format. Development defaults to debug text
// output, otherwise warn-level JSON so command output stays readable.
func (c *LogConfig) Sanitize(dev bool) {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	switch c.Level {
	case "debug", "info", "warn", "error":
	case "warning":
		c.Level = "warn"
	default:
		c.Level = "warn"
		if dev {
			c.Level = "debug"
		}
	}

	c.Format = LogFormat(strings.ToLower(strings.TrimSpace(string(c.Format))))
	if c.Format != LogFormatJSON && c.Format != LogFormatText {
		c.Format = LogFormatJSON
		if dev {
			c.Format = LogFormatText
		}
	}
}

// SlogLevel returns the sanitized level as a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// MetricsConfig controls emission of command and API metrics to StatsD.
type MetricsConfig struct {
	Enabled       bool   `env:"POS_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string `env:"POS_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string `env:"POS_METRICS_PREFIX"         envDefault:"posctl"`
}

// Sanitize trims the address and disables emission without one.
func (c *MetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	c.Prefix = strings.Trim(strings.TrimSpace(c.Prefix), ".")
}

// IsEnabled returns true when metrics emission is active after sanitisation.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
