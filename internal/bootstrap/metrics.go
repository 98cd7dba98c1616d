package bootstrap

import (
	"log/slog"

	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/observability/statsd"
)

// Metrics is the sink handed to services plus the client to close, if any.
type Metrics struct {
	Sink   statsd.Sink
	client *statsd.Client
}

// OpenMetrics connects to StatsD when enabled. A client that cannot be
// created is logged and replaced by a discarding sink; metrics never stop a
// command.
func OpenMetrics(cfg *config.AppConfig, logger *slog.Logger) *Metrics {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Metrics{Sink: statsd.Discard}
	if cfg == nil || !cfg.Metrics.IsEnabled() {
		return m
	}

	client, err := statsd.NewClient(statsd.Config{
		Address:    cfg.Metrics.StatsdAddress,
		Prefix:     cfg.Metrics.Prefix,
		Logger:     logger,
		GlobalTags: statsd.Tags{"profile": cfg.Profile},
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return m
	}
	m.Sink = client
	m.client = client
	return m
}

// Close releases the StatsD socket.
func (m *Metrics) Close() error {
	if m == nil {
		return nil
	}
	return m.client.Close()
}
