package nfx

import (
	"github.com/IAM-Haris-K/NFX/internal/app/config"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// WindowConfig selects the historical window and its timezone.
	WindowConfig = config.WindowConfig
	// FeedConfig configures the live feed queue, cadence and retention.
	FeedConfig = config.FeedConfig
	// FeedPolicy controls queue thresholds.
	FeedPolicy = ports.Policy
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig sets the log level.
	LogConfig = config.LogConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// ParseConfig decodes YAML from memory.
func ParseConfig(raw []byte) (*Config, error) {
	return config.Parse(raw)
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return config.Default()
}
