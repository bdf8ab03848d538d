package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IAM-Haris-K/NFX/internal/adapters/collector"
	"github.com/IAM-Haris-K/NFX/internal/chart"
	"github.com/IAM-Haris-K/NFX/internal/ports"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

// Window presets.
const (
	PresetDay  = "24h"
	PresetWeek = "week"
)

type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Shaping  synth.Policy   `yaml:"shaping"`
	Viewport chart.Viewport `yaml:"viewport"`
	Feed     FeedConfig     `yaml:"feed"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

// WindowConfig selects the historical window. Explicit offsets win over the
// preset.
type WindowConfig struct {
	synth.WindowSpec `yaml:",inline"`
	Preset           string `yaml:"preset"`
	Timezone         string `yaml:"timezone"`
}

type FeedConfig struct {
	ports.Policy     `yaml:",inline"`
	collector.Config `yaml:",inline"`
	Retention        time.Duration `yaml:"retention"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML, applies defaults and validates.
func Parse(raw []byte) (*Config, error) {
	// shaping starts from the defaults so explicit zeros in yaml stick
	cfg := Config{Shaping: synth.DefaultPolicy()}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Window.Cadence == 0 && c.Window.StartOffset == 0 && c.Window.EndOffset == 0 {
		if c.Window.Preset == "" {
			c.Window.Preset = PresetDay
		}
		protocols := c.Window.Protocols
		switch c.Window.Preset {
		case PresetWeek:
			c.Window.WindowSpec = synth.LastWeek()
		default:
			c.Window.WindowSpec = synth.Last24Hours()
		}
		if len(protocols) > 0 {
			c.Window.Protocols = protocols
		}
	}

	c.Shaping.ApplyDefaults()

	if c.Viewport.Width == 0 {
		c.Viewport.Width = 800
	}
	if c.Viewport.Height == 0 {
		c.Viewport.Height = 400
	}
	if c.Viewport.Margin == (chart.Margin{}) {
		c.Viewport.Margin = chart.DefaultMargin
	}

	if c.Feed.MaxQueueLen == 0 {
		c.Feed.MaxQueueLen = 10_000
	}
	if c.Feed.MaxBatchSize == 0 {
		c.Feed.MaxBatchSize = 500
	}
	if c.Feed.IdleSleep == 0 {
		c.Feed.IdleSleep = 5 * time.Millisecond
	}
	if c.Feed.OnQueueFull == "" {
		c.Feed.OnQueueFull = ports.OnFullBlock
	}
	c.Feed.Config.ApplyDefaults()
	if len(c.Feed.Protocols) == 0 {
		c.Feed.Protocols = c.Window.Protocols
	}
	if c.Feed.Retention == 0 {
		c.Feed.Retention = 15 * time.Minute
	}

	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	var errs []error

	switch c.Window.Preset {
	case "", PresetDay, PresetWeek:
	default:
		errs = append(errs, fmt.Errorf("window.preset: unknown preset %q", c.Window.Preset))
	}
	if err := c.Window.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("window: %w", err))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("window.timezone: %w", err))
	}
	if err := c.Shaping.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("shaping: %w", err))
	}
	if err := c.Viewport.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("viewport: %w", err))
	}

	switch c.Feed.OnQueueFull {
	case ports.OnFullBlock, ports.OnFullDrop, ports.OnFullReject:
	default:
		errs = append(errs, fmt.Errorf("feed.on_queue_full: unknown policy %q", c.Feed.OnQueueFull))
	}
	if c.Feed.MaxQueueLen < 0 || c.Feed.MaxBatchSize < 0 {
		errs = append(errs, fmt.Errorf("feed: queue and batch sizes must be positive"))
	}
	if err := c.Feed.Config.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("feed: %w", err))
	}
	if c.Feed.Retention < c.Feed.Cadence {
		errs = append(errs, fmt.Errorf("feed.retention %s shorter than cadence %s", c.Feed.Retention, c.Feed.Cadence))
	}

	if c.Metrics.Addr == "" {
		errs = append(errs, fmt.Errorf("metrics.addr is required"))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Location resolves window.timezone; empty means the local zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Window.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Window.Timezone)
}

func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level: unknown level %q", l.Level)
}
