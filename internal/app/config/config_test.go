package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/chart"
	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

func writeConfig(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	writeConfig(t, path, `
feed:
  max_queue_len: 1000
  interval: 2s
metrics:
  addr: ":9200"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Feed.IdleSleep != 5*time.Millisecond {
		t.Fatalf("expected IdleSleep default 5ms, got %s", cfg.Feed.IdleSleep)
	}
	if cfg.Feed.MaxQueueLen != 1000 {
		t.Fatalf("expected MaxQueueLen 1000, got %d", cfg.Feed.MaxQueueLen)
	}
	if cfg.Feed.MaxBatchSize != 500 {
		t.Fatalf("expected MaxBatchSize default 500, got %d", cfg.Feed.MaxBatchSize)
	}
	if cfg.Feed.Interval != 2*time.Second || cfg.Feed.Cadence != time.Second {
		t.Fatalf("unexpected feed timing interval=%s cadence=%s", cfg.Feed.Interval, cfg.Feed.Cadence)
	}
	if cfg.Metrics.Addr != ":9200" {
		t.Fatalf("expected metrics addr :9200, got %s", cfg.Metrics.Addr)
	}
	if cfg.Window.Preset != PresetDay || cfg.Window.Steps() != 25 {
		t.Fatalf("expected 24h preset with 25 steps, got %q with %d", cfg.Window.Preset, cfg.Window.Steps())
	}
	if len(cfg.Feed.Protocols) != len(domain.Protocols()) {
		t.Fatalf("expected feed protocols to follow the window, got %v", cfg.Feed.Protocols)
	}
	if cfg.Viewport.Margin != chart.DefaultMargin || cfg.Viewport.Width != 800 {
		t.Fatalf("unexpected viewport defaults %+v", cfg.Viewport)
	}
	if cfg.Shaping.Base != synth.DefaultPolicy().Base {
		t.Fatalf("expected default shaping base, got %+v", cfg.Shaping.Base)
	}
}

func TestParseWindowAndShaping(t *testing.T) {
	cfg, err := Parse([]byte(`
window:
  start: -2h
  end: 0s
  cadence: 15m
  protocols: [tcp, dns]
  timezone: UTC
shaping:
  base: {min: 10, max: 20}
  spike:
    disabled: true
  protocol_weights:
    tcp: 2
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Window.Steps() != 8 {
		t.Fatalf("expected 8 steps, got %d", cfg.Window.Steps())
	}
	if cfg.Window.Protocols[1] != domain.ProtocolDNS {
		t.Fatalf("expected DNS, got %v", cfg.Window.Protocols)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Fatalf("expected UTC location, got %v (%v)", loc, err)
	}
	if !cfg.Shaping.Spike.Disabled || cfg.Shaping.ProtocolWeight(domain.ProtocolTCP) != 2 {
		t.Fatalf("unexpected shaping %+v", cfg.Shaping)
	}
	if lvl, _ := cfg.Log.SlogLevel(); lvl.String() != "DEBUG" {
		t.Fatalf("expected debug level, got %s", lvl)
	}
}

func TestParseKeepsExplicitZeroShaping(t *testing.T) {
	cfg, err := Parse([]byte(`
shaping:
  night_factor: 0
  weekend_factor: 0
  protocol_weights:
    tcp: 0.5
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Shaping.NightFactor != 0 || cfg.Shaping.WeekendFactor != 0 {
		t.Fatalf("expected explicit zeros to stick, got night=%v weekend=%v", cfg.Shaping.NightFactor, cfg.Shaping.WeekendFactor)
	}
	if len(cfg.Shaping.HourBands) != 3 {
		t.Fatalf("expected default hour bands, got %+v", cfg.Shaping.HourBands)
	}
	if cfg.Shaping.ProtocolWeight(domain.ProtocolTCP) != 0.5 || cfg.Shaping.ProtocolWeight(domain.ProtocolICMP) != 0.1 {
		t.Fatalf("expected tcp merged over defaults, got %v", cfg.Shaping.ProtocolWeights)
	}
}

func TestParsePresetWeek(t *testing.T) {
	cfg, err := Parse([]byte("window:\n  preset: week\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Window.Steps() != 168 || len(cfg.Window.Protocols) != 0 {
		t.Fatalf("expected untagged 168 step week, got %d steps %v", cfg.Window.Steps(), cfg.Window.Protocols)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"end before start": "window:\n  start: 1h\n  end: 0s\n  cadence: 1h\n",
		"unknown protocol": "window:\n  protocols: [smtp]\n",
		"bad preset":       "window:\n  preset: month\n",
		"bad timezone":     "window:\n  timezone: Mars/Olympus\n",
		"tiny viewport":    "viewport:\n  width: 40\n  height: 40\n",
		"queue policy":     "feed:\n  on_queue_full: spill\n",
		"short retention":  "feed:\n  cadence: 1m\n  retention: 1s\n",
		"log level":        "log:\n  level: loud\n",
		"weekend > weekday": "shaping:\n  weekday_factor: 0.4\n  weekend_factor: 0.9\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected %s to be rejected", name)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Metrics.Addr != ":9100" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults %+v %+v", cfg.Metrics, cfg.Log)
	}
	if cfg.Feed.Retention != 15*time.Minute {
		t.Fatalf("expected retention 15m, got %s", cfg.Feed.Retention)
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nfx.yaml")
	writeConfig(t, path, "metrics:\n  addr: \":9100\"\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan *Config, 4)
	rejected := make(chan error, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Config) { applied <- c }, func(err error) { rejected <- err })
	}()

	// give the watcher time to register
	time.Sleep(50 * time.Millisecond)

	writeConfig(t, path, "log:\n  level: loud\n")
	select {
	case <-rejected:
	case <-time.After(3 * time.Second):
		t.Fatalf("expected invalid reload to be rejected")
	}

	writeConfig(t, path, "metrics:\n  addr: \":9300\"\n")
	select {
	case cfg := <-applied:
		if cfg.Metrics.Addr != ":9300" {
			t.Fatalf("expected reloaded addr :9300, got %s", cfg.Metrics.Addr)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("expected valid reload to be applied")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("watch returned %v", err)
	}
}
