package collector

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

// maxCatchUp bounds how many missed cadence steps one tick replays.
const maxCatchUp = 1024

type Config struct {
	Interval  time.Duration     `yaml:"interval"`
	Cadence   time.Duration     `yaml:"cadence"`
	Protocols []domain.Protocol `yaml:"protocols"`
}

func (c *Config) ApplyDefaults() {
	if c.Cadence <= 0 {
		c.Cadence = time.Second
	}
	if c.Interval <= 0 {
		c.Interval = c.Cadence
	}
}

func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be > 0, got %s", c.Interval)
	}
	return c.step(1).Validate()
}

// step is the window of n cadence steps starting at the anchor.
func (c Config) step(n int) synth.WindowSpec {
	return synth.WindowSpec{
		StartOffset: 0,
		EndOffset:   time.Duration(n) * c.Cadence,
		Cadence:     c.Cadence,
		Protocols:   c.Protocols,
	}
}

// SynthCollector is a simulated live capture: every interval it emits the
// cadence steps that elapsed since the previous tick, one sample per
// protocol per step.
type SynthCollector struct {
	gen *synth.Generator
	now func() time.Time
	cfg atomic.Pointer[Config]

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type Option func(*SynthCollector)

// WithClock overrides time.Now for step scheduling.
func WithClock(now func() time.Time) Option {
	return func(c *SynthCollector) {
		if now != nil {
			c.now = now
		}
	}
}

func NewSynthCollector(gen *synth.Generator, cfg Config, opts ...Option) (*SynthCollector, error) {
	if gen == nil {
		return nil, fmt.Errorf("synth collector: generator is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("synth collector: %w", err)
	}
	c := &SynthCollector{gen: gen, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.cfg.Store(&cfg)
	return c, nil
}

// Reconfigure swaps cadence and protocols for subsequent ticks. The tick
// interval is fixed once started.
func (c *SynthCollector) Reconfigure(cfg Config) error {
	cur := c.cfg.Load()
	if cfg.Interval <= 0 {
		cfg.Interval = cur.Interval
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("synth collector: %w", err)
	}
	c.cfg.Store(&cfg)
	return nil
}

func (c *SynthCollector) Config() Config { return *c.cfg.Load() }

func (c *SynthCollector) Start(out chan<- *domain.Sample) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return fmt.Errorf("synth collector already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.started = true

	c.wg.Add(1)
	go c.run(ctx, out)
	return nil
}

func (c *SynthCollector) Stop() error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	return nil
}

func (c *SynthCollector) run(ctx context.Context, out chan<- *domain.Sample) {
	defer c.wg.Done()

	cfg := c.cfg.Load()
	next := c.now().Truncate(cfg.Cadence)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		var ok bool
		if next, ok = c.emitDue(ctx, next, out); !ok {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// emitDue sends every step from next up to now and returns the following
// step. It reports false when ctx ended mid-send.
func (c *SynthCollector) emitDue(ctx context.Context, next time.Time, out chan<- *domain.Sample) (time.Time, bool) {
	cfg := c.cfg.Load()
	if aligned := next.Truncate(cfg.Cadence); !aligned.Equal(next) {
		next = aligned.Add(cfg.Cadence)
	}

	now := c.now()
	if next.After(now) {
		return next, true
	}
	n := int(now.Sub(next)/cfg.Cadence) + 1
	if n > maxCatchUp {
		next = next.Add(time.Duration(n-maxCatchUp) * cfg.Cadence)
		n = maxCatchUp
	}

	seq, err := c.gen.GenerateAt(next, cfg.step(n))
	if err != nil {
		// config was validated on store; nothing to emit
		return next.Add(time.Duration(n) * cfg.Cadence), true
	}
	for _, s := range seq.Samples() {
		s := s
		select {
		case out <- &s:
		case <-ctx.Done():
			return next, false
		}
	}
	return next.Add(time.Duration(n) * cfg.Cadence), true
}

var _ ports.Collector = (*SynthCollector)(nil)
