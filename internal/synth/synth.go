package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

// ErrInvalidConfig is returned for malformed windows or shaping policies.
var ErrInvalidConfig = errors.New("synth: invalid config")

// Source is the random stream consumed by the generator. *rand.Rand
// satisfies it; tests pass a seeded one.
type Source interface {
	Float64() float64
}

type ambientSource struct{}

func (ambientSource) Float64() float64 { return rand.Float64() }

// AmbientSource draws from the process-wide math/rand source.
func AmbientSource() Source { return ambientSource{} }

// WindowSpec selects the historical window to synthesize. Offsets are
// relative to the generator anchor (now truncated to Cadence), so a
// trailing day is StartOffset=-24h, EndOffset=0.
type WindowSpec struct {
	StartOffset time.Duration     `yaml:"start"`
	EndOffset   time.Duration     `yaml:"end"`
	Cadence     time.Duration     `yaml:"cadence"`
	Protocols   []domain.Protocol `yaml:"protocols"`
}

// MaxSamples bounds the samples one window may produce (steps times
// protocols).
const MaxSamples = 1 << 20

// Last24Hours is the per-protocol hourly window of the dashboard chart,
// including the current hour.
func Last24Hours() WindowSpec {
	return WindowSpec{
		StartOffset: -24 * time.Hour,
		EndOffset:   time.Hour,
		Cadence:     time.Hour,
		Protocols:   domain.Protocols(),
	}
}

// LastWeek is the untagged hourly window over the trailing seven days.
func LastWeek() WindowSpec {
	return WindowSpec{
		StartOffset: -7 * 24 * time.Hour,
		EndOffset:   0,
		Cadence:     time.Hour,
	}
}

// Steps is the number of cadence steps in the window, rounded up.
func (w WindowSpec) Steps() int {
	if w.Cadence <= 0 || w.EndOffset <= w.StartOffset {
		return 0
	}
	span := w.EndOffset - w.StartOffset
	n := span / w.Cadence
	if span%w.Cadence != 0 {
		n++
	}
	return int(n)
}

func (w WindowSpec) Validate() error {
	if w.Cadence <= 0 {
		return fmt.Errorf("%w: cadence must be > 0, got %s", ErrInvalidConfig, w.Cadence)
	}
	if w.EndOffset < w.StartOffset {
		return fmt.Errorf("%w: end offset %s before start offset %s", ErrInvalidConfig, w.EndOffset, w.StartOffset)
	}
	if w.EndOffset-w.StartOffset < 0 {
		return fmt.Errorf("%w: window span overflows", ErrInvalidConfig)
	}
	if n := max(1, len(w.Protocols)); w.Steps() > MaxSamples/n {
		return fmt.Errorf("%w: window needs more than %d samples", ErrInvalidConfig, MaxSamples)
	}
	seen := make(map[domain.Protocol]bool, len(w.Protocols))
	for _, p := range w.Protocols {
		if !p.Valid() {
			return fmt.Errorf("%w: unknown protocol %q", ErrInvalidConfig, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate protocol %s", ErrInvalidConfig, p)
		}
		seen[p] = true
	}
	return nil
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSource injects the random stream.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithClock overrides time.Now for the anchor instant.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLocation sets the zone used for hour-of-day and day-of-week shaping.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

// Generator synthesizes traffic sequences. It holds no mutable state beyond
// its random source; each Generate call returns an independent Sequence.
type Generator struct {
	policy Policy
	src    Source
	now    func() time.Time
	loc    *time.Location
}

func NewGenerator(policy Policy, opts ...Option) (*Generator, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	g := &Generator{
		policy: policy,
		src:    AmbientSource(),
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

func (g *Generator) Policy() Policy { return g.policy }

// Anchor is the instant offsets are measured from: now truncated to cadence.
func (g *Generator) Anchor(cadence time.Duration) time.Time {
	now := g.now().In(g.loc)
	if cadence > 0 {
		now = now.Truncate(cadence)
	}
	return now
}

// Generate synthesizes the window. Output is ascending by timestamp with one
// sample per protocol per step (or one untagged sample when no protocols
// are requested).
func (g *Generator) Generate(spec WindowSpec) (domain.Sequence, error) {
	if err := spec.Validate(); err != nil {
		return domain.Sequence{}, err
	}
	return g.GenerateAt(g.Anchor(spec.Cadence), spec)
}

// GenerateAt is Generate with an explicit anchor.
func (g *Generator) GenerateAt(anchor time.Time, spec WindowSpec) (domain.Sequence, error) {
	if err := spec.Validate(); err != nil {
		return domain.Sequence{}, err
	}

	protocols := spec.Protocols
	if len(protocols) == 0 {
		protocols = []domain.Protocol{""}
	}

	steps := spec.Steps()
	samples := make([]domain.Sample, 0, steps*len(protocols))
	start := anchor.Add(spec.StartOffset).In(g.loc)

	for k := 0; k < steps; k++ {
		ts := start.Add(time.Duration(k) * spec.Cadence)
		shaped := g.uniform(g.policy.Base) *
			g.policy.HourFactor(ts.Hour()) *
			g.policy.DayFactor(ts.Weekday()) *
			g.policy.SpikeFactor(ts, anchor)

		for _, proto := range protocols {
			v := math.Round(shaped * g.policy.ProtocolWeight(proto) * g.uniform(g.policy.Jitter))
			if v < 0 {
				v = 0
			}
			samples = append(samples, domain.Sample{Timestamp: ts, Value: v, Protocol: proto})
		}
	}

	return domain.NewSequence(uuid.NewString(), spec.Cadence, samples), nil
}

func (g *Generator) uniform(r Range) float64 {
	return r.Min + g.src.Float64()*(r.Max-r.Min)
}
