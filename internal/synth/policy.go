package synth

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

// Range is a half-open interval [Min, Max) sampled uniformly.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// HourBand applies Factor to every hour in [Start, End] (inclusive, 0-23).
// The Peak band is the busiest time of day; every other band sits at or
// below it.
type HourBand struct {
	Name   string  `yaml:"name"`
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	Factor float64 `yaml:"factor"`
	Peak   bool    `yaml:"peak"`
}

// Spike boosts samples closer than HalfWidth to the anchor-relative Offset.
type Spike struct {
	Disabled   bool          `yaml:"disabled"`
	Offset     time.Duration `yaml:"offset"`
	HalfWidth  time.Duration `yaml:"half_width"`
	Multiplier float64       `yaml:"multiplier"`
}

// Policy holds every shaping constant. The numbers are tunable; only the
// ordering peak band >= other bands >= night and weekday >= weekend is
// enforced.
type Policy struct {
	Base            Range                       `yaml:"base"`
	Jitter          Range                       `yaml:"jitter"`
	HourBands       []HourBand                  `yaml:"hour_bands"`
	NightFactor     float64                     `yaml:"night_factor"`
	WeekdayFactor   float64                     `yaml:"weekday_factor"`
	WeekendFactor   float64                     `yaml:"weekend_factor"`
	Spike           Spike                       `yaml:"spike"`
	ProtocolWeights map[domain.Protocol]float64 `yaml:"protocol_weights"`
}

// DefaultPolicy mirrors the dashboard's mock traffic shape.
func DefaultPolicy() Policy {
	return Policy{
		Base:   Range{Min: 100, Max: 400},
		Jitter: Range{Min: 0.8, Max: 1.2},
		HourBands: []HourBand{
			{Name: "morning", Start: 6, End: 8, Factor: 0.7},
			{Name: "business", Start: 9, End: 17, Factor: 1.0, Peak: true},
			{Name: "evening", Start: 18, End: 22, Factor: 0.6},
		},
		NightFactor:   0.2,
		WeekdayFactor: 1.0,
		WeekendFactor: 0.5,
		Spike: Spike{
			Offset:     -6 * time.Hour,
			HalfWidth:  2 * time.Hour,
			Multiplier: 3,
		},
		ProtocolWeights: defaultWeights(),
	}
}

func defaultWeights() map[domain.Protocol]float64 {
	return map[domain.Protocol]float64{
		domain.ProtocolTCP:   1.0,
		domain.ProtocolHTTPS: 0.8,
		domain.ProtocolUDP:   0.7,
		domain.ProtocolHTTP:  0.5,
		domain.ProtocolDNS:   0.3,
		domain.ProtocolICMP:  0.1,
	}
}

// ApplyDefaults fills unset fields from DefaultPolicy. A zero night factor
// is kept when bands are given and a zero weekend factor is kept when the
// weekday factor is given. Protocol weights are merged per protocol.
func (p *Policy) ApplyDefaults() {
	def := DefaultPolicy()
	if p.Base == (Range{}) {
		p.Base = def.Base
	}
	if p.Jitter == (Range{}) {
		p.Jitter = def.Jitter
	}
	if len(p.HourBands) == 0 {
		p.HourBands = def.HourBands
		if p.NightFactor == 0 {
			p.NightFactor = def.NightFactor
		}
	}
	if p.WeekdayFactor == 0 {
		p.WeekdayFactor = def.WeekdayFactor
		if p.WeekendFactor == 0 {
			p.WeekendFactor = def.WeekendFactor
		}
	}
	if p.Spike.HalfWidth == 0 && p.Spike.Multiplier == 0 && p.Spike.Offset == 0 {
		p.Spike.Offset = def.Spike.Offset
		p.Spike.HalfWidth = def.Spike.HalfWidth
		p.Spike.Multiplier = def.Spike.Multiplier
	}
	weights := def.ProtocolWeights
	for proto, w := range p.ProtocolWeights {
		weights[proto] = w
	}
	p.ProtocolWeights = weights
}

func (p Policy) Validate() error {
	if err := p.Base.validate("base"); err != nil {
		return err
	}
	if err := p.Jitter.validate("jitter"); err != nil {
		return err
	}
	if p.NightFactor < 0 {
		return fmt.Errorf("night_factor must be >= 0, got %v", p.NightFactor)
	}
	if p.WeekendFactor < 0 || p.WeekdayFactor < p.WeekendFactor {
		return fmt.Errorf("weekday_factor (%v) must be >= weekend_factor (%v) >= 0", p.WeekdayFactor, p.WeekendFactor)
	}

	bands := make([]HourBand, len(p.HourBands))
	copy(bands, p.HourBands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].Start < bands[j].Start })
	peak, err := peakBand(bands)
	if err != nil {
		return err
	}
	for i, b := range bands {
		if b.Start < 0 || b.End > 23 || b.Start > b.End {
			return fmt.Errorf("hour band %q: invalid hours %d-%d", b.Name, b.Start, b.End)
		}
		if b.Factor < p.NightFactor {
			return fmt.Errorf("hour band %q: factor %v below night_factor %v", b.Name, b.Factor, p.NightFactor)
		}
		if b.Factor > peak.Factor {
			return fmt.Errorf("hour band %q: factor %v above peak band %q (%v)", b.Name, b.Factor, peak.Name, peak.Factor)
		}
		if i > 0 && b.Start <= bands[i-1].End {
			return fmt.Errorf("hour band %q overlaps %q", b.Name, bands[i-1].Name)
		}
	}

	if !p.Spike.Disabled {
		if p.Spike.Multiplier < 0 {
			return fmt.Errorf("spike.multiplier must be >= 0, got %v", p.Spike.Multiplier)
		}
		if p.Spike.HalfWidth <= 0 {
			return errors.New("spike.half_width must be > 0")
		}
	}

	for proto, w := range p.ProtocolWeights {
		if !proto.Valid() {
			return fmt.Errorf("protocol_weights: unknown protocol %q", proto)
		}
		if w < 0 {
			return fmt.Errorf("protocol_weights[%s] must be >= 0, got %v", proto, w)
		}
	}
	return nil
}

// peakBand returns the band marked Peak, falling back to one named
// "business". A policy without bands has no peak to check.
func peakBand(bands []HourBand) (HourBand, error) {
	var (
		peak  HourBand
		found int
	)
	for _, b := range bands {
		if b.Peak {
			peak = b
			found++
		}
	}
	switch {
	case found == 1:
		return peak, nil
	case found > 1:
		return HourBand{}, fmt.Errorf("hour_bands: %d bands marked peak, want one", found)
	case len(bands) == 0:
		return HourBand{Factor: math.Inf(1)}, nil
	}
	for _, b := range bands {
		if b.Name == "business" {
			return b, nil
		}
	}
	return HourBand{}, errors.New("hour_bands: no band marked peak")
}

func (r Range) validate(name string) error {
	if r.Min < 0 || r.Max < r.Min {
		return fmt.Errorf("%s: need 0 <= min <= max, got [%v, %v)", name, r.Min, r.Max)
	}
	return nil
}

// HourFactor returns the band factor for an hour of day, or NightFactor.
func (p Policy) HourFactor(hour int) float64 {
	for _, b := range p.HourBands {
		if hour >= b.Start && hour <= b.End {
			return b.Factor
		}
	}
	return p.NightFactor
}

func (p Policy) DayFactor(day time.Weekday) float64 {
	if day == time.Saturday || day == time.Sunday {
		return p.WeekendFactor
	}
	return p.WeekdayFactor
}

// ProtocolWeight returns the mix weight for proto; untagged series use 1.
func (p Policy) ProtocolWeight(proto domain.Protocol) float64 {
	if proto == "" {
		return 1
	}
	if w, ok := p.ProtocolWeights[proto]; ok {
		return w
	}
	return 1
}

// SpikeFactor returns the spike multiplier when ts falls inside the window
// around anchor+Offset.
func (p Policy) SpikeFactor(ts, anchor time.Time) float64 {
	if p.Spike.Disabled {
		return 1
	}
	d := ts.Sub(anchor.Add(p.Spike.Offset))
	if d < 0 {
		d = -d
	}
	if d < p.Spike.HalfWidth {
		return p.Spike.Multiplier
	}
	return 1
}
