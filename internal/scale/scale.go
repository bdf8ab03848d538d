package scale

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

// ErrEmptyDomain is returned when a scale is requested over no samples.
var ErrEmptyDomain = errors.New("scale: empty domain")

// DefaultPad is the headroom added above the observed maximum of a linear scale.
const DefaultPad = 0.1

type Kind int

const (
	Linear Kind = iota
	Temporal
)

func (k Kind) String() string {
	switch k {
	case Linear:
		return "linear"
	case Temporal:
		return "temporal"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Extent is a closed interval. Min may be greater than Max for ranges that
// run downwards (pixel y grows towards the bottom).
type Extent struct {
	Min float64
	Max float64
}

func (e Extent) span() float64 { return e.Max - e.Min }

func (e Extent) mid() float64 { return e.Min + e.span()/2 }

// Scale is an invertible affine map from a domain onto a pixel range.
// Temporal domains are expressed in Unix milliseconds.
type Scale struct {
	kind   Kind
	domain Extent
	rng    Extent
}

type options struct {
	pad       float64
	baseline  bool
	niceTicks int
}

// Option tunes Make.
type Option func(*options)

// WithPad sets the linear headroom factor applied to the domain max.
func WithPad(f float64) Option {
	return func(o *options) {
		if f >= 0 && !math.IsInf(f, 0) && !math.IsNaN(f) {
			o.pad = f
		}
	}
}

// WithBaseline pins the linear domain min at zero (default) or keeps the
// observed minimum when false.
func WithBaseline(zero bool) Option {
	return func(o *options) { o.baseline = zero }
}

// WithNice rounds the padded linear domain max up to a tick step chosen for
// roughly n ticks.
func WithNice(n int) Option {
	return func(o *options) { o.niceTicks = n }
}

// Make builds a scale. For Linear the domain max becomes Max*(1+pad) and the
// min is pinned at zero unless WithBaseline(false). Temporal domains and
// zero-width linear domains are used as given.
func Make(dom, rng Extent, kind Kind, opts ...Option) (Scale, error) {
	if !finite(dom.Min) || !finite(dom.Max) {
		return Scale{}, fmt.Errorf("%w: non-finite domain [%v, %v]", ErrEmptyDomain, dom.Min, dom.Max)
	}
	if !finite(rng.Min) || !finite(rng.Max) {
		return Scale{}, fmt.Errorf("scale: non-finite range [%v, %v]", rng.Min, rng.Max)
	}

	o := options{pad: DefaultPad, baseline: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	d := dom
	if d.Min > d.Max {
		d.Min, d.Max = d.Max, d.Min
	}
	// a zero-width observed extent stays degenerate so Forward yields the
	// range midpoint and Invert the single value
	if kind == Linear && d.Min != d.Max {
		if o.baseline {
			d.Min = 0
		}
		d.Max = d.Max * (1 + o.pad)
		if o.niceTicks > 1 && d.Max > d.Min {
			d.Max = niceCeil(d.Min, d.Max, o.niceTicks)
		}
	}

	return Scale{kind: kind, domain: d, rng: rng}, nil
}

// ForSequence derives the domain from seq and builds the scale.
func ForSequence(seq domain.Sequence, rng Extent, kind Kind, opts ...Option) (Scale, error) {
	var (
		ext Extent
		err error
	)
	switch kind {
	case Temporal:
		ext, err = TimeExtent(seq)
	default:
		ext, err = ValueExtent(seq)
	}
	if err != nil {
		return Scale{}, err
	}
	return Make(ext, rng, kind, opts...)
}

// TimeExtent scans seq once for its first and last instants.
func TimeExtent(seq domain.Sequence) (Extent, error) {
	samples := seq.View()
	if len(samples) == 0 {
		return Extent{}, ErrEmptyDomain
	}
	ext := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range samples {
		v := TimeValue(s.Timestamp)
		ext.Min = math.Min(ext.Min, v)
		ext.Max = math.Max(ext.Max, v)
	}
	return ext, nil
}

// ValueExtent scans seq once for its smallest and largest values.
func ValueExtent(seq domain.Sequence) (Extent, error) {
	samples := seq.View()
	if len(samples) == 0 {
		return Extent{}, ErrEmptyDomain
	}
	ext := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, s := range samples {
		ext.Min = math.Min(ext.Min, s.Value)
		ext.Max = math.Max(ext.Max, s.Value)
	}
	return ext, nil
}

// TimeValue converts an instant into the temporal domain unit.
func TimeValue(t time.Time) float64 {
	sub := t.Nanosecond() % int(time.Millisecond)
	return float64(t.UnixMilli()) + float64(sub)/float64(time.Millisecond)
}

// ValueTime is the inverse of TimeValue.
func ValueTime(v float64) time.Time {
	ms := math.Floor(v)
	frac := time.Duration(math.Round((v - ms) * float64(time.Millisecond)))
	return time.UnixMilli(int64(ms)).Add(frac)
}

func (s Scale) Kind() Kind { return s.kind }

func (s Scale) Domain() Extent { return s.domain }

func (s Scale) Range() Extent { return s.rng }

// Forward maps a domain value to the range. A zero-width domain maps every
// input to the range midpoint.
func (s Scale) Forward(v float64) float64 {
	span := s.domain.span()
	if span == 0 {
		return s.rng.mid()
	}
	return s.rng.Min + (v-s.domain.Min)*s.rng.span()/span
}

// Invert maps a range value back to the domain. A zero-width domain inverts to
// its only value; a zero-width range inverts to the domain midpoint.
func (s Scale) Invert(px float64) float64 {
	if s.domain.span() == 0 {
		return s.domain.Min
	}
	rspan := s.rng.span()
	if rspan == 0 {
		return s.domain.mid()
	}
	return s.domain.Min + (px-s.rng.Min)*s.domain.span()/rspan
}

func (s Scale) ForwardTime(t time.Time) float64 { return s.Forward(TimeValue(t)) }

func (s Scale) InvertTime(px float64) time.Time { return ValueTime(s.Invert(px)) }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
