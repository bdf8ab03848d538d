// Package chart composes the renderer-facing data of the traffic chart: the
// selected series, its two scales inside a viewport, and pointer tooltips.
// It draws nothing.
package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/locate"
	"github.com/IAM-Haris-K/NFX/internal/scale"
)

// ErrViewport is returned when the viewport leaves no drawable area.
var ErrViewport = errors.New("chart: viewport has no inner area")

// TooltipLayout formats the tooltip heading.
const TooltipLayout = "Jan 02, 15:04"

type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// DefaultMargin leaves room for the axes.
var DefaultMargin = Margin{Top: 20, Right: 30, Bottom: 50, Left: 50}

type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Margin Margin  `yaml:"margin"`
}

// NewViewport returns a viewport of the given outer size with DefaultMargin.
func NewViewport(width, height float64) Viewport {
	return Viewport{Width: width, Height: height, Margin: DefaultMargin}
}

func (v Viewport) InnerWidth() float64 { return v.Width - v.Margin.Left - v.Margin.Right }

func (v Viewport) InnerHeight() float64 { return v.Height - v.Margin.Top - v.Margin.Bottom }

func (v Viewport) Validate() error {
	if v.InnerWidth() <= 0 || v.InnerHeight() <= 0 {
		return fmt.Errorf("%w: %gx%g with margins %+v", ErrViewport, v.Width, v.Height, v.Margin)
	}
	return nil
}

// View is the protocol selection of the chart header. The zero value shows
// the totals across all protocols.
type View struct {
	protocol domain.Protocol
}

// WithProtocol returns a copy of v narrowed to p. An empty p selects all.
func (v View) WithProtocol(p domain.Protocol) View {
	v.protocol = p
	return v
}

func (v View) Protocol() domain.Protocol { return v.protocol }

func (v View) All() bool { return v.protocol == "" }

func (v View) String() string {
	if v.All() {
		return "All"
	}
	return string(v.protocol)
}

// Select returns the series shown by v.
func (v View) Select(seq domain.Sequence) domain.Sequence {
	if v.All() {
		return seq.Totals()
	}
	return seq.Filter(v.protocol)
}

type options struct {
	pad       float64
	niceTicks int
	loc       *time.Location
}

type Option func(*options)

// WithHeadroom overrides the headroom above the tallest sample.
func WithHeadroom(f float64) Option {
	return func(o *options) { o.pad = f }
}

// WithNiceTicks rounds the value axis up to a step for about n ticks. Zero
// disables rounding.
func WithNiceTicks(n int) Option {
	return func(o *options) { o.niceTicks = n }
}

// WithLocation sets the zone tooltip labels are rendered in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// Frame is one composed chart state. It is immutable and safe to share.
type Frame struct {
	Series   domain.Sequence
	View     View
	Viewport Viewport
	X        scale.Scale
	Y        scale.Scale

	loc *time.Location
}

// Build selects the series for view and fits both scales to the inner area.
func Build(seq domain.Sequence, view View, vp Viewport, opts ...Option) (*Frame, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	o := options{pad: scale.DefaultPad, niceTicks: 5, loc: time.Local}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	series := view.Select(seq)
	x, err := scale.ForSequence(series, scale.Extent{Min: 0, Max: vp.InnerWidth()}, scale.Temporal)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", view, err)
	}
	y, err := scale.ForSequence(series, scale.Extent{Min: vp.InnerHeight(), Max: 0}, scale.Linear,
		scale.WithPad(o.pad), scale.WithNice(o.niceTicks))
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", view, err)
	}

	return &Frame{Series: series, View: view, Viewport: vp, X: x, Y: y, loc: o.loc}, nil
}

// Point is a sample position in inner (margin-free) coordinates.
type Point struct {
	X float64
	Y float64
}

// Points returns the pixel position of every sample of the series in order.
func (f *Frame) Points() []Point {
	samples := f.Series.View()
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = Point{X: f.X.ForwardTime(s.Timestamp), Y: f.Y.Forward(s.Value)}
	}
	return pts
}

type Tooltip struct {
	Sample domain.Sample
	Left   float64
	Top    float64
	Title  string
	Body   string
}

func (t Tooltip) Label() string { return t.Title + "\n" + t.Body }

// Tooltip resolves a pointer x, in outer viewport coordinates, to the
// nearest sample and its anchor position.
func (f *Frame) Tooltip(pointerX float64) (Tooltip, error) {
	s, err := locate.Locate(f.Series, pointerX-f.Viewport.Margin.Left, f.X)
	if err != nil {
		return Tooltip{}, err
	}
	return Tooltip{
		Sample: s,
		Left:   f.X.ForwardTime(s.Timestamp) + f.Viewport.Margin.Left,
		Top:    f.Y.Forward(s.Value) + f.Viewport.Margin.Top,
		Title:  s.Timestamp.In(f.loc).Format(TooltipLayout),
		Body:   PacketCount(s.Value),
	}, nil
}

// XTicks and YTicks return axis marks in inner coordinates.
func (f *Frame) XTicks(n int) []scale.Tick { return f.X.Ticks(n) }

func (f *Frame) YTicks(n int) []scale.Tick { return f.Y.Ticks(n) }

// PacketCount renders a value as "12,345 packets".
func PacketCount(v float64) string {
	return humanize.Comma(int64(v+0.5)) + " packets"
}
