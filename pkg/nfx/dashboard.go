package nfx

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/adapters/observability"
	"github.com/IAM-Haris-K/NFX/internal/chart"
	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/locate"
	"github.com/IAM-Haris-K/NFX/internal/ports"
	"github.com/IAM-Haris-K/NFX/internal/scale"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

// DashboardOption customizes a Dashboard.
type DashboardOption func(*dashboardOptions)

type dashboardOptions struct {
	src    synth.Source
	now    func() time.Time
	obs    ports.Observability
	logger *slog.Logger
}

// WithSource injects the random stream, typically a seeded *rand.Rand.
// A Source that is not safe for concurrent use must not be shared between
// dashboards or feeds.
func WithSource(src Source) DashboardOption {
	return func(o *dashboardOptions) { o.src = src }
}

// WithClock overrides time.Now for the generation anchor.
func WithClock(now func() time.Time) DashboardOption {
	return func(o *dashboardOptions) { o.now = now }
}

// WithDashboardObservability replaces the default Prometheus backend.
func WithDashboardObservability(obs Observability) DashboardOption {
	return func(o *dashboardOptions) { o.obs = obs }
}

// WithDashboardLogger sets the logger of the default observability backend.
func WithDashboardLogger(l *slog.Logger) DashboardOption {
	return func(o *dashboardOptions) { o.logger = l }
}

// Dashboard is the synchronous side of NFX: it synthesizes historical
// windows, composes chart frames and resolves pointer positions.
type Dashboard struct {
	gen      *synth.Generator
	window   synth.WindowSpec
	viewport chart.Viewport
	loc      *time.Location
	obs      ports.Observability
}

func NewDashboard(cfg *Config, opts ...DashboardOption) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	var o dashboardOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	gen, err := synth.NewGenerator(cfg.Shaping,
		synth.WithSource(o.src),
		synth.WithClock(o.now),
		synth.WithLocation(loc))
	if err != nil {
		return nil, err
	}

	obs := o.obs
	if obs == nil {
		obs = observability.NewPromObs(observability.WithLogger(o.logger))
	}

	return &Dashboard{
		gen:      gen,
		window:   cfg.Window.WindowSpec,
		viewport: cfg.Viewport,
		loc:      loc,
		obs:      obs,
	}, nil
}

// Window returns the configured historical window.
func (d *Dashboard) Window() WindowSpec { return d.window }

// Viewport returns the configured chart size.
func (d *Dashboard) Viewport() Viewport { return d.viewport }

// Generate synthesizes the configured window.
func (d *Dashboard) Generate() (Sequence, error) {
	return d.GenerateWindow(d.window)
}

// GenerateWindow synthesizes spec anchored at the current instant.
func (d *Dashboard) GenerateWindow(spec WindowSpec) (Sequence, error) {
	start := time.Now()
	seq, err := d.gen.Generate(spec)
	if err != nil {
		d.obs.LogError("generate_failed", err)
		return Sequence{}, err
	}
	d.obs.ObserveLatency(ports.MetricGenerateLatency, time.Since(start).Seconds())
	d.obs.IncCounter(ports.MetricSequencesGenerated, 1)
	d.obs.IncCounter(ports.MetricSamplesGenerated, float64(seq.Len()))
	d.obs.LogInfo("sequence_generated",
		ports.Field{Key: "id", Value: seq.ID},
		ports.Field{Key: "samples", Value: seq.Len()},
		ports.Field{Key: "cadence", Value: spec.Cadence})
	return seq, nil
}

// Frame composes seq for view inside the configured viewport.
func (d *Dashboard) Frame(seq Sequence, view View) (*Frame, error) {
	return d.FrameIn(seq, view, d.viewport)
}

// FrameIn is Frame with an explicit viewport, for resized charts.
func (d *Dashboard) FrameIn(seq Sequence, view View, vp Viewport) (*Frame, error) {
	return chart.Build(seq, view, vp, chart.WithLocation(d.loc))
}

// Tooltip resolves a pointer x (outer viewport coordinates) on frame.
func (d *Dashboard) Tooltip(frame *Frame, pointerX float64) (Tooltip, error) {
	start := time.Now()
	tip, err := frame.Tooltip(pointerX)
	d.observeLocate(start)
	return tip, err
}

// Locate returns the sample of seq nearest to pixelX under xScale.
func (d *Dashboard) Locate(seq Sequence, pixelX float64, xScale Scale) (Sample, error) {
	start := time.Now()
	s, err := locate.Locate(seq, pixelX, xScale)
	d.observeLocate(start)
	return s, err
}

func (d *Dashboard) observeLocate(start time.Time) {
	d.obs.ObserveLatency(ports.MetricLocateLatency, time.Since(start).Seconds())
	d.obs.IncCounter(ports.MetricLocateCalls, 1)
}

// NewViewport sizes a chart with the default margins.
func NewViewport(width, height float64) Viewport { return chart.NewViewport(width, height) }

// Last24Hours is the per-protocol hourly window including the current hour.
func Last24Hours() WindowSpec { return synth.Last24Hours() }

// LastWeek is the untagged hourly window over the trailing seven days.
func LastWeek() WindowSpec { return synth.LastWeek() }

// ParseProtocol accepts a protocol name in any case.
func ParseProtocol(s string) (Protocol, error) { return domain.ParseProtocol(s) }

// PacketCount formats a chart value the way the tooltip body does.
func PacketCount(v float64) string { return chart.PacketCount(v) }

// TimeScale builds the temporal scale of seq over [0, width].
func TimeScale(seq Sequence, width float64) (Scale, error) {
	return scale.ForSequence(seq, scale.Extent{Min: 0, Max: width}, scale.Temporal)
}

// ValueScale builds the linear value scale of seq over [height, 0] with the
// default headroom.
func ValueScale(seq Sequence, height float64) (Scale, error) {
	return scale.ForSequence(seq, scale.Extent{Min: height, Max: 0}, scale.Linear)
}
