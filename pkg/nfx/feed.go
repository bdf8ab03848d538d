package nfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IAM-Haris-K/NFX/internal/adapters/collector"
	"github.com/IAM-Haris-K/NFX/internal/adapters/observability"
	"github.com/IAM-Haris-K/NFX/internal/adapters/queue"
	"github.com/IAM-Haris-K/NFX/internal/adapters/sink"
	"github.com/IAM-Haris-K/NFX/internal/adapters/transform"
	"github.com/IAM-Haris-K/NFX/internal/app/pipeline"
	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

// FeedOption customizes the dependencies used by Feed.
type FeedOption func(*feedOverrides)

type feedOverrides struct {
	collector     Collector
	sinks         []Sink
	transformer   Transformer
	queue         SampleQueue
	observability Observability
	source        Source
	logger        *slog.Logger
	noMetrics     bool
}

// WithCollector replaces the synthetic collector (for example with a replay
// of recorded samples).
func WithCollector(col Collector) FeedOption {
	return func(o *feedOverrides) { o.collector = col }
}

// WithSink adds a sink next to the rolling window.
func WithSink(s Sink) FeedOption {
	return func(o *feedOverrides) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithTransformer overrides the default sanitizer.
func WithTransformer(t Transformer) FeedOption {
	return func(o *feedOverrides) { o.transformer = t }
}

// WithSampleQueue injects a custom queue implementation.
func WithSampleQueue(q SampleQueue) FeedOption {
	return func(o *feedOverrides) { o.queue = q }
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) FeedOption {
	return func(o *feedOverrides) { o.observability = obs }
}

// WithFeedSource seeds the synthetic collector.
func WithFeedSource(src Source) FeedOption {
	return func(o *feedOverrides) { o.source = src }
}

// WithLogger sets the logger of the default observability backend.
func WithLogger(l *slog.Logger) FeedOption {
	return func(o *feedOverrides) { o.logger = l }
}

// WithoutMetricsServer skips the /metrics and /healthz listener.
func WithoutMetricsServer() FeedOption {
	return func(o *feedOverrides) { o.noMetrics = true }
}

// Feed wires the collector → queue → transformer → sink pipeline and keeps a
// rolling window of delivered samples for live charts.
type Feed struct {
	cfg         *Config
	policy      ports.Policy
	obs         ports.Observability
	queue       ports.SampleQueue
	collector   ports.Collector
	transformer ports.Transformer
	window      *sink.WindowSink
	sink        ports.Sink
	noMetrics   bool

	mu          sync.Mutex
	cancel      context.CancelFunc
	metricsSrv  *http.Server
	metricsAddr string
	drainDoneCh chan struct{}
	gaugeDoneCh chan struct{}
}

// NewFeed bootstraps the default adapters (synthetic collector, in-memory
// queue, sanitizer, rolling window, Prometheus observability). Options
// override any of them.
func NewFeed(cfg *Config, opts ...FeedOption) (*Feed, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides feedOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(observability.WithLogger(overrides.logger))
	}

	q := overrides.queue
	if q == nil {
		q = queue.NewMemQueue(cfg.Feed.MaxQueueLen)
	}

	col := overrides.collector
	if col == nil {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}
		gen, err := synth.NewGenerator(cfg.Shaping, synth.WithSource(overrides.source), synth.WithLocation(loc))
		if err != nil {
			return nil, err
		}
		col, err = collector.NewSynthCollector(gen, cfg.Feed.Config)
		if err != nil {
			return nil, err
		}
	}

	tr := overrides.transformer
	if tr == nil {
		tr = transform.Sanitizer{}
	}

	window := sink.NewWindowSink(cfg.Feed.Retention, cfg.Feed.Cadence, obs)
	var snk ports.Sink = window
	if len(overrides.sinks) > 0 {
		snk = newFanoutSink(append([]ports.Sink{window}, overrides.sinks...))
	}

	return &Feed{
		cfg:         cfg,
		policy:      cfg.Feed.Policy,
		obs:         obs,
		queue:       q,
		collector:   col,
		transformer: tr,
		window:      window,
		sink:        snk,
		noMetrics:   overrides.noMetrics,
	}, nil
}

// Start begins the feed and drain pipelines and launches the metrics
// listener. It returns immediately; call Run to block on a context instead.
func (f *Feed) Start() error {
	if f == nil {
		return fmt.Errorf("feed is nil")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		return fmt.Errorf("feed already started")
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := pipeline.RunFeedPipeline(ctx, f.collector, f.queue, f.policy, f.obs); err != nil {
		cancel()
		return err
	}
	f.cancel = cancel

	f.drainDoneCh = make(chan struct{})
	go func() {
		defer close(f.drainDoneCh)
		pipeline.RunDrainPipeline(ctx, f.queue, f.transformer, f.sink, f.policy, f.obs)
	}()

	if !f.noMetrics {
		if err := f.startMetrics(); err != nil {
			f.obs.LogError("metrics_listen_failed", err, ports.Field{Key: "addr", Value: f.cfg.Metrics.Addr})
		}
	}

	f.gaugeDoneCh = make(chan struct{})
	go f.recordGauges(ctx, time.Second)

	f.obs.LogInfo("feed_started",
		ports.Field{Key: "cadence", Value: f.cfg.Feed.Cadence},
		ports.Field{Key: "retention", Value: f.cfg.Feed.Retention},
		ports.Field{Key: "sink", Value: f.sink.Name()})
	return nil
}

// Run starts the feed and blocks until ctx is cancelled, then shuts down.
func (f *Feed) Run(ctx context.Context) error {
	if err := f.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Shutdown(shutdownCtx)
}

// Shutdown stops the collector, both pipelines and the metrics server.
func (f *Feed) Shutdown(ctx context.Context) error {
	f.mu.Lock()
	cancel := f.cancel
	srv := f.metricsSrv
	f.cancel = nil
	f.metricsSrv = nil
	f.mu.Unlock()

	var errs []error

	if err := f.collector.Stop(); err != nil {
		errs = append(errs, err)
	}
	if cancel != nil {
		cancel()
		for _, done := range []chan struct{}{f.drainDoneCh, f.gaugeDoneCh} {
			select {
			case <-done:
			case <-ctx.Done():
				errs = append(errs, ctx.Err())
			}
		}
	}
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Snapshot returns the current rolling window as an immutable sequence.
func (f *Feed) Snapshot() Sequence { return f.window.Snapshot() }

// MetricsAddr is the bound metrics listener address, empty before Start.
func (f *Feed) MetricsAddr() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metricsAddr
}

// Reconfigure applies the live-tunable parts of cfg: collector cadence and
// protocols, and window retention and cadence.
func (f *Feed) Reconfigure(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	cadence := cfg.Feed.Cadence
	if sc, ok := f.collector.(*collector.SynthCollector); ok {
		if err := sc.Reconfigure(cfg.Feed.Config); err != nil {
			return err
		}
		cadence = sc.Config().Cadence
	}
	f.window.SetRetention(cfg.Feed.Retention)
	f.window.SetCadence(cadence)
	f.obs.LogInfo("feed_reconfigured",
		ports.Field{Key: "cadence", Value: cfg.Feed.Cadence},
		ports.Field{Key: "retention", Value: cfg.Feed.Retention})
	return nil
}

func (f *Feed) startMetrics() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	ln, err := net.Listen("tcp", f.cfg.Metrics.Addr)
	if err != nil {
		return err
	}
	f.metricsSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	f.metricsAddr = ln.Addr().String()

	srv := f.metricsSrv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.obs.LogError("metrics_server_exited", err)
		}
	}()
	return nil
}

func (f *Feed) recordGauges(ctx context.Context, interval time.Duration) {
	defer close(f.gaugeDoneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.obs.SetGauge(ports.MetricQueueLength, float64(f.queue.Len()))
			f.obs.SetGauge(ports.MetricWindowSamples, float64(f.window.Len()))
		}
	}
}

// fanoutSink writes each batch to every sink in order and joins failures.
type fanoutSink struct {
	sinks []ports.Sink
}

func newFanoutSink(sinks []ports.Sink) *fanoutSink {
	return &fanoutSink{sinks: sinks}
}

func (m *fanoutSink) WriteBatch(samples []*domain.Sample) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.WriteBatch(samples); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *fanoutSink) Name() string {
	name := ""
	for i, s := range m.sinks {
		if i > 0 {
			name += "+"
		}
		name += s.Name()
	}
	return name
}
