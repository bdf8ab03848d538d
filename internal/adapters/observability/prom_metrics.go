package observability

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// PromObs backs the Observability port with Prometheus collectors and a
// slog logger.
type PromObs struct {
	log      *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

type Option func(*promOptions)

type promOptions struct {
	reg    prometheus.Registerer
	logger *slog.Logger
}

// WithRegisterer registers the collectors somewhere other than the default
// registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *promOptions) { o.reg = reg }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *promOptions) { o.logger = l }
}

func NewPromObs(opts ...Option) *PromObs {
	o := promOptions{reg: prometheus.DefaultRegisterer, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.reg == nil {
		o.reg = prometheus.DefaultRegisterer
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	counter := func(name, help string) prometheus.Counter {
		return register(o.reg, prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help}))
	}
	gauge := func(name, help string) prometheus.Gauge {
		return register(o.reg, prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help}))
	}
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		return register(o.reg, prometheus.NewHistogram(prometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}))
	}

	return &PromObs{
		log: o.logger,
		counters: map[string]prometheus.Counter{
			ports.MetricSequencesGenerated: counter(ports.MetricSequencesGenerated, "Sequences produced by the synthesizer."),
			ports.MetricSamplesGenerated:   counter(ports.MetricSamplesGenerated, "Samples produced by the synthesizer."),
			ports.MetricSamplesDelivered:   counter(ports.MetricSamplesDelivered, "Samples written to a sink."),
			ports.MetricSamplesRejected:    counter(ports.MetricSamplesRejected, "Samples rejected by a transformer or sink."),
			ports.MetricQueueDropped:       counter(ports.MetricQueueDropped, "Samples lost due to queue backpressure policies."),
			ports.MetricLocateCalls:        counter(ports.MetricLocateCalls, "Pointer lookups served."),
		},
		gauges: map[string]prometheus.Gauge{
			ports.MetricQueueLength:   gauge(ports.MetricQueueLength, "Current number of samples buffered in the feed queue."),
			ports.MetricWindowSamples: gauge(ports.MetricWindowSamples, "Samples held by the rolling window."),
		},
		histos: map[string]prometheus.Observer{
			ports.MetricGenerateLatency: histogram(ports.MetricGenerateLatency, "Time to synthesize one sequence.",
				prometheus.ExponentialBuckets(0.00001, 4, 10)),
			ports.MetricLocateLatency: histogram(ports.MetricLocateLatency, "Time to resolve one pointer position.",
				prometheus.ExponentialBuckets(0.000001, 4, 10)),
			ports.MetricSinkLatency: histogram(ports.MetricSinkLatency, "Time from dequeued batch to sink commit.",
				prometheus.ExponentialBuckets(0.001, 2, 12)),
		},
	}
}

// register returns the collector already registered under the same
// descriptor when there is one, so several runtimes can share a registry.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.log.Error(msg, append(attrs(fields), "error", err)...)
	}
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err != nil {
		p.log.Error(msg, append(attrs(fields), "error", err, "critical", true)...)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordReject(seq ports.SeqNo, s *domain.Sample, err error) {
	p.IncCounter(ports.MetricSamplesRejected, 1)
	if err != nil && s != nil {
		p.log.Warn("sample_rejected", "seq", uint64(seq), "ts", s.Timestamp, "protocol", string(s.Protocol), "error", err)
	}
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
