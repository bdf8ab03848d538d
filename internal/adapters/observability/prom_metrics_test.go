package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

func TestPromObsMetrics(t *testing.T) {
	origReg := prometheus.DefaultRegisterer
	origGatherer := prometheus.DefaultGatherer
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origReg
		prometheus.DefaultGatherer = origGatherer
	})

	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg

	obs := NewPromObs()

	obs.IncCounter(ports.MetricSamplesDelivered, 5)
	if got := testutil.ToFloat64(obs.counters[ports.MetricSamplesDelivered]); got != 5 {
		t.Fatalf("expected delivered counter 5, got %f", got)
	}

	obs.IncCounter(ports.MetricQueueDropped, 2)
	if got := testutil.ToFloat64(obs.counters[ports.MetricQueueDropped]); got != 2 {
		t.Fatalf("expected queue drop counter 2, got %f", got)
	}

	obs.SetGauge(ports.MetricWindowSamples, 42)
	if got := testutil.ToFloat64(obs.gauges[ports.MetricWindowSamples]); got != 42 {
		t.Fatalf("expected window gauge 42, got %f", got)
	}

	obs.ObserveLatency(ports.MetricSinkLatency, 0.5)
	hCollector := obs.histos[ports.MetricSinkLatency].(prometheus.Collector)
	if samples := testutil.CollectAndCount(hCollector); samples != 1 {
		t.Fatalf("expected latency histogram to record 1 sample, got %d", samples)
	}

	obs.RecordReject(1, nil, nil)
	if got := testutil.ToFloat64(obs.counters[ports.MetricSamplesRejected]); got != 1 {
		t.Fatalf("expected reject counter 1, got %f", got)
	}

	// unknown names are ignored
	obs.IncCounter("nfx_unknown_total", 1)
	obs.SetGauge("nfx_unknown", 1)
}

func TestPromObsSharesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	a := NewPromObs(WithRegisterer(reg))
	b := NewPromObs(WithRegisterer(reg))

	a.IncCounter(ports.MetricLocateCalls, 1)
	b.IncCounter(ports.MetricLocateCalls, 2)

	if got := testutil.ToFloat64(a.counters[ports.MetricLocateCalls]); got != 3 {
		t.Fatalf("expected shared counter 3, got %f", got)
	}
}

func TestPromObsLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewPromObs(WithRegisterer(prometheus.NewRegistry()), WithLogger(logger))

	obs.LogInfo("feed_started", ports.Field{Key: "interval", Value: "1s"})
	obs.LogError("sink_write_failed", errors.New("boom"))
	obs.LogError("ignored", nil)
	obs.RecordReject(7, &domain.Sample{Protocol: domain.ProtocolDNS, Value: -1}, errors.New("negative"))

	out := buf.String()
	for _, want := range []string{"msg=feed_started interval=1s", "msg=sink_write_failed error=boom", "seq=7", "protocol=DNS"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected log to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ignored") {
		t.Fatalf("nil error should not be logged:\n%s", out)
	}
}
