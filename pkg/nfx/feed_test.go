package nfx

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := ParseConfig([]byte(`
feed:
  max_queue_len: 8
  max_batch_size: 4
  idle_sleep: 1ms
  cadence: 1s
  retention: 1h
metrics:
  addr: "127.0.0.1:0"
window:
  timezone: UTC
`))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestNewFeedWithCustomAdapters(t *testing.T) {
	cfg := testConfig(t)

	queueStub := &stubQueue{}
	collectorStub := &stubCollector{}
	sinkStub := &stubSink{}
	transformerStub := &stubTransformer{}
	obsStub := &stubObservability{}

	feed, err := NewFeed(
		cfg,
		WithCollector(collectorStub),
		WithSink(sinkStub),
		WithTransformer(transformerStub),
		WithSampleQueue(queueStub),
		WithObservability(obsStub),
	)
	if err != nil {
		t.Fatalf("NewFeed returned error: %v", err)
	}

	if feed.collector != collectorStub {
		t.Fatalf("expected custom collector to be used")
	}
	if feed.transformer != transformerStub {
		t.Fatalf("expected custom transformer to be used")
	}
	if feed.queue != queueStub {
		t.Fatalf("expected custom queue to be used")
	}
	if feed.obs != obsStub {
		t.Fatalf("expected custom observability to be used")
	}
	if feed.sink.Name() != "window+stub" {
		t.Fatalf("expected custom sink next to the window, got %s", feed.sink.Name())
	}
}

func TestFeedDeliversIntoWindow(t *testing.T) {
	cfg := testConfig(t)
	base := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	col := &stubCollector{samples: []Sample{
		{Timestamp: base, Value: 10, Protocol: TCP},
		{Timestamp: base.Add(time.Second), Value: -5, Protocol: TCP},
		{Timestamp: base.Add(2 * time.Second), Value: 30.4, Protocol: TCP},
	}}
	obs := &stubObservability{}

	var delivered []Sample
	done := make(chan struct{})
	feed, err := NewFeed(cfg,
		WithCollector(col),
		WithObservability(obs),
		WithSink(NewCallbackSink("capture", func(batch []Sample) error {
			delivered = append(delivered, batch...)
			if len(delivered) == 2 {
				close(done)
			}
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("NewFeed returned error: %v", err)
	}
	if err := feed.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if err := feed.Start(); err == nil {
		t.Fatalf("expected second Start to fail")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for delivery, got %d", len(delivered))
	}

	snap := feed.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("expected 2 samples in window, got %d", snap.Len())
	}
	if snap.At(1).Value != 30 {
		t.Fatalf("expected sanitizer to round 30.4, got %v", snap.At(1).Value)
	}

	resp, err := http.Get("http://" + feed.MetricsAddr() + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected healthz response %d %q", resp.StatusCode, body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := feed.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown returned error: %v", err)
	}
	if !col.isStopped() {
		t.Fatalf("expected collector to be stopped")
	}
	if obs.counter("nfx_samples_delivered_total") != 2 {
		t.Fatalf("expected 2 delivered samples, got %v", obs.counter("nfx_samples_delivered_total"))
	}
}

func TestFeedSyntheticCollectorAndReconfigure(t *testing.T) {
	cfg := testConfig(t)
	feed, err := NewFeed(cfg, WithObservability(&stubObservability{}), WithoutMetricsServer())
	if err != nil {
		t.Fatalf("NewFeed returned error: %v", err)
	}

	next := *cfg
	next.Feed.Retention = 2 * time.Hour
	next.Feed.Cadence = 2 * time.Second
	if err := feed.Reconfigure(&next); err != nil {
		t.Fatalf("Reconfigure returned error: %v", err)
	}

	if got := feed.Snapshot().Cadence; got != 2*time.Second {
		t.Fatalf("expected window cadence to follow reconfigure, got %s", got)
	}

	bad := *cfg
	bad.Feed.Protocols = []Protocol{"SMTP"}
	if err := feed.Reconfigure(&bad); err == nil {
		t.Fatalf("expected invalid protocols to be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- feed.Run(ctx) }()

	deadline := time.Now().Add(3 * time.Second)
	for feed.Snapshot().Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the synthetic collector to fill the window")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
