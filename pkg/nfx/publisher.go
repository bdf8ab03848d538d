package nfx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/adapters/observability"
	"github.com/IAM-Haris-K/NFX/internal/adapters/queue"
	"github.com/IAM-Haris-K/NFX/internal/adapters/transform"
	"github.com/IAM-Haris-K/NFX/internal/app/pipeline"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// ErrQueueFull indicates the queue rejected the sample according to policy.
var ErrQueueFull = errors.New("nfx: queue full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("nfx: publisher closed")

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Policy FeedPolicy
	Logger *slog.Logger
	// Observability overrides the default Prometheus backend.
	Observability Observability
}

// applyDefaults fills in sane thresholds so callers only override what they need.
func (c *PublisherConfig) applyDefaults() {
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 10_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 500
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = ports.OnFullReject
	}
}

func (c *PublisherConfig) validate() error {
	if c.Policy.MaxQueueLen <= 0 {
		return fmt.Errorf("policy.max_queue_len must be > 0")
	}
	if c.Policy.MaxBatchSize <= 0 {
		return fmt.Errorf("policy.max_batch_size must be > 0")
	}
	switch c.Policy.OnQueueFull {
	case ports.OnFullBlock, ports.OnFullDrop, ports.OnFullReject:
	default:
		return fmt.Errorf("policy.on_queue_full: unknown policy %q", c.Policy.OnQueueFull)
	}
	return nil
}

// Publisher lets external producers push their own samples through the
// queue → sanitizer → sink path, with the same backpressure policy as the
// live feed.
type Publisher struct {
	policy FeedPolicy
	queue  *queue.MemQueue
	obs    ports.Observability

	mu     sync.Mutex
	seq    ports.SeqNo
	closed bool
	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewPublisher starts the drain loop that hands batches to sink.
func NewPublisher(cfg *PublisherConfig, sink SampleBatchSink) (*Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink callback is required")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	obs := cfg.Observability
	if obs == nil {
		obs = observability.NewPromObs(observability.WithLogger(cfg.Logger))
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Publisher{
		policy: cfg.Policy,
		queue:  queue.NewMemQueue(cfg.Policy.MaxQueueLen),
		obs:    obs,
		cancel: cancel,
		doneCh: make(chan struct{}),
	}

	go func() {
		defer close(p.doneCh)
		pipeline.RunDrainPipeline(ctx, p.queue, transform.Sanitizer{}, NewCallbackSink("publisher", sink), p.policy, p.obs)
	}()
	return p, nil
}

// Publish enqueues a copy of sample according to policy.
func (p *Publisher) Publish(sample Sample) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPublisherClosed
	}
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	s := sample
	for {
		if p.queue.Enqueue(seq, &s) {
			p.obs.IncCounter(ports.MetricSamplesGenerated, 1)
			return nil
		}
		if p.policy.OnQueueFull != ports.OnFullBlock {
			p.obs.IncCounter(ports.MetricQueueDropped, 1)
			return ErrQueueFull
		}
		if err := p.wait(); err != nil {
			return err
		}
	}
}

func (p *Publisher) wait() error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrPublisherClosed
	}
	select {
	case <-p.doneCh:
		return ErrPublisherClosed
	case <-time.After(p.policy.IdleSleep):
		return nil
	}
}

// Close drains what is already queued, then stops, respecting ctx.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	for p.queue.Len() > 0 {
		select {
		case <-ctx.Done():
			p.cancel()
			return ctx.Err()
		case <-time.After(p.policy.IdleSleep):
		}
	}
	p.cancel()

	select {
	case <-p.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
