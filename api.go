package nfx

import (
	"time"

	base "github.com/IAM-Haris-K/NFX/pkg/nfx"
)

// Re-exported errors for convenience.
var (
	ErrQueueFull         = base.ErrQueueFull
	ErrPublisherClosed   = base.ErrPublisherClosed
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
	ErrInvalidConfig     = base.ErrInvalidConfig
	ErrEmptyDomain       = base.ErrEmptyDomain
	ErrNoData            = base.ErrNoData
	ErrViewport          = base.ErrViewport
)

// Type aliases so consumers can import github.com/IAM-Haris-K/NFX directly.
type (
	Config          = base.Config
	FeedPolicy      = base.FeedPolicy
	WindowConfig    = base.WindowConfig
	FeedConfig      = base.FeedConfig
	MetricsConfig   = base.MetricsConfig
	LogConfig       = base.LogConfig
	Flow            = base.Flow
	FlowOption      = base.FlowOption
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Feed            = base.Feed
	FeedOption      = base.FeedOption
	Dashboard       = base.Dashboard
	DashboardOption = base.DashboardOption
	Sample          = base.Sample
	Sequence        = base.Sequence
	Stats           = base.Stats
	Protocol        = base.Protocol
	WindowSpec      = base.WindowSpec
	Source          = base.Source
	Scale           = base.Scale
	Viewport        = base.Viewport
	View            = base.View
	Frame           = base.Frame
	Tooltip         = base.Tooltip
	Packet          = base.Packet
	Order           = base.Order
	SampleBatchSink = base.SampleBatchSink
	Collector       = base.Collector
	Sink            = base.Sink
	Transformer     = base.Transformer
	SampleQueue     = base.SampleQueue
	Observability   = base.Observability
	QueuedSample    = base.QueuedSample
	Publisher       = base.Publisher
	PublisherConfig = base.PublisherConfig
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...FeedOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInCollector(col Collector) StreamInOption {
	return base.StreamInCollector(col)
}

func StreamInSource(src Source) StreamInOption {
	return base.StreamInSource(src)
}

func StreamInQueue(q SampleQueue) StreamInOption {
	return base.StreamInQueue(q)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutTransformer(tr Transformer) StreamOutOption {
	return base.StreamOutTransformer(tr)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn SampleBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Live feed and options.
func NewFeed(cfg *Config, opts ...FeedOption) (*Feed, error) {
	return base.NewFeed(cfg, opts...)
}

func WithCollector(col Collector) FeedOption {
	return base.WithCollector(col)
}

func WithSink(s Sink) FeedOption {
	return base.WithSink(s)
}

func WithTransformer(tr Transformer) FeedOption {
	return base.WithTransformer(tr)
}

func WithSampleQueue(q SampleQueue) FeedOption {
	return base.WithSampleQueue(q)
}

func WithObservability(obs Observability) FeedOption {
	return base.WithObservability(obs)
}

// Dashboard and options.
func NewDashboard(cfg *Config, opts ...DashboardOption) (*Dashboard, error) {
	return base.NewDashboard(cfg, opts...)
}

func WithSource(src Source) DashboardOption {
	return base.WithSource(src)
}

func WithClock(now func() time.Time) DashboardOption {
	return base.WithClock(now)
}

// Sink adapters.
func NewCallbackSink(name string, fn SampleBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []Sample, func()) {
	return base.NewChannelSink(name, buffer)
}

// External publisher.
func NewPublisher(cfg *PublisherConfig, sink SampleBatchSink) (*Publisher, error) {
	return base.NewPublisher(cfg, sink)
}
