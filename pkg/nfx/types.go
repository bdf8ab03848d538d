package nfx

import (
	"github.com/IAM-Haris-K/NFX/internal/chart"
	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/locate"
	"github.com/IAM-Haris-K/NFX/internal/packets"
	"github.com/IAM-Haris-K/NFX/internal/ports"
	"github.com/IAM-Haris-K/NFX/internal/scale"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

// Sample is one timestamped traffic-magnitude observation. It is a plain
// value, safe to copy across goroutines.
type Sample = domain.Sample

// Sequence is an ascending, immutable list of samples at a fixed cadence.
type Sequence = domain.Sequence

// Stats summarises a sequence for the dashboard stat cards.
type Stats = domain.Stats

// Protocol tags a sample with a protocol family.
type Protocol = domain.Protocol

const (
	TCP   = domain.ProtocolTCP
	UDP   = domain.ProtocolUDP
	HTTP  = domain.ProtocolHTTP
	HTTPS = domain.ProtocolHTTPS
	DNS   = domain.ProtocolDNS
	ICMP  = domain.ProtocolICMP
)

// WindowSpec selects a synthesized window relative to the anchor instant.
type WindowSpec = synth.WindowSpec

// ShapingPolicy holds the traffic-shape constants of the synthesizer.
type ShapingPolicy = synth.Policy

// Source is the random stream consumed by the synthesizer.
type Source = synth.Source

type (
	// Scale is an invertible affine map from data to pixels.
	Scale = scale.Scale
	// Extent is a closed numeric interval.
	Extent = scale.Extent
	// Tick is an axis mark.
	Tick = scale.Tick
)

type (
	// Viewport is the outer chart size and its margins.
	Viewport = chart.Viewport
	// Margin is the space reserved around the plot for axes.
	Margin = chart.Margin
	// View is the protocol selection of the chart.
	View = chart.View
	// Frame is one composed, immutable chart state.
	Frame = chart.Frame
	// Tooltip anchors the hovered sample.
	Tooltip = chart.Tooltip
	// Point is a sample position in plot coordinates.
	Point = chart.Point
)

type (
	Packet    = packets.Packet
	SortKey   = packets.SortKey
	Order     = packets.Order
	Direction = packets.Direction
)

// Collector streams live samples into the feed.
type Collector = ports.Collector

// SampleQueue is the bounded queue between collector and sinks.
type SampleQueue = ports.SampleQueue

// QueuedSample is an item buffered inside the queue.
type QueuedSample = ports.QueuedSample

// SeqNo numbers samples in collection order.
type SeqNo = ports.SeqNo

// Transformer rewrites or rejects samples before they reach a sink.
type Transformer = ports.Transformer

// Sink consumes ordered batches of samples.
type Sink = ports.Sink

// Observability emits metrics and logs about the feed and the dashboard.
type Observability = ports.Observability

// Field is a structured log field.
type Field = ports.Field

// Errors callers can match with errors.Is.
var (
	ErrInvalidConfig = synth.ErrInvalidConfig
	ErrEmptyDomain   = scale.ErrEmptyDomain
	ErrNoData        = locate.ErrNoData
	ErrViewport      = chart.ErrViewport
)

// TooltipLayout is the timestamp layout of tooltip titles.
const TooltipLayout = chart.TooltipLayout
