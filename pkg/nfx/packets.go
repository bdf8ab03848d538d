package nfx

import (
	"io"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/packets"
	"github.com/IAM-Haris-K/NFX/internal/synth"
)

const (
	ByTime        = packets.ByTime
	BySource      = packets.BySource
	ByDestination = packets.ByDestination
	ByProtocol    = packets.ByProtocol
	BySize        = packets.BySize

	Asc  = packets.Asc
	Desc = packets.Desc

	SeverityLow      = packets.SeverityLow
	SeverityMedium   = packets.SeverityMedium
	SeverityHigh     = packets.SeverityHigh
	SeverityCritical = packets.SeverityCritical
)

// Severity grades a flagged packet.
type Severity = packets.Severity

// DefaultOrder shows the newest packets first.
var DefaultOrder = packets.DefaultOrder

// PacketTable filters ps by query and orders the result.
func PacketTable(ps []Packet, query string, o Order) []Packet {
	return packets.Table(ps, query, o)
}

// DecodePackets reads a YAML or JSON packet list.
func DecodePackets(r io.Reader) ([]Packet, error) {
	return packets.Decode(r)
}

// SynthesizePackets draws n demo packets spread over the spread before now.
// A nil src uses the process-wide random stream.
func SynthesizePackets(src Source, now time.Time, n int, spread time.Duration) []Packet {
	if src == nil {
		src = synth.AmbientSource()
	}
	return packets.Synthesize(src, now, n, spread)
}

// ParseSortKey accepts time, source, destination, protocol or size.
func ParseSortKey(s string) (SortKey, error) {
	return packets.ParseSortKey(s)
}
