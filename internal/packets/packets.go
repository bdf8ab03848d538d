// Package packets orders and filters the captured packet table.
package packets

import (
	"cmp"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

type Severity string

const (
	SeverityNone     Severity = ""
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

type Packet struct {
	ID            string          `json:"id" yaml:"id"`
	Timestamp     time.Time       `json:"timestamp" yaml:"timestamp"`
	SourceIP      netip.Addr      `json:"sourceIp" yaml:"sourceIp"`
	DestinationIP netip.Addr      `json:"destinationIp" yaml:"destinationIp"`
	Protocol      domain.Protocol `json:"protocol" yaml:"protocol"`
	Size          int             `json:"size" yaml:"size"`
	Info          string          `json:"info" yaml:"info"`
	Severity      Severity        `json:"severity,omitempty" yaml:"severity,omitempty"`
	Flagged       bool            `json:"flagged,omitempty" yaml:"flagged,omitempty"`
}

// SortKey is a sortable column of the packet table.
type SortKey int

const (
	ByTime SortKey = iota
	BySource
	ByDestination
	ByProtocol
	BySize
)

var sortKeyNames = map[SortKey]string{
	ByTime:        "time",
	BySource:      "source",
	ByDestination: "destination",
	ByProtocol:    "protocol",
	BySize:        "size",
}

func (k SortKey) String() string {
	if n, ok := sortKeyNames[k]; ok {
		return n
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// ParseSortKey accepts the names printed by String.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, n := range sortKeyNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("packets: unknown sort key %q", s)
}

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

type Order struct {
	Key       SortKey
	Direction Direction
}

// DefaultOrder shows the newest packets first.
var DefaultOrder = Order{Key: ByTime, Direction: Desc}

// Toggle is the column-header click: the same ascending key flips to
// descending, anything else starts ascending on key.
func (o Order) Toggle(key SortKey) Order {
	if o.Key == key && o.Direction == Asc {
		return Order{Key: key, Direction: Desc}
	}
	return Order{Key: key, Direction: Asc}
}

func (o Order) String() string { return o.Key.String() + " " + o.Direction.String() }

// Valid reports whether k is one of the table columns.
func (k SortKey) Valid() bool {
	_, ok := sortKeyNames[k]
	return ok
}

// Comparator returns the ascending comparison for key. It panics on a key
// outside the closed set; ParseSortKey never yields one.
func Comparator(key SortKey) func(a, b Packet) int {
	switch key {
	case ByTime:
		return func(a, b Packet) int { return a.Timestamp.Compare(b.Timestamp) }
	case BySource:
		return func(a, b Packet) int { return a.SourceIP.Compare(b.SourceIP) }
	case ByDestination:
		return func(a, b Packet) int { return a.DestinationIP.Compare(b.DestinationIP) }
	case ByProtocol:
		return func(a, b Packet) int { return cmp.Compare(a.Protocol, b.Protocol) }
	case BySize:
		return func(a, b Packet) int { return cmp.Compare(a.Size, b.Size) }
	default:
		panic(fmt.Sprintf("packets: unknown sort key %s", key))
	}
}

// Sort returns a stably ordered copy of in.
func Sort(in []Packet, o Order) []Packet {
	out := slices.Clone(in)
	less := Comparator(o.Key)
	if o.Direction == Desc {
		asc := less
		less = func(a, b Packet) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, less)
	return out
}

// Filter keeps packets whose addresses contain query or whose protocol or
// info contain it case-insensitively. An empty query keeps everything.
func Filter(in []Packet, query string) []Packet {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(in)
	}
	lower := strings.ToLower(query)

	out := make([]Packet, 0, len(in))
	for _, p := range in {
		switch {
		case strings.Contains(p.SourceIP.String(), query),
			strings.Contains(p.DestinationIP.String(), query),
			strings.Contains(strings.ToLower(string(p.Protocol)), lower),
			strings.Contains(strings.ToLower(p.Info), lower):
			out = append(out, p)
		}
	}
	return out
}

// Table applies Filter then Sort.
func Table(in []Packet, query string, o Order) []Packet {
	return Sort(Filter(in, query), o)
}
