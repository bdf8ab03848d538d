package packets

import (
	"fmt"
	"io"
	"net/netip"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/IAM-Haris-K/NFX/internal/domain"
)

// Decode reads a YAML (or JSON) list of packets.
func Decode(r io.Reader) ([]Packet, error) {
	var out []Packet
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("packets: decode: %w", err)
	}
	for i, p := range out {
		if !p.SourceIP.IsValid() || !p.DestinationIP.IsValid() {
			return nil, fmt.Errorf("packets: entry %d (%s): missing address", i, p.ID)
		}
		if p.Size < 0 {
			return nil, fmt.Errorf("packets: entry %d (%s): negative size", i, p.ID)
		}
	}
	return out, nil
}

// Source draws uniform floats in [0, 1).
type Source interface {
	Float64() float64
}

type template struct {
	src, dst string
	proto    domain.Protocol
	size     int
	info     string
	severity Severity
}

var templates = []template{
	{"192.168.1.105", "93.184.216.34", domain.ProtocolTCP, 1420, "SYN, Seq=0 Win=64240 Len=0 MSS=1460", SeverityLow},
	{"10.0.0.15", "10.0.0.1", domain.ProtocolDNS, 74, "Standard query 0x1a2b A example.com", SeverityLow},
	{"10.0.0.1", "10.0.0.15", domain.ProtocolDNS, 90, "Standard query response 0x1a2b A example.com", SeverityLow},
	{"192.168.1.105", "93.184.216.34", domain.ProtocolHTTP, 567, "GET /index.html HTTP/1.1", SeverityLow},
	{"192.168.1.110", "142.250.185.78", domain.ProtocolHTTPS, 1350, "Application Data", SeverityLow},
	{"203.0.113.45", "192.168.1.10", domain.ProtocolTCP, 60, "SYN scan on port 22", SeverityHigh},
	{"198.51.100.23", "192.168.1.20", domain.ProtocolUDP, 512, "Malformed packet on port 161", SeverityMedium},
	{"192.168.1.50", "8.8.8.8", domain.ProtocolICMP, 98, "Echo (ping) request id=0x0001", SeverityLow},
	{"185.220.101.7", "192.168.1.105", domain.ProtocolTCP, 1500, "Payload matches known exploit signature", SeverityCritical},
}

// Synthesize returns n packets spread over the interval before now, newest
// last, drawn from a fixed set of traffic shapes.
func Synthesize(src Source, now time.Time, n int, spread time.Duration) []Packet {
	out := make([]Packet, 0, n)
	for i := 0; i < n; i++ {
		tpl := templates[int(src.Float64()*float64(len(templates)))%len(templates)]
		age := time.Duration(float64(spread) * float64(n-i) / float64(n))
		size := tpl.size + int(src.Float64()*float64(tpl.size)/10)
		out = append(out, Packet{
			ID:            fmt.Sprintf("pkt-%03d", i+1),
			Timestamp:     now.Add(-age),
			SourceIP:      netip.MustParseAddr(tpl.src),
			DestinationIP: netip.MustParseAddr(tpl.dst),
			Protocol:      tpl.proto,
			Size:          size,
			Info:          tpl.info,
			Severity:      tpl.severity,
			Flagged:       tpl.severity == SeverityHigh || tpl.severity == SeverityCritical,
		})
	}
	return out
}
