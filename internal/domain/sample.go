package domain

import (
	"fmt"
	"strings"
	"time"
)

// Protocol tags a traffic sample with the protocol family it was counted for.
type Protocol string

const (
	ProtocolTCP   Protocol = "TCP"
	ProtocolUDP   Protocol = "UDP"
	ProtocolHTTP  Protocol = "HTTP"
	ProtocolHTTPS Protocol = "HTTPS"
	ProtocolDNS   Protocol = "DNS"
	ProtocolICMP  Protocol = "ICMP"
)

// Protocols lists every known protocol in dashboard order.
func Protocols() []Protocol {
	return []Protocol{ProtocolTCP, ProtocolUDP, ProtocolHTTP, ProtocolHTTPS, ProtocolDNS, ProtocolICMP}
}

// ParseProtocol accepts any casing of a known protocol name.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown protocol %q", s)
	}
	return p, nil
}

func (p Protocol) Valid() bool {
	switch p {
	case ProtocolTCP, ProtocolUDP, ProtocolHTTP, ProtocolHTTPS, ProtocolDNS, ProtocolICMP:
		return true
	}
	return false
}

// UnmarshalText lets yaml/json configs name protocols in any casing.
func (p *Protocol) UnmarshalText(b []byte) error {
	parsed, err := ParseProtocol(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Sample is one timestamped traffic-magnitude observation.
type Sample struct {
	Timestamp time.Time `json:"ts"`
	Value     float64   `json:"value"`
	Protocol  Protocol  `json:"protocol,omitempty"`
}
