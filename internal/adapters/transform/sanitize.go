package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// ErrRejected marks a sample that cannot be charted.
var ErrRejected = errors.New("sample rejected")

// Sanitizer drops samples that would break the scales (non-finite or
// negative values, missing timestamps, unknown protocols) and rounds the
// rest to whole packet counts.
type Sanitizer struct {
	// Protocols, when set, restricts accepted protocol tags.
	Protocols []domain.Protocol
}

func (s Sanitizer) Name() string { return "sanitize" }

func (s Sanitizer) Transform(in *domain.Sample) (*domain.Sample, error) {
	switch {
	case in == nil:
		return nil, fmt.Errorf("%w: nil sample", ErrRejected)
	case in.Timestamp.IsZero():
		return nil, fmt.Errorf("%w: zero timestamp", ErrRejected)
	case math.IsNaN(in.Value) || math.IsInf(in.Value, 0):
		return nil, fmt.Errorf("%w: non-finite value", ErrRejected)
	case in.Value < 0:
		return nil, fmt.Errorf("%w: negative value %g", ErrRejected, in.Value)
	case in.Protocol != "" && !in.Protocol.Valid():
		return nil, fmt.Errorf("%w: unknown protocol %q", ErrRejected, in.Protocol)
	case !s.allowed(in.Protocol):
		return nil, fmt.Errorf("%w: protocol %s not selected", ErrRejected, in.Protocol)
	}

	out := *in
	out.Value = math.Round(out.Value)
	return &out, nil
}

func (s Sanitizer) allowed(p domain.Protocol) bool {
	if len(s.Protocols) == 0 {
		return true
	}
	for _, want := range s.Protocols {
		if want == p {
			return true
		}
	}
	return false
}

// Noop passes samples through unchanged.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) Transform(s *domain.Sample) (*domain.Sample, error) { return s, nil }

var (
	_ ports.Transformer = Sanitizer{}
	_ ports.Transformer = Noop{}
)
