package ports

import "github.com/IAM-Haris-K/NFX/internal/domain"

// Transformer rewrites or rejects a sample between the queue and the sink.
type Transformer interface {
	Transform(*domain.Sample) (*domain.Sample, error)
	Name() string
}
