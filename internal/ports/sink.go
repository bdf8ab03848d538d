package ports

import "github.com/IAM-Haris-K/NFX/internal/domain"

type Sink interface {
	WriteBatch(samples []*domain.Sample) error
	Name() string
}
