package ports

import "github.com/IAM-Haris-K/NFX/internal/domain"

// Collector pushes live samples into out until Stop is called.
type Collector interface {
	Start(out chan<- *domain.Sample) error
	Stop() error
}
