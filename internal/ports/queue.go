package ports

import "github.com/IAM-Haris-K/NFX/internal/domain"

// SeqNo numbers samples in collection order.
type SeqNo uint64

type QueuedSample struct {
	Seq    SeqNo
	Sample *domain.Sample
}

type SampleQueue interface {
	Enqueue(seq SeqNo, s *domain.Sample) bool
	DequeueBatch(max int) []QueuedSample
	Len() int
}
