package nfx

import (
	"sync"
)

type stubCollector struct {
	samples []Sample
	mu      sync.Mutex
	stopped bool
}

func (s *stubCollector) Start(out chan<- *Sample) error {
	go func() {
		for i := range s.samples {
			out <- &s.samples[i]
		}
	}()
	return nil
}

func (s *stubCollector) Stop() error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	return nil
}

type stubSink struct{}

func (s *stubSink) WriteBatch(samples []*Sample) error { return nil }
func (s *stubSink) Name() string                       { return "stub" }

type stubTransformer struct{}

func (s *stubTransformer) Transform(sample *Sample) (*Sample, error) {
	return sample, nil
}
func (s *stubTransformer) Name() string { return "stub" }

type stubQueue struct{}

func (s *stubQueue) Enqueue(seq SeqNo, sample *Sample) bool { return true }
func (s *stubQueue) DequeueBatch(max int) []QueuedSample    { return nil }
func (s *stubQueue) Len() int                               { return 0 }

type stubObservability struct {
	mu       sync.Mutex
	counters map[string]float64
	infos    []string
}

func (s *stubObservability) LogInfo(msg string, _ ...Field) {
	s.mu.Lock()
	s.infos = append(s.infos, msg)
	s.mu.Unlock()
}
func (s *stubObservability) LogError(string, error, ...Field)    {}
func (s *stubObservability) LogCritical(string, error, ...Field) {}
func (s *stubObservability) IncCounter(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		s.counters = map[string]float64{}
	}
	s.counters[name] += v
}
func (s *stubObservability) ObserveLatency(string, float64)     {}
func (s *stubObservability) SetGauge(string, float64)           {}
func (s *stubObservability) RecordReject(SeqNo, *Sample, error) {}

func (s *stubObservability) counter(name string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name]
}

func (s *stubCollector) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}
