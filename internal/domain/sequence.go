package domain

import (
	"math"
	"sort"
	"time"
)

// Sequence is an ordered, immutable-once-produced list of samples spanning a
// fixed window at a fixed cadence. Samples are ascending by timestamp.
type Sequence struct {
	ID      string
	Cadence time.Duration
	samples []Sample
}

// NewSequence copies samples into a Sequence, sorting them stably by
// timestamp when they are not already ascending.
func NewSequence(id string, cadence time.Duration, samples []Sample) Sequence {
	cp := make([]Sample, len(samples))
	copy(cp, samples)
	if !sort.SliceIsSorted(cp, func(i, j int) bool { return cp[i].Timestamp.Before(cp[j].Timestamp) }) {
		sort.SliceStable(cp, func(i, j int) bool { return cp[i].Timestamp.Before(cp[j].Timestamp) })
	}
	return Sequence{ID: id, Cadence: cadence, samples: cp}
}

func (s Sequence) Len() int { return len(s.samples) }

func (s Sequence) At(i int) Sample { return s.samples[i] }

// Samples returns a copy of the underlying samples.
func (s Sequence) Samples() []Sample {
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// View exposes the backing slice for read-only hot paths (pointer lookups).
// Callers must not modify it.
func (s Sequence) View() []Sample { return s.samples }

// Filter returns the partition of samples tagged with p.
func (s Sequence) Filter(p Protocol) Sequence {
	out := make([]Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		if sample.Protocol == p {
			out = append(out, sample)
		}
	}
	return Sequence{ID: s.ID, Cadence: s.Cadence, samples: out}
}

// Totals collapses every protocol partition into one untagged sample per
// timestamp whose value is the sum across protocols.
func (s Sequence) Totals() Sequence {
	out := make([]Sample, 0, len(s.samples))
	for _, sample := range s.samples {
		n := len(out)
		if n > 0 && out[n-1].Timestamp.Equal(sample.Timestamp) {
			out[n-1].Value += sample.Value
			continue
		}
		out = append(out, Sample{Timestamp: sample.Timestamp, Value: sample.Value})
	}
	return Sequence{ID: s.ID, Cadence: s.Cadence, samples: out}
}

// Stats summarises the values of a sequence.
type Stats struct {
	Count int
	From  time.Time
	To    time.Time
	Min   float64
	Max   float64
	Mean  float64
	P95   float64
	Total float64
}

func (s Sequence) Stats() Stats {
	if len(s.samples) == 0 {
		return Stats{}
	}

	values := make([]float64, 0, len(s.samples))
	minV := math.MaxFloat64
	maxV := -math.MaxFloat64
	var sum float64
	for _, sample := range s.samples {
		values = append(values, sample.Value)
		sum += sample.Value
		if sample.Value < minV {
			minV = sample.Value
		}
		if sample.Value > maxV {
			maxV = sample.Value
		}
	}
	sort.Float64s(values)

	return Stats{
		Count: len(values),
		From:  s.samples[0].Timestamp,
		To:    s.samples[len(s.samples)-1].Timestamp,
		Min:   minV,
		Max:   maxV,
		Mean:  sum / float64(len(values)),
		P95:   percentile(values, 0.95),
		Total: sum,
	}
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
