package sink

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// WindowSink keeps the trailing Retention of delivered samples in memory and
// serves them as immutable sequences for chart frames.
type WindowSink struct {
	retention time.Duration
	cadence   time.Duration
	obs       ports.Observability

	mu      sync.RWMutex
	samples []domain.Sample
}

// NewWindowSink returns a sink holding samples no older than retention
// relative to the newest one. obs may be nil.
func NewWindowSink(retention, cadence time.Duration, obs ports.Observability) *WindowSink {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &WindowSink{retention: retention, cadence: cadence, obs: obs}
}

func (w *WindowSink) Name() string { return "window" }

func (w *WindowSink) WriteBatch(batch []*domain.Sample) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sorted := true
	for _, s := range batch {
		if s == nil {
			continue
		}
		if n := len(w.samples); n > 0 && s.Timestamp.Before(w.samples[n-1].Timestamp) {
			sorted = false
		}
		w.samples = append(w.samples, *s)
	}
	if !sorted {
		sort.SliceStable(w.samples, func(i, j int) bool {
			return w.samples[i].Timestamp.Before(w.samples[j].Timestamp)
		})
	}
	w.evictLocked()

	if w.obs != nil {
		w.obs.SetGauge(ports.MetricWindowSamples, float64(len(w.samples)))
	}
	return nil
}

func (w *WindowSink) evictLocked() {
	n := len(w.samples)
	if n == 0 {
		return
	}
	cutoff := w.samples[n-1].Timestamp.Add(-w.retention)
	i := sort.Search(n, func(i int) bool { return !w.samples[i].Timestamp.Before(cutoff) })
	if i > 0 {
		w.samples = append(w.samples[:0], w.samples[i:]...)
	}
}

// Snapshot copies the current window into a fresh sequence.
func (w *WindowSink) Snapshot() domain.Sequence {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return domain.NewSequence(uuid.NewString(), w.cadence, w.samples)
}

func (w *WindowSink) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.samples)
}

// SetRetention changes the window length; the next write evicts against it.
func (w *WindowSink) SetRetention(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.retention = d
	w.evictLocked()
	w.mu.Unlock()
}

// SetCadence changes the cadence reported by later snapshots.
func (w *WindowSink) SetCadence(d time.Duration) {
	if d <= 0 {
		return
	}
	w.mu.Lock()
	w.cadence = d
	w.mu.Unlock()
}

var _ ports.Sink = (*WindowSink)(nil)
