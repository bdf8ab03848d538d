package pipeline

import (
	"context"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

// RunDrainPipeline moves batches from q through tr into sink until ctx ends.
func RunDrainPipeline(ctx context.Context, q ports.SampleQueue, tr ports.Transformer, sink ports.Sink, pol ports.Policy, obs ports.Observability) {
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = defaultIdleSleep
	}

	for {
		if ctx.Err() != nil {
			return
		}

		batch := q.DequeueBatch(pol.MaxBatchSize)
		obs.SetGauge(ports.MetricQueueLength, float64(q.Len()))
		if len(batch) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(sleep):
			}
			continue
		}

		drainBatch(batch, tr, sink, obs)
	}
}

func drainBatch(batch []ports.QueuedSample, tr ports.Transformer, sink ports.Sink, obs ports.Observability) {
	out := make([]*domain.Sample, 0, len(batch))
	for _, item := range batch {
		s, err := tr.Transform(item.Sample)
		if err != nil {
			obs.RecordReject(item.Seq, item.Sample, err)
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return
	}

	start := time.Now()
	if err := sink.WriteBatch(out); err != nil {
		obs.LogError("sink_write_failed", err,
			ports.Field{Key: "sink", Value: sink.Name()},
			ports.Field{Key: "samples", Value: len(out)})
		obs.IncCounter(ports.MetricSamplesRejected, float64(len(out)))
		return
	}
	obs.ObserveLatency(ports.MetricSinkLatency, time.Since(start).Seconds())
	obs.IncCounter(ports.MetricSamplesDelivered, float64(len(out)))
}
