package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/IAM-Haris-K/NFX/internal/domain"
	"github.com/IAM-Haris-K/NFX/internal/ports"
)

const defaultIdleSleep = 5 * time.Millisecond

// RunFeedPipeline starts col and moves its samples into q under the
// queue-full policy until ctx ends. It returns once the collector started.
func RunFeedPipeline(ctx context.Context, col ports.Collector, q ports.SampleQueue, pol ports.Policy, obs ports.Observability) error {
	ch := make(chan *domain.Sample, pol.MaxQueueLen)

	if err := col.Start(ch); err != nil {
		return err
	}

	go func() {
		var seq ports.SeqNo
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-ch:
				seq++
				obs.IncCounter(ports.MetricSamplesGenerated, 1)
				if !enqueueWithPolicy(ctx, q, seq, s, pol, obs) {
					obs.IncCounter(ports.MetricQueueDropped, 1)
				}
			}
		}
	}()

	return nil
}

func enqueueWithPolicy(ctx context.Context, q ports.SampleQueue, seq ports.SeqNo, s *domain.Sample, pol ports.Policy, obs ports.Observability) bool {
	sleep := pol.IdleSleep
	if sleep <= 0 {
		sleep = defaultIdleSleep
	}

	for {
		if ok := q.Enqueue(seq, s); ok {
			return true
		}

		switch pol.OnQueueFull {
		case ports.OnFullBlock:
			select {
			case <-ctx.Done():
				return false
			case <-time.After(sleep):
			}
		case ports.OnFullDrop, ports.OnFullReject:
			obs.LogError("queue_full_drop", fmt.Errorf("queue length exceeded capacity %d", pol.MaxQueueLen),
				ports.Field{Key: "seq", Value: uint64(seq)})
			return false
		default:
			obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", pol.OnQueueFull))
			return false
		}
	}
}
