package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/IAM-Haris-K/NFX"
)

func main() {
	flow, err := nfx.Conf("../../data/nfx.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, batches, closeBatches := nfx.NewChannelSink("fanout", 32)
	defer closeBatches()

	go totalsWorker("totals", batches)

	if err := flow.Run(ctx, nfx.StreamOutSink(sink)); err != nil && err != context.Canceled {
		log.Fatalf("feed error: %v", err)
	}
}

// totalsWorker sums each batch per timestamp, the way the "All" chart view does.
func totalsWorker(name string, batches <-chan []nfx.Sample) {
	for batch := range batches {
		totals := make(map[time.Time]float64)
		for _, s := range batch {
			totals[s.Timestamp] += s.Value
		}
		for ts, v := range totals {
			fmt.Printf("[%s] %s total=%.0f\n", name, ts.Format(time.RFC3339), v)
		}
	}
}
