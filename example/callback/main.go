package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/IAM-Haris-K/NFX/pkg/nfx"
)

func main() {
	flow, err := nfx.Conf("../../data/nfx.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callback := func(batch []nfx.Sample) error {
		for _, sample := range batch {
			fmt.Printf("%s protocol=%s value=%.0f\n",
				sample.Timestamp.Format(time.RFC3339),
				sample.Protocol,
				sample.Value,
			)
		}
		return nil
	}

	if err := flow.Run(ctx, nfx.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("feed error: %v", err)
	}
}
