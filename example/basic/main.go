package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/IAM-Haris-K/NFX"
)

func main() {
	flow, err := nfx.Conf("../../data/nfx.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := flow.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("feed exited: %v", err)
	}
}
