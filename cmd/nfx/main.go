package main

import (
	"fmt"
	"os"

	"github.com/IAM-Haris-K/NFX/cmd/nfx/commands"
)

func main() {
	if err := commands.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
