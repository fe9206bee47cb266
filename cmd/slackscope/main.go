package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SZRabinowitz/slackscope/pkg/cli"
)

func main() {
	// Ctrl-C cancels the whole pipeline between any two network calls.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(cli.Execute(ctx))
}
