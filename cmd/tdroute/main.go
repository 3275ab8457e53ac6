package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"td_router/pkg/cli"
)

var version = "dev"

func main() {
	// trap Ctrl+C and SIGTERM and cancel the context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx, version)
}
