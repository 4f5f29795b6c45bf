package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var (
	// Version is stamped at build time with -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)

	err := execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
