package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Scans over large worlds can take a while; Ctrl-C stops them at the
	// next file or chunk boundary instead of mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	execute(ctx)
}
