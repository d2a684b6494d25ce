// Command naturalista-bot publishes the rarest species observed in a region
// on iNaturalist to a Mastodon-compatible server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/tacuruses/naturalista-bot/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(observability.NewMetrics).ExecuteContext(ctx); err != nil {
		slog.Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
