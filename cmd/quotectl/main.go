// Command quotectl manages the quote catalog from the terminal, working
// directly on the configured data directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	appctx "github.com/bassista/go_quotes/internal/app"
	"github.com/bassista/go_quotes/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(func() (*appctx.App, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
		return appctx.NewFromConfig(cfg)
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
