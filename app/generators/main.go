package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jrazmi/crudgen/app/generators/commands"
	"github.com/jrazmi/crudgen/app/generators/config"
	"github.com/jrazmi/crudgen/sdk/environment"
	"github.com/jrazmi/crudgen/sdk/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "crudgen:", err)
		os.Exit(1)
	}
}

func run() error {
	if err := environment.LoadOptional(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}

	log, err := logger.NewFromEnv(config.Prefix)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return commands.Execute(ctx, log, cfg)
}
