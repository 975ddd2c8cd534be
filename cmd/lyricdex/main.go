package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lyricdex/internal/config"
	"lyricdex/internal/engine"
	"lyricdex/internal/logging"
)

func main() {
	logging.InitFromEnv()

	cfg := engine.Config{
		PipelineYml: config.DefaultPipeline, // optional
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg engine.Config) error {
	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	return e.Run(ctx)
}
