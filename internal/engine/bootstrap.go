package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"lyricdex/internal/pipeline"
)

type Config struct {
	PipelineYml string    // missing file = built-in default pipeline
	Out         io.Writer // run report; nil = os.Stdout
}

func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runner, err := pipeline.Compile(cfg.PipelineYml)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Engine{runner: runner, out: out}, nil
}
