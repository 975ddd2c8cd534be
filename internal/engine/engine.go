package engine

import (
	"context"
	"fmt"
	"io"

	"lyricdex/internal/logging"
	"lyricdex/internal/pipeline"
)

type Engine struct {
	runner *pipeline.Runner
	out    io.Writer
}

// Run performs the whole conversion and reports progress on the engine's
// writer. Either every sink commits or the run aborts before any
// buffered output is written.
func (e *Engine) Run(ctx context.Context) error {
	defer func() {
		if err := e.runner.Close(); err != nil {
			logging.L().Warn("runner close", "err", err)
		}
	}()

	fmt.Fprintf(e.out, "Reading from %s...\n", e.runner.SourceName())
	if err := e.runner.Read(ctx); err != nil {
		e.runner.Abort()
		return err
	}
	fmt.Fprintf(e.out, "Parsed %d lyrics entries.\n", e.runner.Emitted())

	dests, err := e.runner.Commit()
	if err != nil {
		return err
	}
	for _, d := range dests {
		fmt.Fprintf(e.out, "Successfully wrote to %s\n", d)
	}
	return nil
}
