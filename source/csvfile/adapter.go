package csvfile

import (
	"context"

	"lyricdex/internal/lyric"
)

// EmitFunc receives each data row in file order. Returning an error stops
// the read.
type EmitFunc func(lyric.Row) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
