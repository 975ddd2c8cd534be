package sink

import (
	"errors"
	"fmt"
	"sort"

	"lyricdex/internal/lyric"
)

// ErrUnknown is returned by NewAdapter for an unregistered sink name.
var ErrUnknown = errors.New("unknown sink")

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error     // driver-specific config struct
	Push(lyric.Record) error // consume one record
	Close() error            // finish the run; commits buffered output
}

// Discarder is *optional*; sinks that buffer implement it so a failed run
// can drop what it collected instead of committing it.
type Discarder interface {
	Discard() error
}

// Describer is *optional*; it names where the sink's output ends up, for
// the run report.
type Describer interface {
	Destination() string
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("%w %q (have %v)", ErrUnknown, name, Names())
}

// Names lists registered sinks in sorted order.
func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
