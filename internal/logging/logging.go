package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	envLevel = "LYRICDEX_LOG_LEVEL"
	envJSON  = "LYRICDEX_LOG_JSON"
)

type Options struct {
	Level string
	JSON  bool
	// Output defaults to stderr; stdout is reserved for the run report.
	Output io.Writer
}

var def atomic.Value

func init() {
	def.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func Configure(opts Options) {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, cfg)
	} else {
		h = slog.NewTextHandler(w, cfg)
	}
	def.Store(slog.New(h))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// FromEnv returns the options described by LYRICDEX_LOG_LEVEL and
// LYRICDEX_LOG_JSON.
func FromEnv() Options {
	var opts Options
	opts.Level = os.Getenv(envLevel)
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(envJSON))); err == nil {
		opts.JSON = b
	}
	return opts
}

func InitFromEnv() { Configure(FromEnv()) }
