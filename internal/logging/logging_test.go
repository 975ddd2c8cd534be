package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestConfigure_JSONToWriter(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "debug", JSON: true, Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Debug("row skipped", "line", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %q", buf.String())
	}
	if entry["msg"] != "row skipped" || entry["line"].(float64) != 3 {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestConfigure_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	L().Info("hidden")
	L().Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envLevel, "debug")
	t.Setenv(envJSON, "true")
	opts := FromEnv()
	if opts.Level != "debug" || !opts.JSON {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
