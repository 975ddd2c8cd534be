package stdout

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"lyricdex/internal/lyric"
)

func TestDriver_PrintsCounterAndRecord(t *testing.T) {
	var buf bytes.Buffer
	d := &driver{}
	if err := d.Configure(Config{PrintCounter: true, Out: &buf}); err != nil {
		t.Fatal(err)
	}
	_ = d.Push(lyric.Record{ID: 1, Content: "一", Song: "s", Tags: []string{}})
	_ = d.Push(lyric.Record{ID: 2, Content: "二", Song: "s", Tags: []string{}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[1], "[sink 000002] {\"id\":2,\"content\":\"二\"") {
		t.Fatalf("unexpected line: %q", lines[1])
	}
}

func TestDriver_TruncatesOnRuneBoundary(t *testing.T) {
	var buf bytes.Buffer
	d := &driver{}
	_ = d.Configure(Config{ValueMaxBytes: 20, Out: &buf})
	_ = d.Push(lyric.Record{ID: 1, Content: "思念是一種很玄的東西", Song: "s"})

	line := strings.TrimPrefix(strings.TrimSpace(buf.String()), "[sink] ")
	if !strings.HasSuffix(line, "...") {
		t.Fatalf("expected truncation marker: %q", line)
	}
	if !utf8.ValidString(line) {
		t.Fatalf("truncation split a rune: %q", line)
	}
	if len(line) > 20+len("...") {
		t.Fatalf("line too long: %d bytes", len(line))
	}
}
