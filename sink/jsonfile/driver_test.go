package jsonfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"lyricdex/internal/lyric"
	"lyricdex/sink"
)

var kSong = []lyric.Record{
	{ID: 1, Content: "思念是一種很玄的東西", Song: "K歌之王", Album: "Forget K Songs", Tags: []string{"classic"}, Link: "https://music.163.com/#/search/m/?s=K歌之王"},
	{ID: 2, Content: "a & <b>", Song: "s", Album: "", Tags: []string{}, Link: "https://x/?s=s"},
}

const kSongJSON = `[
  {
    "id": 1,
    "content": "思念是一種很玄的東西",
    "song": "K歌之王",
    "album": "Forget K Songs",
    "tags": [
      "classic"
    ],
    "link": "https://music.163.com/#/search/m/?s=K歌之王"
  },
  {
    "id": 2,
    "content": "a & <b>",
    "song": "s",
    "album": "",
    "tags": [],
    "link": "https://x/?s=s"
  }
]
`

func TestEncode_Layout(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, kSong); err != nil {
		t.Fatal(err)
	}
	if buf.String() != kSongJSON {
		t.Fatalf("unexpected document:\n%s", buf.String())
	}
}

func TestEncode_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func newDriver(t *testing.T, path string) sink.Adapter {
	t.Helper()
	d, err := sink.NewAdapter("json")
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Configure(Config{Path: path}); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDriver_CloseWritesAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "assets", "lyrics.json")
	d := newDriver(t, path)
	for _, r := range kSong {
		if err := d.Push(r); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("document must not exist before Close")
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != kSongJSON {
		t.Fatalf("unexpected file:\n%s", raw)
	}
	if got := d.(sink.Describer).Destination(); got != path {
		t.Fatalf("Destination = %q", got)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %v", entries)
	}
}

func TestDriver_DiscardKeepsPreviousDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lyrics.json")
	old := []byte("previous run\n")
	if err := os.WriteFile(path, old, 0o644); err != nil {
		t.Fatal(err)
	}
	d := newDriver(t, path)
	_ = d.Push(kSong[0])
	if err := d.(sink.Discarder).Discard(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if !bytes.Equal(raw, old) {
		t.Fatalf("previous document was modified: %q", raw)
	}
	if err := d.Push(kSong[1]); err == nil {
		t.Fatal("push after discard should fail")
	}
}

func TestConfigure_RejectsWrongType(t *testing.T) {
	d := &driver{}
	if err := d.Configure("nope"); err == nil {
		t.Fatal("expected error")
	}
}
