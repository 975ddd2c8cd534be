// Package jsonfile writes the whole run as one indented JSON array. Nothing
// touches the destination until Close, and then only through a rename, so
// a failed run leaves any previous document in place.
package jsonfile

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lyricdex/internal/logging"
	"lyricdex/internal/lyric"
	"lyricdex/sink"
)

const DefaultPath = "src/assets/lyrics.json"

type Config struct {
	Path     string      `yaml:"path"`
	PermFile os.FileMode `yaml:"perm_file"` // 0 = 0644
}

type driver struct {
	cfg     Config
	records []lyric.Record
	closed  bool
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("json-sink: expected Config, got %T", raw)
	}
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.PermFile == 0 {
		c.PermFile = 0o644
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r lyric.Record) error {
	if d.closed {
		return fmt.Errorf("json-sink: push after close")
	}
	d.records = append(d.records, r)
	return nil
}

func (d *driver) Destination() string { return d.cfg.Path }

func (d *driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	recs := d.records
	d.records = nil
	if err := writeAtomic(d.cfg.Path, d.cfg.PermFile, recs); err != nil {
		return fmt.Errorf("json-sink: %w", err)
	}
	logging.L().Info("json document written", "path", d.cfg.Path, "records", len(recs))
	return nil
}

func (d *driver) Discard() error {
	if !d.closed {
		logging.L().Info("json document discarded", "path", d.cfg.Path, "records", len(d.records))
	}
	d.closed = true
	d.records = nil
	return nil
}

// Encode writes recs as a 2-space indented array, non-ASCII and HTML
// characters literal.
func Encode(w io.Writer, recs []lyric.Record) error {
	if recs == nil {
		recs = []lyric.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

func writeAtomic(dest string, perm os.FileMode, recs []lyric.Record) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".lyrics-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, recs); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("json", func() sink.Adapter { return &driver{} })
}
