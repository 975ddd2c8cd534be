package stdout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"lyricdex/internal/lyric"
	"lyricdex/sink"
)

/* ────────── public YAML config ────────── */
type Config struct {
	PrintCounter  bool `yaml:"print_counter"`   // prepend seq#
	ValueMaxBytes int  `yaml:"value_max_bytes"` // 0 = no truncation

	Out io.Writer `yaml:"-"` // nil = os.Stdout
}

/* ────────── driver ────────── */
type driver struct {
	cfg Config
	seq uint64
}

/* ────────── sink.Adapter ────────── */
func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r lyric.Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("stdout-sink: %w", err)
	}
	if n := d.cfg.ValueMaxBytes; n > 0 && len(b) > n {
		b = append(truncate(b, n), "..."...)
	}
	d.seq++
	if d.cfg.PrintCounter {
		_, err = fmt.Fprintf(d.cfg.Out, "[sink %06d] %s\n", d.seq, b)
	} else {
		_, err = fmt.Fprintf(d.cfg.Out, "[sink] %s\n", b)
	}
	return err
}

func (d *driver) Close() error { return nil }

/* ────────── internals ────────── */

// truncate cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) []byte {
	for n > 0 && n < len(b) && b[n]&0xC0 == 0x80 {
		n--
	}
	return b[:n:n]
}

/* ────────── auto-register ────────── */
func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
