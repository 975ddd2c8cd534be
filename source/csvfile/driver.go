package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"lyricdex/internal/logging"
	"lyricdex/internal/lyric"
)

// ErrInvalidUTF8 is returned for a record that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Driver reads a delimited file. A UTF-8 or UTF-16 byte-order mark selects
// the decoding and is stripped; otherwise input must be UTF-8.
type Driver struct {
	cfg Config
	f   *os.File
}

var _ Adapter = (*Driver)(nil)

func (d *Driver) Configure(cfg Config) error {
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return err
	}
	d.cfg = cfg
	return nil
}

func (d *Driver) Path() string { return d.cfg.Path }

func (d *Driver) Run(ctx context.Context, emit EmitFunc) error {
	f, err := os.Open(d.cfg.Path)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	d.f = f
	logging.L().Debug("csv source opened", "path", d.cfg.Path)
	return ReadRows(ctx, f, d.cfg, emit)
}

func (d *Driver) Close() error {
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// NewReader wraps r so that the CSV reader never sees a byte-order mark.
// UTF-16 is decoded; UTF-8 bytes pass through untouched and are checked
// per record by ReadRows.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

func checkUTF8(fields []string, line int) error {
	for _, f := range fields {
		if !utf8.ValidString(f) {
			return fmt.Errorf("line %d: %w", line, ErrInvalidUTF8)
		}
	}
	return nil
}

// ReadRows decodes r and emits every data row. The header, when expected,
// is consumed and dropped.
func ReadRows(ctx context.Context, r io.Reader, cfg Config, emit EmitFunc) error {
	applyDefaults(&cfg)
	cr := csv.NewReader(NewReader(r))
	cr.Comma = cfg.comma()
	cr.LazyQuotes = !cfg.StrictQuotes
	cr.FieldsPerRecord = -1

	if !cfg.NoHeader {
		header, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read header: %w", err)
		}
		if err := checkUTF8(header, 1); err != nil {
			return fmt.Errorf("read header: %w", err)
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		var line int
		if len(fields) > 0 {
			line, _ = cr.FieldPos(0)
		}
		if err := checkUTF8(fields, line); err != nil {
			return fmt.Errorf("read row: %w", err)
		}
		if err := emit(lyric.Row{Line: line, Fields: fields}); err != nil {
			return err
		}
	}
}
