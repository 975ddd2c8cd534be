package lyric

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShortRow is returned for rows too short to hold a lyric column.
var ErrShortRow = errors.New("row has too few fields")

type SkipReason string

const (
	SkipBlank          SkipReason = "blank"
	SkipMissingSong    SkipReason = "missing_song"
	SkipMissingContent SkipReason = "missing_content"
	SkipShortRow       SkipReason = "short_row"
)

// SkipReasons lists every reason a row can be dropped.
var SkipReasons = []SkipReason{SkipBlank, SkipMissingSong, SkipMissingContent, SkipShortRow}

type Options struct {
	LinkTemplate  string // "" means DefaultLinkTemplate
	EscapeLink    bool
	SkipShortRows bool // otherwise short rows fail with ErrShortRow
}

// Transformer numbers records across every row it is given. It is not safe
// for concurrent use.
type Transformer struct {
	opts   Options
	nextID int
	onSkip func(Row, SkipReason)
}

func NewTransformer(opts Options) (*Transformer, error) {
	if opts.LinkTemplate == "" {
		opts.LinkTemplate = DefaultLinkTemplate
	}
	if err := validateTemplate(opts.LinkTemplate); err != nil {
		return nil, err
	}
	return &Transformer{opts: opts, nextID: 1}, nil
}

// OnSkip registers fn to be told about every dropped row.
func (t *Transformer) OnSkip(fn func(Row, SkipReason)) { t.onSkip = fn }

// Emitted reports how many records have been produced so far.
func (t *Transformer) Emitted() int { return t.nextID - 1 }

// Apply converts one row. A skipped row yields no records, no error, and
// leaves the id sequence untouched.
func (t *Transformer) Apply(row Row) ([]Record, error) {
	// encoding/csv never yields empty records; only hand-built rows get here.
	if len(row.Fields) == 0 {
		t.skip(row, SkipBlank)
		return nil, nil
	}
	if len(row.Fields) < minFields {
		if t.opts.SkipShortRows {
			t.skip(row, SkipShortRow)
			return nil, nil
		}
		return nil, fmt.Errorf("line %d: %w (got %d, want at least %d)", row.Line, ErrShortRow, len(row.Fields), minFields)
	}

	song := strings.TrimSpace(row.Fields[colSong])
	album := strings.TrimSpace(row.Fields[colAlbum])
	tagsRaw := strings.TrimSpace(row.Fields[colTags])
	contentRaw := strings.TrimSpace(row.Fields[colContent])

	switch {
	case song == "":
		t.skip(row, SkipMissingSong)
		return nil, nil
	case contentRaw == "":
		t.skip(row, SkipMissingContent)
		return nil, nil
	}

	tags := ParseTags(tagsRaw)
	link := SearchLink(t.opts.LinkTemplate, song, t.opts.EscapeLink)

	frags := SplitFragments(contentRaw)
	out := make([]Record, 0, len(frags))
	for _, f := range frags {
		out = append(out, Record{
			ID:      t.nextID,
			Content: f,
			Song:    song,
			Album:   album,
			Tags:    tags,
			Link:    link,
		})
		t.nextID++
	}
	return out, nil
}

func (t *Transformer) skip(row Row, why SkipReason) {
	if t.onSkip != nil {
		t.onSkip(row, why)
	}
}

// Transform runs a fresh transformer over rows.
func Transform(rows []Row, opts Options) ([]Record, error) {
	t, err := NewTransformer(opts)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range rows {
		recs, err := t.Apply(r)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}
