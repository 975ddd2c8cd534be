// Package lyric turns catalogue rows into numbered lyric records.
package lyric

// Row is one data line of the catalogue. Only a few columns carry meaning:
// title, album, tags and pipe-delimited lyric content.
type Row struct {
	Line   int // 1-based line in the source, 0 if unknown
	Fields []string
}

const (
	colSong    = 0
	colAlbum   = 1
	colTags    = 3
	colContent = 4

	minFields = colContent + 1
)

// Record is a single lyric fragment with its song metadata.
// Field order matches the order keys appear in the output document.
type Record struct {
	ID      int      `json:"id"`
	Content string   `json:"content"`
	Song    string   `json:"song"`
	Album   string   `json:"album"`
	Tags    []string `json:"tags"`
	Link    string   `json:"link"`

	// filled by an enrichment stage, absent otherwise
	ContentTraditional string `json:"contentTraditional,omitempty"`
	SongTraditional    string `json:"songTraditional,omitempty"`
	AlbumTraditional   string `json:"albumTraditional,omitempty"`
}
