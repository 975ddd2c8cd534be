package lyric

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	pipe          = '|'
	fullWidthPipe = '｜' // U+FF5C
)

func isDelimiter(r rune) bool { return r == pipe || r == fullWidthPipe }

// SplitFragments splits lyric content on either pipe variant. Whitespace
// around a delimiter is dropped, and so are empty fragments.
func SplitFragments(content string) []string {
	parts := strings.FieldsFunc(content, isDelimiter)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseTags splits a comma-separated tag list. The result is never nil.
func ParseTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// DefaultLinkTemplate is the search page the front end links each record to.
const DefaultLinkTemplate = "https://music.163.com/#/search/m/?s=%s"

func validateTemplate(tmpl string) error {
	if strings.Count(tmpl, "%s") != 1 || strings.Count(tmpl, "%") != 1 {
		return fmt.Errorf("link template %q: want exactly one %%s verb", tmpl)
	}
	return nil
}

// SearchLink substitutes song into tmpl. The title goes in verbatim unless
// escape is set.
func SearchLink(tmpl, song string, escape bool) string {
	if escape {
		song = url.QueryEscape(song)
	}
	return strings.Replace(tmpl, "%s", song, 1)
}
