package content

import (
	"strings"
	"unicode/utf8"
)

const (
	// ExcerptLength is the number of characters kept when an excerpt is
	// derived from post content.
	ExcerptLength = 200
	// PreviewLength is used by the live search results and message previews.
	PreviewLength = 100

	ellipsis = "..."
)

// Truncate returns s unchanged when it has at most n characters, otherwise
// its first n characters followed by "...".
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + ellipsis
}

// Excerpt derives a post excerpt from its content.
func Excerpt(body string) string {
	return Truncate(body, ExcerptLength)
}

// SplitLines turns a one-item-per-line text field into a list, dropping
// blank lines.
func SplitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitComma splits a comma separated list, dropping empty entries.
func SplitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
