package scanner

import (
	"strings"
	"unicode/utf8"
)

// Excerpt returns text[start:end] widened by up to n characters on each side,
// clipped to the text, with newlines flattened to spaces.
func Excerpt(text string, start, end, n int) string {
	lo := start
	for i := 0; i < n && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < n && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return strings.ReplaceAll(text[lo:hi], "\n", " ")
}
