// Package textproc prepares raw user text before it is sent for summarization.
package textproc

import (
	"strings"
	"unicode/utf8"
)

// Normalize collapses every run of whitespace to a single space and trims
// the ends. It is idempotent and never grows the input.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CharCount is the length of s in code points.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// WordCount counts whitespace-delimited words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
