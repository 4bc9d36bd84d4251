package ocr

import (
	"strings"
	"unicode/utf8"
)

// normalizeText collapses whitespace and replaces newlines/tabs.
func normalizeText(t string) string {
	t = strings.ReplaceAll(t, "\n", " ")
	t = strings.ReplaceAll(t, "\t", " ")
	return strings.Join(strings.Fields(t), " ")
}

// snippet returns a shortened version of text for logging, cut at a rune
// boundary so CJK text never yields broken UTF-8.
func snippet(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "…"
}
