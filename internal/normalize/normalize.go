// Package normalize implements C2: the single normalization pass every
// document goes through before context classification and detection, so
// offsets recorded by every later stage are stable against encoding and
// whitespace variation the source document might carry.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Text applies NFC Unicode normalization, converts CRLF/CR line endings to
// LF, and collapses runs of horizontal whitespace (spaces and tabs, not
// newlines) to a single space. The result is idempotent: calling Text on an
// already-normalized string returns it unchanged.
func Text(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = collapseHorizontalWhitespace(s)
	return s
}

// collapseHorizontalWhitespace replaces runs of spaces and tabs with a
// single space, leaving newlines untouched so paragraph structure survives
// for the context classifier.
func collapseHorizontalWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}
