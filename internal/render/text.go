package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Text is server or user supplied text that is safe to display. The only
// way to build one is Plain, so no view model can carry raw input.
type Text struct {
	s string
}

// Plain sanitizes s into a single-line Text: terminal escape sequences and
// control characters are removed, runs of whitespace collapse to one space.
func Plain(s string) Text {
	s = ansi.Strip(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return Text{s: strings.Join(strings.Fields(s), " ")}
}

// Paragraphs sanitizes multi-line content, keeping line breaks
func Paragraphs(s string) []Text {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]Text, len(lines))
	for i, line := range lines {
		out[i] = Plain(line)
	}
	return out
}

// String returns the sanitized text
func (t Text) String() string {
	return t.s
}

// Empty reports whether there is nothing to show
func (t Text) Empty() bool {
	return t.s == ""
}

// Or returns t, or fallback when t is empty
func (t Text) Or(fallback string) Text {
	if t.s == "" {
		return Plain(fallback)
	}
	return t
}
