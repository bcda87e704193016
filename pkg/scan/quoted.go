package scan

import (
	"context"
	"iter"
	"regexp"
	"strings"
)

var (
	// a double-quoted run with backslash escapes, never crossing a line
	quotedPattern = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
	escapePattern = regexp.MustCompile(`\\.`)
)

// 💬 Quoted yields the contents of double-quoted strings, one line at a time.
// It works for any language but cannot see literals that span lines.
type Quoted struct{}

// NewQuoted creates a language-agnostic literal scanner
func NewQuoted() *Quoted {
	return &Quoted{}
}

// Scan implements Scanner
func (Quoted) Scan(_ context.Context, content []byte) iter.Seq2[Span, error] {
	return func(yield func(Span, error) bool) {
		for row, line := range strings.Split(string(content), "\n") {
			for _, loc := range quotedPattern.FindAllStringIndex(line, -1) {
				inner := line[loc[0]+1 : loc[1]-1]
				span := Span{
					Row:  row,
					Col:  loc[0] + 1,
					Text: escapePattern.ReplaceAllStringFunc(inner, blank),
				}
				if !yield(span, nil) {
					return
				}
			}
		}
	}
}

// blank replaces every byte but newlines with a space, keeping offsets
func blank(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] != '\n' {
			b[i] = ' '
		}
	}
	return string(b)
}
