package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// renderDiff prints the lines that differ between original and fixed, each
// hunk headed by its line number in the original
func renderDiff(path, original, fixed string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, fixed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n",
		color.New(color.Bold).Sprint("--- "+path),
		color.New(color.Bold).Sprint("+++ "+path))

	line := 1
	inHunk := false
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		count := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			count++
		}

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += count
			inHunk = false
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintln(&sb, color.New(color.FgCyan).Sprintf("@@ line %d @@", line))
				inHunk = true
			}
			for _, l := range strings.Split(text, "\n") {
				fmt.Fprintln(&sb, color.New(color.FgRed).Sprint("-"+l))
			}
			line += count
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintln(&sb, color.New(color.FgCyan).Sprintf("@@ line %d @@", line))
				inHunk = true
			}
			for _, l := range strings.Split(text, "\n") {
				fmt.Fprintln(&sb, color.New(color.FgGreen).Sprint("+"+l))
			}
		}
	}

	return sb.String()
}
