// Package snapshot serializes documents for comparison and diffs the
// results line by line.
package snapshot

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/go-drift/elements/pkg/dom"
)

// Capture serializes the body's children, one top-level element per line.
func Capture(doc *dom.Document) string {
	var lines []string
	for _, c := range doc.Body().Children() {
		lines = append(lines, c.OuterHTML())
	}
	return strings.Join(lines, "\n")
}

// Diff returns a line diff of expected and actual with removed lines prefixed
// by "-" and added lines by "+". Unchanged lines are omitted. Returns "" when
// the inputs are equal.
func Diff(expected, actual string) string {
	if expected == actual {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix)
			buf.WriteString(strings.TrimSuffix(line, "\n"))
			buf.WriteString("\n")
		}
	}
	return buf.String()
}
