// Package diff renders compact line diffs for assertion failures.
package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	maxDiffLines    = 200
	truncateMessage = "... (diff truncated) ..."
)

// Lines compares expected and actual line by line and returns a unified-style
// body prefixed with labelled headers. Identical inputs yield "".
func Lines(expected, actual, expectedLabel, actualLabel string) string {
	if expected == actual {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(ensureNewline(expected), ensureNewline(actual))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var buf strings.Builder
	buf.WriteString("--- " + expectedLabel + "\n")
	buf.WriteString("+++ " + actualLabel + "\n")

	written := 0
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			if written == maxDiffLines {
				buf.WriteString(truncateMessage + "\n")
				return buf.String()
			}
			buf.WriteString(prefix + line)
			written++
		}
	}
	return buf.String()
}

// Inline marks the changed runs of a single-line mismatch, deletions in [-x-]
// and insertions in {+y+}.
func Inline(expected, actual string) string {
	if expected == actual {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(expected, actual, false))

	var buf strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			buf.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			buf.WriteString("{+" + d.Text + "+}")
		default:
			buf.WriteString(d.Text)
		}
	}
	return buf.String()
}

// Mismatch picks Lines for multi-line values and Inline otherwise.
func Mismatch(expected, actual string) string {
	if strings.Contains(expected, "\n") || strings.Contains(actual, "\n") {
		return Lines(expected, actual, "expected", "actual")
	}
	return Inline(expected, actual)
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
