package srcfile

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff produces a line-oriented diff between two versions of a file,
// rendered in the familiar unified style ("-" removed, "+" added) with
// unchanged regions collapsed to a count.
func Diff(original, fixed string) string {
	if original == fixed {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(original, fixed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var sb strings.Builder
	for _, d := range diffs {
		lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range lines {
				sb.WriteString("- " + line + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range lines {
				sb.WriteString("+ " + line + "\n")
			}
		case diffmatchpatch.DiffEqual:
			writeEqual(&sb, lines)
		}
	}
	return sb.String()
}

// writeEqual keeps one line of leading and trailing context and collapses
// the middle of long unchanged runs.
func writeEqual(sb *strings.Builder, lines []string) {
	const keep = 1
	if len(lines) <= 2*keep+1 {
		for _, line := range lines {
			sb.WriteString("  " + line + "\n")
		}
		return
	}
	for _, line := range lines[:keep] {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString("  ...\n")
	for _, line := range lines[len(lines)-keep:] {
		sb.WriteString("  " + line + "\n")
	}
}

// ChangedLineCount reports how many lines differ between the two versions.
func ChangedLineCount(original, fixed string) (removed, added int) {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(original, fixed)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)
	for _, d := range diffs {
		n := strings.Count(strings.TrimSuffix(d.Text, "\n"), "\n") + 1
		if d.Text == "" {
			n = 0
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			removed += n
		case diffmatchpatch.DiffInsert:
			added += n
		}
	}
	return removed, added
}
