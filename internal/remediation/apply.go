package remediation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uxforge/veneer/internal/gateway"
)

// contextRadius is how many lines around the defect the fix prompt shows.
const contextRadius = 5

// markedContext renders the lines around the defect with line numbers,
// prefixing the defect lines with ">>>" so the model knows exactly what
// it is allowed to change.
func markedContext(content string, defectLines []int) string {
	lines := strings.Split(content, "\n")
	if len(defectLines) == 0 {
		// No resolved location: show the whole file, nothing marked.
		var sb strings.Builder
		for i, line := range lines {
			fmt.Fprintf(&sb, "    %4d: %s\n", i+1, line)
		}
		return sb.String()
	}

	marked := make(map[int]struct{}, len(defectLines))
	minLn, maxLn := defectLines[0], defectLines[0]
	for _, ln := range defectLines {
		marked[ln] = struct{}{}
		if ln < minLn {
			minLn = ln
		}
		if ln > maxLn {
			maxLn = ln
		}
	}

	start := max(1, minLn-contextRadius)
	end := min(len(lines), maxLn+contextRadius)

	var sb strings.Builder
	for ln := start; ln <= end; ln++ {
		prefix := "    "
		if _, ok := marked[ln]; ok {
			prefix = ">>> "
		}
		fmt.Fprintf(&sb, "%s%4d: %s\n", prefix, ln, lines[ln-1])
	}
	return sb.String()
}

// applyChanges applies line-scoped changes to content and reports how many
// were applied. Changes are applied in descending line order so earlier
// replacements cannot shift the line numbers of later ones. When the
// claimed original text is found inside the target line it is substituted
// in place; otherwise the whole line is replaced.
func applyChanges(content string, changes []gateway.Change) (string, int) {
	lines := strings.Split(content, "\n")

	sorted := append([]gateway.Change(nil), changes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LineNumber > sorted[j].LineNumber })

	applied := 0
	for _, ch := range sorted {
		ln := ch.LineNumber
		if ln < 1 || ln > len(lines) {
			continue
		}
		original := strings.TrimSpace(ch.Original)
		if original != "" && strings.Contains(lines[ln-1], original) {
			lines[ln-1] = strings.Replace(lines[ln-1], original, strings.TrimSpace(ch.Fixed), 1)
		} else {
			lines[ln-1] = ch.Fixed
		}
		applied++
	}
	return strings.Join(lines, "\n"), applied
}
