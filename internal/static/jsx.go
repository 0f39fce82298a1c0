package static

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
)

var (
	inlineStyleObjectRE = regexp.MustCompile(`style\s*=\s*\{\{`)
	jsxColorLiteralRE   = regexp.MustCompile(`(?i)['"]#[0-9a-f]{3,8}['"]|['"]rgba?\([^)]*\)['"]`)
)

// analyzeJSX flags inline style objects and quoted color literals in
// component sources, then reuses the CSS checks for any embedded styles.
func analyzeJSX(content string) []finding.Finding {
	var out []finding.Finding
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if inlineStyleObjectRE.MatchString(line) {
			out = append(out, newFinding(
				"CONSISTENCY_001",
				finding.SeverityHigh,
				finding.CategoryConsistency,
				[]int{i + 1},
				strings.TrimSpace(line),
				"Inline style object bypasses the shared styling system",
				"Extract inline style objects into styled components or CSS modules",
			))
		}
		if m := jsxColorLiteralRE.FindString(line); m != "" {
			out = append(out, newFinding(
				"COLOR_002",
				finding.SeverityHigh,
				finding.CategoryColor,
				[]int{i + 1},
				strings.TrimSpace(line),
				fmt.Sprintf("Hardcoded color literal %s in component source", m),
				"Source colors from the theme instead of literals",
			))
		}
	}

	out = append(out, analyzeCSS(content)...)
	return out
}

// analyzeXML only verifies well-formedness: a layout file that does not
// parse cannot be judged aesthetically, and the defect blocks every other
// check downstream.
func analyzeXML(content string) []finding.Finding {
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		line := 1
		var syn *xml.SyntaxError
		if errors.As(err, &syn) {
			line = syn.Line
		}
		return []finding.Finding{newFinding(
			"CONSISTENCY_001",
			finding.SeverityCritical,
			finding.CategoryConsistency,
			[]int{line},
			"",
			fmt.Sprintf("Layout markup is not well formed: %v", err),
			"Fix the markup structure before aesthetic review",
		)}
	}
}
