package static

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/uxforge/veneer/internal/finding"
)

var hardcodedColorRE = regexp.MustCompile(`(?i)(color|background(-color)?)\s*:\s*(#[0-9a-f]{3,8}\b|rgba?\s*\([^)]*\))`)

// analyzeHTML tokenizes markup and flags inline style attributes and
// hardcoded colors inside them. Token offsets do not carry line numbers,
// so lines are recovered by scanning the raw text for each offending
// attribute value.
func analyzeHTML(content string) []finding.Finding {
	var out []finding.Finding
	seen := map[string]struct{}{}

	tok := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			if tok.Err() == io.EOF {
				break
			}
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		t := tok.Token()
		for _, attr := range t.Attr {
			if attr.Key != "style" || strings.TrimSpace(attr.Val) == "" {
				continue
			}
			key := t.Data + "|" + attr.Val
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			line := lineOfSubstring(content, attr.Val)
			out = append(out, newFinding(
				"CONSISTENCY_001",
				finding.SeverityHigh,
				finding.CategoryConsistency,
				[]int{line},
				fmt.Sprintf(`<%s style="%s">`, t.Data, attr.Val),
				fmt.Sprintf("Inline style on <%s> bypasses the shared stylesheet", t.Data),
				"Move inline styles into a stylesheet class",
			))

			if m := hardcodedColorRE.FindString(attr.Val); m != "" {
				out = append(out, newFinding(
					"COLOR_002",
					finding.SeverityHigh,
					finding.CategoryColor,
					[]int{line},
					m,
					fmt.Sprintf("Hardcoded color in inline style on <%s>", t.Data),
					"Replace hardcoded colors with design-token variables",
				))
			}
		}
	}
	return out
}

// lineOfSubstring returns the 1-based line of the first occurrence of sub,
// or 1 when it cannot be found.
func lineOfSubstring(content, sub string) int {
	idx := strings.Index(content, sub)
	if idx < 0 {
		return 1
	}
	return strings.Count(content[:idx], "\n") + 1
}
