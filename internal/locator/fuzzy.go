package locator

import (
	"regexp"
	"strings"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// structuralRE extracts the structural elements of a markup/style fragment:
// tag names, attribute keys, class/id values, and declaration keys before a
// colon. These survive paraphrasing better than raw text does.
var structuralRE = regexp.MustCompile(`<(\w+)|(\w+)=|class="([^"]+)"|id="([^"]+)"|(\w+)\s*:`)

// FuzzyMatch reports whether a claimed snippet plausibly refers to a source
// line despite whitespace, casing or paraphrasing differences.
//
// Two tests are applied: (1) after stripping all whitespace and lowering
// case, one string contains the other; (2) at least half of the snippet's
// structural elements also appear in the line.
func FuzzyMatch(snippet, line string) bool {
	snippetClean := normalize(snippet)
	lineClean := normalize(line)
	if snippetClean == "" || lineClean == "" {
		return false
	}

	if strings.Contains(lineClean, snippetClean) || strings.Contains(snippetClean, lineClean) {
		return true
	}

	snippetParts := structuralElements(snippet)
	lineParts := structuralElements(line)
	if len(snippetParts) == 0 || len(lineParts) == 0 {
		return false
	}

	lineSet := make(map[string]struct{}, len(lineParts))
	for _, p := range lineParts {
		lineSet[p] = struct{}{}
	}
	overlap := 0
	seen := make(map[string]struct{}, len(snippetParts))
	for _, p := range snippetParts {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if _, ok := lineSet[p]; ok {
			overlap++
		}
	}
	return overlap*2 >= len(seen)
}

func normalize(s string) string {
	return whitespaceRE.ReplaceAllString(strings.ToLower(s), "")
}

// structuralElements returns the distinct structural tokens of a fragment.
func structuralElements(s string) []string {
	matches := structuralRE.FindAllStringSubmatch(strings.ToLower(s), -1)
	var parts []string
	for _, groups := range matches {
		for _, g := range groups[1:] {
			if g != "" {
				parts = append(parts, g)
			}
		}
	}
	return parts
}
