package locator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
)

var (
	cssPropRE = regexp.MustCompile(`(\w+)\s*:`)
	htmlTagRE = regexp.MustCompile(`<(\w+)`)

	descriptionKeywordREs = []*regexp.Regexp{
		regexp.MustCompile(`\b(color|background|border|fill|stroke)\b`),
		regexp.MustCompile(`\b(margin|padding|gap|spacing)\b`),
		regexp.MustCompile(`\b(font|typography|text|size|weight)\b`),
		regexp.MustCompile(`\b(shadow|radius|border|rounded)\b`),
		regexp.MustCompile(`\b(hierarchy|emphasis|contrast)\b`),
	}
)

// ExtractKeywords pulls design-relevant keywords from a finding's snippet,
// description and category. Used by the neighborhood repair strategy to
// decide whether a nearby line plausibly carries the claimed defect.
func ExtractKeywords(f finding.Finding) []string {
	snippet := strings.ToLower(f.Snippet)
	description := strings.ToLower(f.Description)

	set := make(map[string]struct{})

	for _, m := range cssPropRE.FindAllStringSubmatch(snippet, -1) {
		set[m[1]] = struct{}{}
	}
	for _, m := range htmlTagRE.FindAllStringSubmatch(snippet, -1) {
		set[m[1]] = struct{}{}
	}
	for _, re := range descriptionKeywordREs {
		for _, m := range re.FindAllStringSubmatch(description, -1) {
			set[m[1]] = struct{}{}
		}
	}
	if f.Category != "" {
		set[strings.ToLower(string(f.Category))] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for kw := range set {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}
