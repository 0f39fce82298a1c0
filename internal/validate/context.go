package validate

import (
	"sort"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// AnalyzeDesignContext inspects a resolved snippet for the design-pattern
// families the taxonomy tracks and summarizes what kind of code the
// remediation will be operating on.
func AnalyzeDesignContext(snippet string) finding.DesignContext {
	dc := finding.DesignContext{
		PatternsFound: map[string][]string{},
		Relevance:     "low",
		Complexity:    "low",
	}
	if snippet == "" {
		return dc
	}

	total := 0
	for name, re := range taxonomy.DesignPatterns {
		if hits := re.FindAllString(snippet, -1); len(hits) > 0 {
			sort.Strings(hits)
			dc.PatternsFound[name] = hits
			total += len(hits)
		}
	}

	for _, re := range taxonomy.ModernPatterns {
		if re.MatchString(snippet) {
			dc.ModernPatterns = append(dc.ModernPatterns, re.String())
		}
	}

	if total > 0 {
		dc.Relevance = "high"
	}
	switch {
	case total > 3:
		dc.Complexity = "high"
	case total > 1:
		dc.Complexity = "medium"
	}
	return dc
}
