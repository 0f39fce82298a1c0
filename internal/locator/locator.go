// Package locator reconciles claimed code locations against ground-truth
// source text.
//
// External models hallucinate line numbers and paraphrase snippets; the
// locator runs an ordered strategy cascade to find where a claim most
// likely lives in the real file. The first strategy producing candidates
// wins, and results are capped at three lines.
package locator

import (
	"strings"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// maxCandidates caps how many resolved lines a single claim may map to.
const maxCandidates = 3

// neighborhoodRadius is how far (in lines) the repair strategy searches
// around each claimed line number.
const neighborhoodRadius = 2

// Strategy identifies which cascade step resolved a claim.
type Strategy int

const (
	// StrategyNone means no strategy produced a location.
	StrategyNone Strategy = iota
	// StrategyExact means the claimed snippet appears verbatim in a line.
	StrategyExact
	// StrategyFuzzy means a whitespace/case-insensitive or structural
	// token match located the snippet.
	StrategyFuzzy
	// StrategyTaxonomy means the rule registry's detection patterns for
	// the finding's principle or category located candidate lines.
	StrategyTaxonomy
	// StrategyNeighborhood means claimed line numbers were repaired by
	// searching nearby lines for finding keywords.
	StrategyNeighborhood
	// StrategyAssumed means no location was found but the principle is
	// in the always-plausible set (leniency policy).
	StrategyAssumed
)

// String returns a short name for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategyTaxonomy:
		return "taxonomy"
	case StrategyNeighborhood:
		return "neighborhood"
	case StrategyAssumed:
		return "assumed"
	default:
		return "none"
	}
}

// Result is the outcome of locating one claim.
type Result struct {
	// Lines are the resolved 1-based line numbers, at most three.
	Lines []int

	// Strategy records which cascade step produced the lines.
	Strategy Strategy

	// AssumedValid is set when the claim carries no usable location but
	// its principle is in the always-plausible set.
	AssumedValid bool
}

// Unresolved reports whether the locator failed to place the claim.
func (r Result) Unresolved() bool {
	return len(r.Lines) == 0 && !r.AssumedValid
}

// Locate runs the strategy cascade for one finding against the source text.
func Locate(f finding.Finding, source string) Result {
	lines := strings.Split(source, "\n")
	snippet := strings.TrimSpace(f.Snippet)

	if snippet != "" {
		if matches := exactMatches(snippet, lines); len(matches) > 0 {
			return Result{Lines: matches, Strategy: StrategyExact}
		}
		if matches := fuzzyMatches(snippet, lines); len(matches) > 0 {
			return Result{Lines: matches, Strategy: StrategyFuzzy}
		}
	}

	if matches := taxonomyMatches(f, lines); len(matches) > 0 {
		return Result{Lines: matches, Strategy: StrategyTaxonomy}
	}

	if repaired := repairClaimedLines(f, lines); len(repaired) > 0 {
		return Result{Lines: repaired, Strategy: StrategyNeighborhood}
	}

	if taxonomy.IsLenient(f.PrincipleID) {
		return Result{Strategy: StrategyAssumed, AssumedValid: true}
	}
	return Result{Strategy: StrategyNone}
}

// exactMatches finds lines that contain the snippet verbatim.
func exactMatches(snippet string, lines []string) []int {
	var out []int
	for i, line := range lines {
		if strings.Contains(line, snippet) {
			out = append(out, i+1)
			if len(out) == maxCandidates {
				break
			}
		}
	}
	return out
}

// fuzzyMatches finds lines that fuzzy-match the snippet.
func fuzzyMatches(snippet string, lines []string) []int {
	var out []int
	for i, line := range lines {
		if FuzzyMatch(snippet, line) {
			out = append(out, i+1)
			if len(out) == maxCandidates {
				break
			}
		}
	}
	return out
}

// taxonomyMatches scans every line with the registry's detection patterns
// for the finding's principle or category. The generic keyword tier is
// excluded here: it matches almost anything and would shadow the claimed
// line numbers that the neighborhood strategy still honors.
func taxonomyMatches(f finding.Finding, lines []string) []int {
	rs := taxonomy.RulesFor(f.PrincipleID, f.Category)
	if rs.Tier == taxonomy.TierGeneric {
		return nil
	}
	var out []int
	for i, line := range lines {
		if rs.MatchesAny(line) {
			out = append(out, i+1)
			if len(out) == maxCandidates {
				break
			}
		}
	}
	return out
}

// repairClaimedLines validates each claimed line number and, when the line
// itself carries no finding keyword, searches a small window around it for
// one. The original claimed number is kept as a last resort; out-of-range
// claims are dropped.
func repairClaimedLines(f finding.Finding, lines []string) []int {
	if len(f.LineNumbers) == 0 {
		return nil
	}
	keywords := ExtractKeywords(f)

	var out []int
	for _, ln := range f.LineNumbers {
		if ln < 1 || ln > len(lines) {
			continue
		}
		found := ln
		for offset := -neighborhoodRadius; offset <= neighborhoodRadius; offset++ {
			check := ln + offset
			if check < 1 || check > len(lines) {
				continue
			}
			if containsAnyKeyword(lines[check-1], keywords) {
				found = check
				break
			}
		}
		out = append(out, found)
		if len(out) == maxCandidates {
			break
		}
	}
	return out
}

func containsAnyKeyword(line string, keywords []string) bool {
	lower := strings.ToLower(line)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
