// Package validate decides whether claimed findings are corroborated by the
// real source text and computes the calibrated confidence scores that gate
// remediation.
package validate

import (
	"strings"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/locator"
	"github.com/uxforge/veneer/internal/srcfile"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// contextWindow is how many lines of surrounding context are attached to a
// validated finding.
const contextWindow = 3

// Validate reconciles a claimed finding against the source text.
//
// Acceptance is any-match: one resolved line corroborating the claim via
// the exact, fuzzy or taxonomy patterns is sufficient. A finding with no
// resolvable location is rejected unless its principle is in the
// always-plausible set. The input finding is never mutated; the returned
// ValidatedFinding is a derived copy.
func Validate(f finding.Finding, source string) (bool, finding.ValidatedFinding) {
	loc := locator.Locate(f, source)

	vf := finding.ValidatedFinding{
		Finding:       f,
		ResolvedLines: loc.Lines,
		AssumedValid:  loc.AssumedValid,
	}
	vf.DesignContext = AnalyzeDesignContext(f.Snippet)

	if loc.Unresolved() {
		vf.ValidationScore = ValidationScore(f, nil, source)
		vf.Confidence = FixConfidence(f, vf.ValidationScore)
		return false, vf
	}

	if loc.AssumedValid {
		vf.ValidationScore = ValidationScore(f, nil, source)
		vf.Confidence = FixConfidence(f, vf.ValidationScore)
		return true, vf
	}

	lines := strings.Split(source, "\n")
	if !anyLineCorroborates(f, loc.Lines, lines) {
		vf.ValidationScore = ValidationScore(f, loc.Lines, source)
		vf.Confidence = FixConfidence(f, vf.ValidationScore)
		return false, vf
	}

	vf.ResolvedSnippet = resolvedSnippet(lines, loc.Lines, f.Snippet)
	vf.DesignContext = AnalyzeDesignContext(vf.ResolvedSnippet)
	vf.Context = srcfile.ExtractContext(source, loc.Lines, contextWindow)
	vf.ValidationScore = ValidationScore(f, loc.Lines, source)
	vf.Confidence = FixConfidence(f, vf.ValidationScore)
	return true, vf
}

// anyLineCorroborates applies the any-match policy: a single resolved line
// matching the claim via exact substring, fuzzy match or the registry's
// detection patterns accepts the finding.
func anyLineCorroborates(f finding.Finding, resolved []int, lines []string) bool {
	snippet := strings.TrimSpace(f.Snippet)
	rs := taxonomy.RulesFor(f.PrincipleID, f.Category)

	for _, ln := range resolved {
		if ln < 1 || ln > len(lines) {
			continue
		}
		content := strings.TrimSpace(lines[ln-1])
		if snippet != "" && strings.Contains(content, snippet) {
			return true
		}
		if snippet != "" && locator.FuzzyMatch(snippet, content) {
			return true
		}
		// Generic-tier patterns match nearly everything; they corroborate
		// nothing.
		if rs.Tier != taxonomy.TierGeneric && rs.MatchesAny(content) {
			return true
		}
	}
	return false
}

// resolvedSnippet re-extracts the snippet from the lines the locator
// settled on, replacing whatever the model paraphrased. Falls back to the
// claimed snippet when the resolved lines are unusable.
func resolvedSnippet(lines []string, resolved []int, claimed string) string {
	var actual []string
	for _, ln := range resolved {
		if ln >= 1 && ln <= len(lines) {
			actual = append(actual, lines[ln-1])
		}
	}
	switch len(actual) {
	case 0:
		return claimed
	case 1:
		return strings.TrimSpace(actual[0])
	default:
		for i, l := range actual {
			actual[i] = strings.TrimRight(l, " \t")
		}
		return strings.Join(actual, "\n")
	}
}
