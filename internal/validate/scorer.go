package validate

import (
	"strings"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// Weights of the validation score components.
const (
	weightLineAccuracy      = 0.4
	weightSnippetPresence   = 0.3
	weightKnownPrinciple    = 0.2
	weightDescription       = 0.1
	minDescriptionLength    = 20
	autoApplyBaseConfidence = 0.7
)

var domainKeywords = []string{
	"color", "spacing", "typography", "hierarchy", "design", "aesthetic",
}

// ValidationScore grades how well a claim lines up with the source text.
// Always in [0,1], including for empty claims.
//
// Components: in-range fraction of the claimed line numbers (0.4), the
// claimed snippet appearing verbatim on a resolved line (0.3), the
// principle being a known taxonomy key (0.2), and a substantive,
// domain-flavored description (0.1).
func ValidationScore(f finding.Finding, resolved []int, source string) float64 {
	score := 0.0
	lines := strings.Split(source, "\n")

	if len(f.LineNumbers) > 0 {
		valid := 0
		for _, ln := range f.LineNumbers {
			if ln >= 1 && ln <= len(lines) {
				valid++
			}
		}
		score += weightLineAccuracy * float64(valid) / float64(len(f.LineNumbers))
	}

	snippet := strings.TrimSpace(f.Snippet)
	if snippet != "" {
		for _, ln := range resolved {
			if ln >= 1 && ln <= len(lines) && strings.Contains(lines[ln-1], snippet) {
				score += weightSnippetPresence
				break
			}
		}
	}

	if taxonomy.Known(f.PrincipleID) {
		score += weightKnownPrinciple
	}

	if len(f.Description) > minDescriptionLength && containsDomainKeyword(f.Description) {
		score += weightDescription
	}

	return clamp01(score)
}

// FixConfidence estimates how worthwhile an automated remediation of the
// finding is. Base 0.7 scaled by the validation score, then adjusted for
// severity, provenance and snippet substance. Clamped to [0,1].
func FixConfidence(f finding.Finding, validationScore float64) float64 {
	confidence := autoApplyBaseConfidence * validationScore

	switch f.Severity {
	case finding.SeverityCritical:
		confidence += 0.2
	case finding.SeverityHigh:
		confidence += 0.1
	}

	if f.Source == finding.SourceStatic {
		confidence += 0.1
	}

	if len(f.Snippet) > 10 && (strings.Contains(f.Snippet, "{") || strings.Contains(f.Snippet, "<")) {
		confidence += 0.1
	}

	return clamp01(confidence)
}

// Weights of the remediation quality score components.
const (
	weightSyntax      = 0.3
	weightResolution  = 0.4
	weightImprovement = 0.3
)

// RemediationQuality combines the three post-fix checks into the score
// that gates auto-apply: candidate syntax validity, resolution-pattern
// confidence, and the fresh-validation improvement score.
func RemediationQuality(syntaxValid bool, resolutionConfidence, improvementScore float64) float64 {
	score := 0.0
	if syntaxValid {
		score += weightSyntax
	}
	score += weightResolution * clamp01(resolutionConfidence)
	score += weightImprovement * clamp01(improvementScore)
	return clamp01(score)
}

// ResolutionOutcome reports how strongly a candidate fix signals that the
// original issue was addressed.
type ResolutionOutcome struct {
	// LikelyResolved is true when at least one resolution pattern is
	// newly present in the fixed content.
	LikelyResolved bool

	// Improvements lists the patterns found in the fixed content that
	// were absent from the original.
	Improvements []string

	// Description is the registry's account of what resolution means for
	// this taxonomy key.
	Description string

	// Confidence is the fraction of resolution patterns newly present.
	Confidence float64
}

// CheckResolution compares original and fixed content against the
// resolution patterns for the finding's taxonomy key.
func CheckResolution(original, fixed string, f finding.Finding) ResolutionOutcome {
	rs := taxonomy.RulesFor(f.PrincipleID, f.Category)
	out := ResolutionOutcome{Description: rs.Description}
	if len(rs.Resolution) == 0 {
		return out
	}

	for _, re := range rs.Resolution {
		if re.MatchString(fixed) && !re.MatchString(original) {
			out.Improvements = append(out.Improvements, re.String())
		}
	}
	out.LikelyResolved = len(out.Improvements) > 0
	out.Confidence = float64(len(out.Improvements)) / float64(len(rs.Resolution))

	// Generic-tier matches are weak evidence: cap the confidence the way
	// a fallback heuristic deserves.
	if rs.Tier == taxonomy.TierGeneric {
		if out.LikelyResolved {
			out.Confidence = 0.5
		} else {
			out.Confidence = 0.1
		}
	}
	return out
}

// SimilarIssue reports whether a freshly detected finding refers to the
// same underlying defect as a previously validated one: same principle id,
// or overlapping line numbers.
func SimilarIssue(fresh finding.Finding, original finding.ValidatedFinding) bool {
	if fresh.PrincipleID != "" && fresh.PrincipleID == original.PrincipleID {
		return true
	}

	origLines := original.ResolvedLines
	if len(origLines) == 0 {
		origLines = original.LineNumbers
	}
	set := make(map[int]struct{}, len(origLines))
	for _, ln := range origLines {
		set[ln] = struct{}{}
	}
	for _, ln := range fresh.LineNumbers {
		if _, ok := set[ln]; ok {
			return true
		}
	}
	return false
}

func containsDomainKeyword(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
