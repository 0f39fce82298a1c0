package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/veneer/internal/finding"
)

const scorerSource = `.card {
  margin: 10px;
  color: #ff0000;
  font-size: 11px;
}`

func TestValidationScore(t *testing.T) {
	t.Run("full marks", func(t *testing.T) {
		f := finding.Finding{
			PrincipleID: "SPACING_001",
			Category:    finding.CategorySpacing,
			LineNumbers: []int{2},
			Snippet:     "margin: 10px;",
			Description: "inconsistent spacing breaks the design rhythm here",
		}
		score := ValidationScore(f, []int{2}, scorerSource)
		assert.InDelta(t, 1.0, score, 1e-9)
	})

	t.Run("unknown principle loses its component", func(t *testing.T) {
		f := finding.Finding{
			PrincipleID: "NOT_A_KEY",
			LineNumbers: []int{2},
			Snippet:     "margin: 10px;",
			Description: "inconsistent spacing breaks the design rhythm here",
		}
		score := ValidationScore(f, []int{2}, scorerSource)
		assert.InDelta(t, 0.8, score, 1e-9)
	})

	t.Run("out of range lines reduce accuracy", func(t *testing.T) {
		f := finding.Finding{
			PrincipleID: "SPACING_001",
			LineNumbers: []int{2, 999},
		}
		score := ValidationScore(f, []int{2}, scorerSource)
		assert.InDelta(t, 0.4*0.5+0.2, score, 1e-9)
	})

	t.Run("empty claim scores zero components except none", func(t *testing.T) {
		score := ValidationScore(finding.Finding{PrincipleID: "BOGUS"}, nil, scorerSource)
		assert.Equal(t, 0.0, score)
	})

	t.Run("short description ignored", func(t *testing.T) {
		f := finding.Finding{Description: "bad color"}
		assert.Equal(t, 0.0, ValidationScore(f, nil, scorerSource))
	})
}

func TestFixConfidence(t *testing.T) {
	base := finding.Finding{Severity: finding.SeverityMedium}
	assert.InDelta(t, 0.7, FixConfidence(base, 1.0), 1e-9)

	critical := finding.Finding{Severity: finding.SeverityCritical}
	assert.InDelta(t, 0.9, FixConfidence(critical, 1.0), 1e-9)

	high := finding.Finding{Severity: finding.SeverityHigh}
	assert.InDelta(t, 0.8, FixConfidence(high, 1.0), 1e-9)

	static := finding.Finding{Severity: finding.SeverityMedium, Source: finding.SourceStatic}
	assert.InDelta(t, 0.8, FixConfidence(static, 1.0), 1e-9)

	structural := finding.Finding{
		Severity: finding.SeverityMedium,
		Snippet:  ".card { margin: 10px; }",
	}
	assert.InDelta(t, 0.8, FixConfidence(structural, 1.0), 1e-9)

	// All boosts together clamp at 1.0.
	maxed := finding.Finding{
		Severity: finding.SeverityCritical,
		Source:   finding.SourceStatic,
		Snippet:  ".card { margin: 10px; }",
	}
	assert.Equal(t, 1.0, FixConfidence(maxed, 1.0))

	// Zero validation scales the base away.
	assert.InDelta(t, 0.2, FixConfidence(critical, 0.0), 1e-9)
}

func TestRemediationQuality(t *testing.T) {
	// Valid syntax plus half the resolution patterns plus a full
	// improvement score clears the auto-apply gate.
	assert.InDelta(t, 0.8, RemediationQuality(true, 0.5, 1.0), 1e-9)

	assert.InDelta(t, 1.0, RemediationQuality(true, 1.0, 1.0), 1e-9)
	assert.InDelta(t, 0.0, RemediationQuality(false, 0, 0), 1e-9)

	// Broken syntax alone costs 0.3.
	assert.InDelta(t, 0.7, RemediationQuality(false, 1.0, 1.0), 1e-9)

	// Out-of-range inputs are clamped, never amplified.
	assert.Equal(t, 1.0, RemediationQuality(true, 2.0, 5.0))
}

func TestCheckResolution(t *testing.T) {
	f := finding.Finding{PrincipleID: "TYPOGRAPHY_002", Category: finding.CategoryTypography}

	original := "h1 { font-size: 11px; }"
	fixed := "h1 { font-size: 16px; }"

	out := CheckResolution(original, fixed, f)
	require.NotEmpty(t, out.Description)
	assert.True(t, out.LikelyResolved)
	assert.Greater(t, out.Confidence, 0.0)

	unchanged := CheckResolution(original, original, f)
	assert.False(t, unchanged.LikelyResolved)
	assert.Equal(t, 0.0, unchanged.Confidence)
}

func TestCheckResolutionGenericTier(t *testing.T) {
	f := finding.Finding{PrincipleID: "", Category: finding.Category("unmapped")}

	out := CheckResolution("div { }", "div { border-radius: 8px; }", f)
	assert.True(t, out.LikelyResolved)
	assert.InDelta(t, 0.5, out.Confidence, 1e-9)

	miss := CheckResolution("div { }", "div { }", f)
	assert.False(t, miss.LikelyResolved)
	assert.InDelta(t, 0.1, miss.Confidence, 1e-9)
}

func TestSimilarIssue(t *testing.T) {
	original := finding.ValidatedFinding{
		Finding: finding.Finding{PrincipleID: "COLOR_001", LineNumbers: []int{4, 5}},
	}
	original.ResolvedLines = []int{4, 5}

	samePrinciple := finding.Finding{PrincipleID: "COLOR_001", LineNumbers: []int{90}}
	assert.True(t, SimilarIssue(samePrinciple, original))

	overlapping := finding.Finding{PrincipleID: "SPACING_001", LineNumbers: []int{5}}
	assert.True(t, SimilarIssue(overlapping, original))

	unrelated := finding.Finding{PrincipleID: "SPACING_001", LineNumbers: []int{42}}
	assert.False(t, SimilarIssue(unrelated, original))

	// Claimed lines back up the comparison when resolution never happened.
	noResolved := finding.ValidatedFinding{
		Finding: finding.Finding{PrincipleID: "COLOR_001", LineNumbers: []int{7}},
	}
	touching := finding.Finding{PrincipleID: "OTHER", LineNumbers: []int{7}}
	assert.True(t, SimilarIssue(touching, noResolved))
}
