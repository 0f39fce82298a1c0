package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
)

// auditFixture builds one analyzed stylesheet with two findings.
func auditFixture() ([]session.FileResult, map[string][]byte) {
	source := []byte("h1 { font-size: 11px; }\np { margin: 7px; }\na { color: #ff0000; }\n")
	findings := []finding.ValidatedFinding{
		{
			Finding: finding.Finding{
				IssueID:        "AESTHETIC_TYPOGRAPHY_002_001",
				PrincipleID:    "TYPOGRAPHY_002",
				Category:       finding.CategoryTypography,
				Severity:       finding.SeverityCritical,
				Description:    "Body text below the 12px readability floor",
				Recommendation: "Raise font-size to at least 14px",
				File:           "styles.css",
				Source:         finding.SourceModel,
			},
			ResolvedLines:   []int{1},
			ResolvedSnippet: "h1 { font-size: 11px; }",
			ValidationScore: 0.9,
			Confidence:      0.83,
		},
		{
			Finding: finding.Finding{
				IssueID:     "static-spacing-1",
				PrincipleID: "SPACING_001",
				Category:    finding.CategorySpacing,
				Severity:    finding.SeverityHigh,
				Description: "Spacing value 7px is off the 4px grid",
				File:        "styles.css",
				Source:      finding.SourceStatic,
			},
			ResolvedLines:   []int{2},
			ValidationScore: 1.0,
			Confidence:      0.8,
		},
	}
	results := []session.FileResult{{
		File:     "styles.css",
		Model:    "gpt-4o",
		Findings: findings,
		Metrics:  finding.ComputeMetrics(findings),
	}}
	sources := map[string][]byte{"styles.css": source}
	return results, sources
}

func TestPrintTextPlain_SingleFile(t *testing.T) {
	results, sources := auditFixture()

	var buf bytes.Buffer
	err := PrintTextPlain(&buf, results, sources, ReportMetadata{FilesScanned: 1, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}

	output := buf.String()

	// File header with design score
	if !strings.Contains(output, "styles.css") {
		t.Errorf("Missing file header, got:\n%s", output)
	}
	if !strings.Contains(output, "design score 90/100") {
		t.Errorf("Missing design score, got:\n%s", output)
	}

	// Finding headers (uses severity label)
	if !strings.Contains(output, "CRITICAL: TYPOGRAPHY_002") {
		t.Errorf("Missing critical header, got:\n%s", output)
	}
	if !strings.Contains(output, "HIGH: SPACING_001") {
		t.Errorf("Missing high header, got:\n%s", output)
	}
	if !strings.Contains(output, "Body text below the 12px readability floor") {
		t.Errorf("Missing description, got:\n%s", output)
	}
	if !strings.Contains(output, "fix: Raise font-size to at least 14px") {
		t.Errorf("Missing recommendation, got:\n%s", output)
	}
	if !strings.Contains(output, "validation 0.90, fix confidence 0.83") {
		t.Errorf("Missing score detail, got:\n%s", output)
	}

	// Snippet format
	if !strings.Contains(output, "styles.css:1") {
		t.Errorf("Missing file:line header, got:\n%s", output)
	}
	if !strings.Contains(output, "--------------------") {
		t.Errorf("Missing separator, got:\n%s", output)
	}
	if !strings.Contains(output, ">>>") {
		t.Errorf("Missing line marker, got:\n%s", output)
	}

	// Summary footer
	if !strings.Contains(output, "2 issue(s) across 1 file(s), session sess-1") {
		t.Errorf("Missing summary, got:\n%s", output)
	}
}

func TestPrintTextPlain_Snapshot(t *testing.T) {
	results, sources := auditFixture()

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, results, sources, ReportMetadata{FilesScanned: 1, SessionID: "sess-1"}); err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}

	snaps.MatchStandaloneSnapshot(t, buf.String())
}

func TestPrintTextPlain_DifferentSeverities(t *testing.T) {
	tests := []struct {
		severity finding.Severity
		label    string
	}{
		{finding.SeverityCritical, "CRITICAL:"},
		{finding.SeverityHigh, "HIGH:"},
		{finding.SeverityMedium, "MEDIUM:"},
		{finding.SeverityLow, "LOW:"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			findings := []finding.ValidatedFinding{{
				Finding: finding.Finding{
					IssueID:     "issue-1",
					PrincipleID: "COLOR_001",
					Severity:    tt.severity,
					Description: "test",
					File:        "a.css",
				},
			}}
			results := []session.FileResult{{
				File:     "a.css",
				Findings: findings,
				Metrics:  finding.ComputeMetrics(findings),
			}}

			var buf bytes.Buffer
			if err := PrintTextPlain(&buf, results, nil, ReportMetadata{FilesScanned: 1}); err != nil {
				t.Fatalf("PrintTextPlain failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.label) {
				t.Errorf("Missing %q label, got:\n%s", tt.label, buf.String())
			}
		})
	}
}

func TestPrintTextPlain_NoLocationSkipsSnippet(t *testing.T) {
	findings := []finding.ValidatedFinding{{
		Finding: finding.Finding{
			IssueID:     "issue-1",
			PrincipleID: "COLOR_003",
			Severity:    finding.SeverityCritical,
			Description: "assumed contrast problem",
			File:        "a.css",
		},
		AssumedValid: true,
	}}
	results := []session.FileResult{{
		File:     "a.css",
		Findings: findings,
		Metrics:  finding.ComputeMetrics(findings),
	}}
	sources := map[string][]byte{"a.css": []byte("a { color: red; }")}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, results, sources, ReportMetadata{FilesScanned: 1}); err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, ">>>") {
		t.Errorf("Unexpected snippet for unlocated finding, got:\n%s", output)
	}
	if !strings.Contains(output, "assumed valid") {
		t.Errorf("Missing assumed-valid flag, got:\n%s", output)
	}
}

func TestPrintTextPlain_OutOfRangeLines(t *testing.T) {
	findings := []finding.ValidatedFinding{{
		Finding: finding.Finding{
			IssueID:     "issue-1",
			PrincipleID: "SPACING_001",
			Severity:    finding.SeverityHigh,
			Description: "bad spacing",
			File:        "a.css",
		},
		ResolvedLines: []int{99},
	}}
	results := []session.FileResult{{
		File:     "a.css",
		Findings: findings,
		Metrics:  finding.ComputeMetrics(findings),
	}}
	sources := map[string][]byte{"a.css": []byte("a { margin: 7px; }")}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, results, sources, ReportMetadata{FilesScanned: 1}); err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}

	// Out-of-range location renders the finding but no snippet
	output := buf.String()
	if !strings.Contains(output, "HIGH: SPACING_001") {
		t.Errorf("Missing finding header, got:\n%s", output)
	}
	if strings.Contains(output, ">>>") {
		t.Errorf("Unexpected snippet for out-of-range line, got:\n%s", output)
	}
}

func TestPrintTextPlain_CleanFile(t *testing.T) {
	results := []session.FileResult{{
		File:    "clean.css",
		Metrics: finding.ComputeMetrics(nil),
	}}

	var buf bytes.Buffer
	if err := PrintTextPlain(&buf, results, nil, ReportMetadata{FilesScanned: 1}); err != nil {
		t.Fatalf("PrintTextPlain failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "design score 100/100, 0 issue(s)") {
		t.Errorf("Missing clean score, got:\n%s", output)
	}
	if !strings.Contains(output, "0 issue(s) across 1 file(s)") {
		t.Errorf("Missing summary, got:\n%s", output)
	}
}
