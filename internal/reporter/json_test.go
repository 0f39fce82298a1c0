package reporter

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
)

func TestJSONReporter(t *testing.T) {
	results, sources := auditFixture()

	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	if err := r.Report(results, sources, ReportMetadata{FilesScanned: 1, SessionID: "sess-1"}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if output.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want %q", output.SessionID, "sess-1")
	}
	if output.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", output.FilesScanned)
	}
	if len(output.Files) != 1 {
		t.Fatalf("Files = %d, want 1", len(output.Files))
	}

	file := output.Files[0]
	if file.File != "styles.css" {
		t.Errorf("File = %q, want %q", file.File, "styles.css")
	}
	if file.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", file.Model, "gpt-4o")
	}
	if len(file.Findings) != 2 {
		t.Fatalf("Findings = %d, want 2", len(file.Findings))
	}
	// Findings sorted by resolved line
	if file.Findings[0].PrincipleID != "TYPOGRAPHY_002" {
		t.Errorf("first finding = %q, want TYPOGRAPHY_002", file.Findings[0].PrincipleID)
	}
	if file.Metrics.DesignScore != 90 {
		t.Errorf("DesignScore = %d, want 90", file.Metrics.DesignScore)
	}

	if output.Summary.Total != 2 {
		t.Errorf("Summary.Total = %d, want 2", output.Summary.Total)
	}
	if output.Summary.Critical != 1 || output.Summary.High != 1 {
		t.Errorf("Summary breakdown = %+v, want 1 critical, 1 high", output.Summary)
	}
	if output.Summary.Files != 1 {
		t.Errorf("Summary.Files = %d, want 1", output.Summary.Files)
	}
}

func TestJSONReporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	if err := r.Report(nil, nil, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if output.Files == nil {
		t.Error("Files should be an empty array, not null")
	}
	if output.Summary.Total != 0 {
		t.Errorf("Summary.Total = %d, want 0", output.Summary.Total)
	}
}

func TestJSONReporterSummaryCounts(t *testing.T) {
	mk := func(sev finding.Severity) finding.ValidatedFinding {
		return finding.ValidatedFinding{Finding: finding.Finding{
			IssueID:     "issue",
			PrincipleID: "COLOR_001",
			Severity:    sev,
			Description: "test",
			File:        "a.css",
		}}
	}
	findings := []finding.ValidatedFinding{
		mk(finding.SeverityCritical),
		mk(finding.SeverityMedium),
		mk(finding.SeverityMedium),
		mk(finding.SeverityLow),
	}
	results := []session.FileResult{{
		File:     "a.css",
		Findings: findings,
		Metrics:  finding.ComputeMetrics(findings),
	}}

	var buf bytes.Buffer
	r := NewJSONReporter(&buf)
	if err := r.Report(results, nil, ReportMetadata{FilesScanned: 1}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	s := output.Summary
	if s.Total != 4 || s.Critical != 1 || s.High != 0 || s.Medium != 2 || s.Low != 1 {
		t.Errorf("Summary = %+v, want 1 critical, 2 medium, 1 low", s)
	}
}
