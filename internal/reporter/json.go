package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	// SessionID identifies the audit session, for later remediation calls.
	SessionID string `json:"session_id,omitempty"`
	// Files contains results grouped by file.
	Files []JSONFileResult `json:"files"`
	// Summary contains aggregate statistics.
	Summary Summary `json:"summary"`
	// FilesScanned is the total number of files analyzed.
	FilesScanned int `json:"files_scanned"`
}

// JSONFileResult contains the audit results for a single file.
type JSONFileResult struct {
	File     string                     `json:"file"`
	Model    string                     `json:"model,omitempty"`
	Findings []finding.ValidatedFinding `json:"findings"`
	Metrics  finding.Metrics            `json:"metrics"`
}

// Summary contains aggregate statistics about findings.
type Summary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Files    int `json:"files"`
}

// JSONReporter formats audit results as JSON output.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(results []session.FileResult, _ map[string][]byte, metadata ReportMetadata) error {
	output := JSONOutput{
		SessionID:    metadata.SessionID,
		Files:        make([]JSONFileResult, 0, len(results)),
		Summary:      calculateSummary(results),
		FilesScanned: metadata.FilesScanned,
	}

	for _, res := range results {
		findings := SortedFindings(res)
		// Normalize paths to forward slashes for cross-platform consistency
		for i := range findings {
			findings[i].File = filepath.ToSlash(findings[i].File)
		}
		output.Files = append(output.Files, JSONFileResult{
			File:     filepath.ToSlash(res.File),
			Model:    res.Model,
			Findings: findings,
			Metrics:  res.Metrics,
		})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// calculateSummary computes aggregate statistics from per-file results.
func calculateSummary(results []session.FileResult) Summary {
	summary := Summary{Files: len(results)}

	for _, res := range results {
		for _, f := range res.Findings {
			summary.Total++
			switch f.Severity {
			case finding.SeverityCritical:
				summary.Critical++
			case finding.SeverityHigh:
				summary.High++
			case finding.SeverityMedium:
				summary.Medium++
			case finding.SeverityLow:
				summary.Low++
			}
		}
	}

	return summary
}
