package reporter

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// Default SARIF tool information.
const (
	defaultToolName = "veneer"
	defaultToolURI  = "https://github.com/uxforge/veneer"
)

// SARIFReporter formats findings as SARIF (Static Analysis Results Interchange Format).
// SARIF is a standard format for static analysis tools, widely supported by CI/CD systems
// including GitHub Code Scanning and Azure DevOps.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(results []session.FileResult, _ map[string][]byte, _ ReportMetadata) error {
	// Create a new SARIF report (v2.1.0 for maximum compatibility)
	report := sarif.NewReport()

	// Create a run with tool information
	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	// Collect unique principle ids and files
	ruleSet := make(map[string]struct{})
	fileSet := make(map[string]struct{})

	for _, res := range results {
		for _, f := range res.Findings {
			ruleSet[f.PrincipleID] = struct{}{}
			// Normalize path for SARIF URIs (cross-platform consistency)
			fileSet[filepath.ToSlash(res.File)] = struct{}{}
		}
	}

	// Add rule definitions from the taxonomy
	ruleCodes := make([]string, 0, len(ruleSet))
	for code := range ruleSet {
		ruleCodes = append(ruleCodes, code)
	}
	sort.Strings(ruleCodes)

	for _, code := range ruleCodes {
		rule := run.AddRule(code)
		if p, ok := taxonomy.Lookup(code); ok {
			rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(p.Name))
		}
	}

	// Add artifacts (files)
	files := make([]string, 0, len(fileSet))
	for file := range fileSet {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		run.AddDistinctArtifact(file)
	}

	// Add results
	for _, res := range results {
		filePath := filepath.ToSlash(res.File)

		for _, f := range SortedFindings(res) {
			result := sarif.NewRuleResult(f.PrincipleID).
				WithMessage(sarif.NewTextMessage(f.Description)).
				WithLevel(severityToSARIFLevel(f.Severity))

			lines := f.ResolvedLines
			if len(lines) == 0 {
				lines = f.LineNumbers
			}

			if len(lines) > 0 {
				start, end := lines[0], lines[0]
				for _, ln := range lines {
					if ln < start {
						start = ln
					}
					if ln > end {
						end = ln
					}
				}

				region := sarif.NewRegion().WithStartLine(start)
				if end > start {
					region.WithEndLine(end)
				}

				// Add source snippet if available
				if f.ResolvedSnippet != "" {
					region.WithSnippet(sarif.NewArtifactContent().WithText(f.ResolvedSnippet))
				}

				physicalLocation := sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
					WithRegion(region)

				result.WithLocations([]*sarif.Location{
					sarif.NewLocationWithPhysicalLocation(physicalLocation),
				})
			} else {
				// File-level finding, just include the file
				physicalLocation := sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath))

				result.WithLocations([]*sarif.Location{
					sarif.NewLocationWithPhysicalLocation(physicalLocation),
				})
			}

			run.AddResult(result)
		}
	}

	report.AddRun(run)

	// Write with pretty formatting for readability
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps finding severities to SARIF levels.
// SARIF uses: "error", "warning", "note", "none"
func severityToSARIFLevel(s finding.Severity) string {
	switch s {
	case finding.SeverityCritical, finding.SeverityHigh:
		return sarifLevelError
	case finding.SeverityMedium:
		return sarifLevelWarning
	case finding.SeverityLow:
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
