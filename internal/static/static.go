// Package static runs deterministic aesthetic checks over UI source files.
//
// Static findings complement model-claimed ones: they carry exact line
// numbers by construction, so the validator treats their locations as
// ground truth and the scorer gives them a provenance boost.
package static

import (
	"github.com/google/uuid"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/srcfile"
)

// Analyze dispatches content to the dialect-specific checkers and returns
// the findings, each stamped with the static provenance and a fresh issue
// id. Unknown dialects yield no findings.
func Analyze(content string, ft srcfile.FileType) []finding.Finding {
	var out []finding.Finding
	switch ft {
	case srcfile.TypeCSS:
		out = analyzeCSS(content)
	case srcfile.TypeHTML:
		out = append(analyzeHTML(content), analyzeCSS(content)...)
	case srcfile.TypeJSX:
		out = analyzeJSX(content)
	case srcfile.TypeXML:
		out = analyzeXML(content)
	}
	for i := range out {
		out[i].IssueID = "static-" + uuid.NewString()
		out[i].Source = finding.SourceStatic
	}
	return out
}

// newFinding fills the fields every static check shares. Severity and
// category come from the taxonomy defaults when the key is known.
func newFinding(principleID string, sev finding.Severity, cat finding.Category, lines []int, snippet, description, recommendation string) finding.Finding {
	return finding.Finding{
		PrincipleID:    principleID,
		Category:       cat,
		Severity:       sev,
		LineNumbers:    lines,
		Snippet:        snippet,
		Description:    description,
		Recommendation: recommendation,
	}
}
