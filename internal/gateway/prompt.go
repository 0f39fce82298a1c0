package gateway

import (
	"fmt"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/srcfile"
	"github.com/uxforge/veneer/internal/taxonomy"
)

// DetectionPrompt builds the aesthetic-review prompt for one file. The
// code is line-numbered so the model's claimed line numbers have a
// defined meaning, and the response contract is stated as strict JSON.
func DetectionPrompt(path, content string) string {
	var sb strings.Builder

	sb.WriteString("You are a senior UI design reviewer. Analyze the following source file for aesthetic defects.\n\n")
	sb.WriteString("Judge only against these principles:\n")
	for _, p := range taxonomy.All() {
		fmt.Fprintf(&sb, "- %s: %s (default severity %s)\n", p.ID, p.Name, p.Severity)
	}

	fmt.Fprintf(&sb, "\nFile: %s\n", path)
	sb.WriteString("Code (line numbers are authoritative):\n")
	sb.WriteString(srcfile.NumberedCode(content))

	sb.WriteString(`
Respond with JSON only, no prose, in this shape:
{
  "issues": [
    {
      "issue_id": "AESTHETIC_COLOR_001_001",
      "principle_id": "COLOR_001",
      "category": "color",
      "severity": "high",
      "line_numbers": [12],
      "code_snippet": "<the exact offending line or fragment>",
      "description": "<what is wrong>",
      "impact": "<why it matters>",
      "recommendation": "<how to fix it>",
      "accuracy_confidence": 0.9
    }
  ]
}
Use the numbered lines above for line_numbers. Copy code_snippet verbatim from the file.
Give every issue a distinct issue_id of the form AESTHETIC_<PRINCIPLE>_<NNN>.
Report an empty issues array when nothing is wrong.`)

	return sb.String()
}

// RemediationPrompt builds the fix-request prompt for one validated
// finding. markedContext is the surrounding code with the offending lines
// marked; the model must respond with line-scoped changes.
func RemediationPrompt(vf finding.ValidatedFinding, markedContext string) string {
	var sb strings.Builder

	sb.WriteString("You are a senior UI engineer. Fix exactly one aesthetic defect.\n\n")
	fmt.Fprintf(&sb, "Principle: %s\n", vf.PrincipleID)
	if p, ok := taxonomy.Lookup(vf.PrincipleID); ok {
		fmt.Fprintf(&sb, "Principle name: %s\n", p.Name)
	}
	fmt.Fprintf(&sb, "Severity: %s\n", vf.Severity)
	fmt.Fprintf(&sb, "Defect: %s\n", vf.Description)
	if vf.Recommendation != "" {
		fmt.Fprintf(&sb, "Suggested direction: %s\n", vf.Recommendation)
	}

	sb.WriteString("\nCode context (lines marked >>> carry the defect, line numbers are authoritative):\n")
	sb.WriteString(markedContext)

	sb.WriteString(`
Respond with JSON only, no prose, in this shape:
{
  "changes": [
    {
      "line_number": 12,
      "original_code": "<the exact current line content>",
      "fixed_code": "<the replacement line content>",
      "reason": "<one sentence>"
    }
  ],
  "summary": "<one sentence describing the fix>"
}
Change only what the defect requires. original_code must match the current line exactly.`)

	return sb.String()
}
