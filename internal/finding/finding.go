package finding

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Source identifies where a finding came from.
type Source string

const (
	// SourceModel marks findings claimed by an external language model.
	// These are untrusted until validated against the real source text.
	SourceModel Source = "model"

	// SourceStatic marks findings produced by the deterministic static
	// analyzer. Locations are exact by construction.
	SourceStatic Source = "static_analysis"
)

// Category groups aesthetic principles into broad design concerns.
type Category string

const (
	CategoryColor          Category = "color"
	CategorySpacing        Category = "spacing"
	CategoryTypography     Category = "typography"
	CategoryHierarchy      Category = "hierarchy"
	CategoryConsistency    Category = "consistency"
	CategoryModernPatterns Category = "modern_patterns"
	CategoryBalance        Category = "balance"
	CategoryClutter        Category = "clutter"
)

// Categories returns all known categories in stable order.
func Categories() []Category {
	return []Category{
		CategoryColor, CategorySpacing, CategoryTypography,
		CategoryHierarchy, CategoryConsistency, CategoryModernPatterns,
		CategoryBalance, CategoryClutter,
	}
}

// Finding is a claimed aesthetic defect, as reported by a detector.
//
// A Finding is immutable once created: validation derives a
// ValidatedFinding copy and never mutates the original. Model-sourced
// fields (LineNumbers, Snippet) are untrusted claims until the locator
// and validator have corroborated them.
type Finding struct {
	// IssueID uniquely identifies the finding within a session
	// (e.g. "AESTHETIC_COLOR_001_003").
	IssueID string `json:"issue_id"`

	// PrincipleID is the aesthetic taxonomy key (e.g. "SPACING_001").
	PrincipleID string `json:"principle_id"`

	// Category is the broad design concern this finding belongs to.
	Category Category `json:"category"`

	// Severity indicates how serious the claimed defect is.
	Severity Severity `json:"severity"`

	// LineNumbers are the 1-based lines the detector claims the defect
	// occupies. May be empty or out of range for model findings.
	LineNumbers []int `json:"line_numbers,omitempty"`

	// Snippet is the code fragment the detector claims to have seen.
	// Models frequently paraphrase; treat as a hint, not ground truth.
	Snippet string `json:"code_snippet,omitempty"`

	// Description explains the defect.
	Description string `json:"description"`

	// Impact describes the effect on visual quality (optional).
	Impact string `json:"impact,omitempty"`

	// Recommendation suggests how to fix the defect (optional).
	Recommendation string `json:"recommendation,omitempty"`

	// Source identifies the detector kind.
	Source Source `json:"source"`

	// File is the path of the audited source file.
	File string `json:"file,omitempty"`

	// DetectionModel names the model that produced this claim, when
	// Source is SourceModel.
	DetectionModel string `json:"detection_model,omitempty"`
}

// WithFile returns a copy of the finding bound to a file path.
func (f Finding) WithFile(path string) Finding {
	f.File = path
	return f
}

// WithModel returns a copy of the finding attributed to a detection model.
func (f Finding) WithModel(model string) Finding {
	f.DetectionModel = model
	f.Source = SourceModel
	return f
}

// DesignContext summarizes what design machinery a snippet touches.
type DesignContext struct {
	// PatternsFound maps each design pattern group detected in the
	// snippet (color_values, spacing_values, typography, ...) to the
	// matched fragments.
	PatternsFound map[string][]string `json:"patterns_found"`

	// Relevance is "low" or "high" depending on whether any design
	// pattern was found at all.
	Relevance string `json:"design_relevance"`

	// Complexity is "low", "medium" or "high" based on how many
	// distinct pattern groups the snippet exercises.
	Complexity string `json:"complexity"`

	// ModernPatterns lists modern-design properties present in the
	// snippet (box-shadow, border-radius, ...).
	ModernPatterns []string `json:"modern_patterns"`
}

// ContextLine is one line of surrounding source context.
type ContextLine struct {
	Number      int    `json:"number"`
	Content     string `json:"content"`
	Highlighted bool   `json:"highlighted"`
	Indentation int    `json:"indentation"`
	Empty       bool   `json:"is_empty"`
}

// CodeContext is a window of source lines around a finding's location.
type CodeContext struct {
	Lines       []ContextLine `json:"lines"`
	StartLine   int           `json:"start_line"`
	EndLine     int           `json:"end_line"`
	Highlighted []int         `json:"highlighted_lines,omitempty"`
}

// ValidatedFinding is a Finding whose location has been corroborated
// against the real source text. Created by the validator, consumed by
// the remediation orchestrator and by reporting.
type ValidatedFinding struct {
	Finding

	// ResolvedLines are the 1-based lines the locator settled on.
	// Empty when the finding was accepted under the leniency policy.
	ResolvedLines []int `json:"resolved_line_numbers,omitempty"`

	// ResolvedSnippet is the exact source text at the resolved lines.
	ResolvedSnippet string `json:"resolved_snippet,omitempty"`

	// ValidationScore is the calibrated location/claim quality score in [0,1].
	ValidationScore float64 `json:"validation_score"`

	// Confidence is the fix confidence score in [0,1]: how likely an
	// automated remediation of this finding is to be worthwhile.
	Confidence float64 `json:"fix_confidence"`

	// DesignContext describes the design machinery around the defect.
	DesignContext DesignContext `json:"design_context"`

	// Context is the numbered source window around the resolved lines.
	Context *CodeContext `json:"code_context,omitempty"`

	// AssumedValid is set when the finding had no usable location data
	// but its principle is in the always-plausible set. Tunable policy,
	// see taxonomy.IsLenient.
	AssumedValid bool `json:"assumed_valid,omitempty"`
}

// Key returns a stable identity string for deduplication.
func (f Finding) Key() string {
	lines := make([]string, len(f.LineNumbers))
	for i, ln := range f.LineNumbers {
		lines[i] = fmt.Sprintf("%d", ln)
	}
	return f.PrincipleID + "|" + f.File + "|" + strings.Join(lines, ",")
}

// MarshalIndent renders the finding as indented JSON, for diagnostics.
func (f Finding) MarshalIndent() string {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Sprintf("finding %s (unmarshalable: %v)", f.IssueID, err)
	}
	return string(b)
}
