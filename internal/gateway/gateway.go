// Package gateway talks to external language-model providers and turns
// their free-form output into structured payloads.
//
// Everything a provider returns is untrusted: responses are parsed
// leniently, never trusted for locations or content, and prompts are
// redacted before leaving the process. Transient provider failures are
// retried with exponential backoff behind a per-provider circuit breaker.
package gateway

import (
	"context"
	"fmt"
)

// Stage identifies the pipeline step an error surfaced in. Stages travel
// with errors so that callers can report failures without guessing.
type Stage string

const (
	StageSessionLookup Stage = "session_lookup"
	StageIssueLookup   Stage = "issue_lookup"
	StageFileReading   Stage = "file_reading"
	StageLLMProcessing Stage = "llm_processing"
	StageFileWriting   Stage = "file_writing"
)

// Error is a stage-tagged gateway failure.
type Error struct {
	Stage    Stage
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s (%s): %v", e.Stage, e.Provider, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Change is one line-scoped edit proposed by a model.
type Change struct {
	LineNumber int    `json:"line_number"`
	Original   string `json:"original_code"`
	Fixed      string `json:"fixed_code"`
	Reason     string `json:"reason"`

	// IssueID ties the change back to the finding it addresses when the
	// model echoes it. Optional.
	IssueID string `json:"issue_id,omitempty"`
}

// Payload is the structured content extracted from one model response.
// Exactly which fields are populated depends on the prompt: detection
// responses carry Issues, remediation responses carry Changes or
// FixedCode.
type Payload struct {
	Issues    []ClaimedIssue `json:"issues"`
	Changes   []Change       `json:"changes"`
	FixedCode string         `json:"fixed_code"`
	Summary   string         `json:"summary"`

	// Raw preserves the verbatim response text for diagnostics and for
	// responses that failed structured extraction.
	Raw string `json:"-"`

	// Parsed is false when no JSON document could be extracted and the
	// payload carries only Raw.
	Parsed bool `json:"-"`
}

// ClaimedIssue is the wire shape of one model-claimed finding. Field
// names follow the prompt contract; values are unvalidated.
type ClaimedIssue struct {
	IssueID        string  `json:"issue_id"`
	PrincipleID    string  `json:"principle_id"`
	Category       string  `json:"category"`
	Severity       string  `json:"severity"`
	LineNumbers    []int   `json:"line_numbers"`
	Snippet        string  `json:"code_snippet"`
	Description    string  `json:"description"`
	Impact         string  `json:"impact"`
	Recommendation string  `json:"recommendation"`
	Accuracy       float64 `json:"accuracy_confidence"`
}

// Gateway is one provider capable of answering a prompt with text.
type Gateway interface {
	// Call sends the prompt and returns the parsed payload. The prompt
	// is redacted before transmission; the response is parsed leniently
	// and never fails on unstructured text.
	Call(ctx context.Context, prompt string) (*Payload, error)

	// Name identifies the provider for logs and error tags.
	Name() string

	// Model reports the model identifier requests are routed to.
	Model() string
}
