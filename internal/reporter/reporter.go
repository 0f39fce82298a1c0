// Package reporter provides output formatters for audit results.
//
// The package supports multiple output formats:
//   - text: Human-readable terminal output with colors and syntax highlighting
//   - json: Machine-readable JSON output
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
)

// ReportMetadata contains contextual information about the audit run.
type ReportMetadata struct {
	// FilesScanned is the total number of files that were analyzed.
	FilesScanned int
	// SessionID identifies the audit session the results belong to.
	SessionID string
}

// Reporter formats and outputs audit results.
type Reporter interface {
	// Report writes per-file results to the configured output.
	// sources maps file paths to their raw content for snippet rendering.
	Report(results []session.FileResult, sources map[string][]byte, metadata ReportMetadata) error
}

// SortedFindings returns a result's findings ordered by first resolved line,
// then principle id, for stable output. Findings without resolved lines sort last.
func SortedFindings(result session.FileResult) []finding.ValidatedFinding {
	sorted := make([]finding.ValidatedFinding, len(result.Findings))
	copy(sorted, result.Findings)
	sort.SliceStable(sorted, func(i, j int) bool {
		li, lj := firstLine(sorted[i]), firstLine(sorted[j])
		if li != lj {
			return li < lj
		}
		return sorted[i].PrincipleID < sorted[j].PrincipleID
	})
	return sorted
}

func firstLine(f finding.ValidatedFinding) int {
	lines := f.ResolvedLines
	if len(lines) == 0 {
		lines = f.LineNumbers
	}
	if len(lines) == 0 {
		return 1 << 30
	}
	return lines[0]
}

// Format represents an output format type.
type Format string

const (
	// FormatText is human-readable terminal output.
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON output.
	FormatJSON Format = "json"
	// FormatSARIF is Static Analysis Results Interchange Format.
	FormatSARIF Format = "sarif"
)

// ParseFormat parses a format string into a Format type.
// Returns an error if the format is unknown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, sarif)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	// Format specifies the output format.
	Format Format

	// Writer is the output destination.
	Writer io.Writer

	// Color enables/disables colored output (text format only).
	// nil means auto-detect.
	Color *bool

	// ShowSource enables source code snippets (text format only).
	ShowSource bool

	// ToolVersion is included in SARIF output.
	ToolVersion string

	// ToolName is the tool name for SARIF output.
	ToolName string

	// ToolURI is the tool information URI for SARIF output.
	ToolURI string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		Color:       nil, // auto-detect
		ShowSource:  true,
		ToolName:    "veneer",
		ToolURI:     "https://github.com/uxforge/veneer",
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		textOpts := TextOptions{
			Color: opts.Color,
			// Enable syntax highlighting when color is auto-detected (nil) or explicitly enabled
			SyntaxHighlight: opts.Color == nil || *opts.Color,
			ShowSource:      opts.ShowSource,
		}
		return &textReporterAdapter{
			reporter: NewTextReporter(textOpts),
			writer:   opts.Writer,
		}, nil

	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil

	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil

	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// textReporterAdapter adapts TextReporter to the Reporter interface.
type textReporterAdapter struct {
	reporter *TextReporter
	writer   io.Writer
}

// Report implements Reporter.
func (a *textReporterAdapter) Report(results []session.FileResult, sources map[string][]byte, metadata ReportMetadata) error {
	return a.reporter.Print(a.writer, results, sources, metadata)
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
