package reporter

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/session"
)

// Styles for different parts of the output
var (
	// Color detection using termenv (respects NO_COLOR, CLICOLOR_FORCE, terminal detection)
	useColors = termenv.EnvColorProfile() != termenv.Ascii

	// Principle id style
	principleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// Description style
	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")) // White

	// Secondary detail style (impact, recommendation, scores)
	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Gray

	// File location style
	fileLocStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")) // Light gray

	// Line number style
	lineNumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Dark gray

	// Separator style
	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")) // Darker gray

	// Marker style for affected lines
	markerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// Design score style
	scoreStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Blue

	// Severity styles
	severityStyles = map[finding.Severity]lipgloss.Style{
		finding.SeverityCritical: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red
		finding.SeverityHigh: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208")), // Dark orange
		finding.SeverityMedium: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange
		finding.SeverityLow: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("245")), // Gray
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// SyntaxHighlight enables syntax highlighting in source snippets.
	SyntaxHighlight bool

	// ShowSource shows source code snippets. Default: true.
	ShowSource bool

	// ChromaStyle is the Chroma style name for syntax highlighting.
	// Default: "monokai" for dark terminals, "github" for light.
	ChromaStyle string
}

// DefaultTextOptions returns sensible defaults for text output.
func DefaultTextOptions() TextOptions {
	return TextOptions{
		Color:           nil, // auto-detect
		SyntaxHighlight: true,
		ShowSource:      true,
		ChromaStyle:     "", // auto-detect
	}
}

// TextReporter formats audit results as styled text output.
type TextReporter struct {
	opts      TextOptions
	formatter chroma.Formatter
	style     *chroma.Style
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts}

	// Determine if colors should be used
	colorEnabled := useColors
	if opts.Color != nil {
		colorEnabled = *opts.Color
	}

	if colorEnabled && opts.SyntaxHighlight {
		// Select style based on terminal background or user preference
		styleName := opts.ChromaStyle
		if styleName == "" {
			if lipgloss.HasDarkBackground() {
				styleName = "monokai"
			} else {
				styleName = "github"
			}
		}
		r.style = styles.Get(styleName)
		if r.style == nil {
			r.style = styles.Fallback
		}

		r.formatter = formatters.Get("terminal256")
		if r.formatter == nil {
			r.formatter = formatters.Fallback
		}
	}

	return r
}

// Print writes per-file audit results to the writer.
func (r *TextReporter) Print(w io.Writer, results []session.FileResult, sources map[string][]byte, metadata ReportMetadata) error {
	colorEnabled := useColors
	if r.opts.Color != nil {
		colorEnabled = *r.opts.Color
	}

	for _, res := range results {
		if err := r.printFile(w, res, sources[res.File], colorEnabled); err != nil {
			return err
		}
	}

	r.printSummary(w, results, metadata, colorEnabled)
	return nil
}

// printFile formats one file's results: header, score, then findings.
func (r *TextReporter) printFile(w io.Writer, res session.FileResult, source []byte, colorEnabled bool) error {
	scoreLine := fmt.Sprintf("design score %d/100, %d issue(s)", res.Metrics.DesignScore, res.Metrics.TotalIssues)
	if colorEnabled {
		fmt.Fprintf(w, "\n%s  %s\n", fileLocStyle.Render(res.File), scoreStyle.Render(scoreLine))
	} else {
		fmt.Fprintf(w, "\n%s  %s\n", res.File, scoreLine)
	}

	for _, f := range SortedFindings(res) {
		if err := r.printFinding(w, f, source, colorEnabled); err != nil {
			return err
		}
	}
	return nil
}

// printFinding formats a single validated finding.
func (r *TextReporter) printFinding(w io.Writer, f finding.ValidatedFinding, source []byte, colorEnabled bool) error {
	// Get severity style
	sevStyle, ok := severityStyles[f.Severity]
	if !ok {
		sevStyle = severityStyles[finding.SeverityMedium]
	}

	// Header line: SEVERITY: PrincipleID [issue id]
	var header string
	if colorEnabled {
		sevLabel := strings.ToUpper(f.Severity.String())
		header = fmt.Sprintf("\n%s %s %s",
			sevStyle.Render(sevLabel+":"),
			principleStyle.Render(f.PrincipleID),
			detailStyle.Render("["+f.IssueID+"]"))
	} else {
		header = fmt.Sprintf("\n%s: %s [%s]", strings.ToUpper(f.Severity.String()), f.PrincipleID, f.IssueID)
	}
	fmt.Fprintln(w, header)

	// Description
	if colorEnabled {
		fmt.Fprintln(w, messageStyle.Render(f.Description))
	} else {
		fmt.Fprintln(w, f.Description)
	}

	// Scores and provenance
	detail := fmt.Sprintf("validation %.2f, fix confidence %.2f, source %s", f.ValidationScore, f.Confidence, f.Source)
	if f.AssumedValid {
		detail += ", assumed valid"
	}
	if colorEnabled {
		fmt.Fprintln(w, detailStyle.Render(detail))
	} else {
		fmt.Fprintln(w, detail)
	}

	if f.Recommendation != "" {
		if colorEnabled {
			fmt.Fprintln(w, detailStyle.Render("fix: "+f.Recommendation))
		} else {
			fmt.Fprintln(w, "fix: "+f.Recommendation)
		}
	}

	// Source snippet
	lines := f.ResolvedLines
	if len(lines) == 0 {
		lines = f.LineNumbers
	}
	if r.opts.ShowSource && len(lines) > 0 && len(source) > 0 {
		r.printSource(w, f.File, lines, source, colorEnabled)
	}

	return nil
}

// printSource renders the source window around the affected lines with
// optional syntax highlighting.
func (r *TextReporter) printSource(w io.Writer, file string, affected []int, source []byte, colorEnabled bool) {
	lines := strings.Split(string(source), "\n")

	start, end := affected[0], affected[0]
	for _, ln := range affected {
		if ln < start {
			start = ln
		}
		if ln > end {
			end = ln
		}
	}

	// Bounds check
	if start > len(lines) || start < 1 {
		return
	}
	if end > len(lines) {
		end = len(lines)
	}

	// Calculate padding (2-4 lines of context)
	pad := 2
	if end == start {
		pad = 4
	}

	displayStart := start
	p := 0
	for p < pad {
		expanded := false
		if start > 1 {
			start--
			p++
			expanded = true
		}
		if end < len(lines) {
			end++
			p++
			expanded = true
		}
		if !expanded {
			break
		}
	}

	affectedSet := make(map[int]bool, len(affected))
	for _, ln := range affected {
		affectedSet[ln] = true
	}

	// File:line header
	fmt.Fprintln(w)
	if colorEnabled {
		fmt.Fprintln(w, fileLocStyle.Render(fmt.Sprintf("%s:%d", file, displayStart)))
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintf(w, "%s:%d\n", file, displayStart)
		fmt.Fprintln(w, "--------------------")
	}

	lexer := r.lexerFor(file)

	// Print lines with optional syntax highlighting
	for i := start; i <= end; i++ {
		lineContent := strings.TrimSuffix(lines[i-1], "\r") // Trim CRLF to avoid artifacts

		// Format line number
		var lineNum string
		if colorEnabled {
			lineNum = lineNumStyle.Render(fmt.Sprintf(" %3d │", i))
		} else {
			lineNum = fmt.Sprintf(" %3d |", i)
		}

		// Format marker
		var marker string
		if affectedSet[i] {
			if colorEnabled {
				marker = markerStyle.Render(">>>")
			} else {
				marker = ">>>"
			}
		} else {
			marker = "   "
		}

		// Format line content with optional syntax highlighting
		var content string
		if colorEnabled && lexer != nil && r.style != nil && r.formatter != nil {
			content = r.highlightLine(lexer, lineContent)
		} else {
			content = lineContent
		}

		fmt.Fprintf(w, "%s %s %s\n", lineNum, marker, content)
	}

	// Closing separator
	if colorEnabled {
		fmt.Fprintln(w, separatorStyle.Render("────────────────────"))
	} else {
		fmt.Fprintln(w, "--------------------")
	}
}

// printSummary writes the aggregate footer.
func (r *TextReporter) printSummary(w io.Writer, results []session.FileResult, metadata ReportMetadata, colorEnabled bool) {
	total := 0
	for _, res := range results {
		total += res.Metrics.TotalIssues
	}

	summary := fmt.Sprintf("\n%d issue(s) across %d file(s)", total, metadata.FilesScanned)
	if metadata.SessionID != "" {
		summary += fmt.Sprintf(", session %s", metadata.SessionID)
	}
	if colorEnabled {
		fmt.Fprintln(w, scoreStyle.Render(summary))
	} else {
		fmt.Fprintln(w, summary)
	}
}

// lexerFor selects a Chroma lexer by file extension.
func (r *TextReporter) lexerFor(file string) chroma.Lexer {
	if !r.opts.SyntaxHighlight {
		return nil
	}

	var lexer chroma.Lexer
	switch strings.ToLower(filepath.Ext(file)) {
	case ".html", ".htm":
		lexer = lexers.Get("html")
	case ".css":
		lexer = lexers.Get("css")
	case ".scss", ".less":
		lexer = lexers.Get("scss")
	case ".jsx", ".tsx", ".js", ".ts":
		lexer = lexers.Get("jsx")
	case ".xml", ".svg":
		lexer = lexers.Get("xml")
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// highlightLine applies syntax highlighting to a single line.
func (r *TextReporter) highlightLine(lexer chroma.Lexer, line string) string {
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf bytes.Buffer
	err = r.formatter.Format(&buf, r.style, iterator)
	if err != nil {
		return line
	}

	// Trim trailing newline that formatter might add
	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintTextPlain writes results without any styling (for non-TTY output).
func PrintTextPlain(w io.Writer, results []session.FileResult, sources map[string][]byte, metadata ReportMetadata) error {
	noColor := false
	opts := TextOptions{
		Color:           &noColor,
		SyntaxHighlight: false,
		ShowSource:      true,
	}
	r := NewTextReporter(opts)
	return r.Print(w, results, sources, metadata)
}
