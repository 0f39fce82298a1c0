// Package analyzer runs the detection pass: it asks a model what is wrong
// with a file, validates every claim against the real text, merges in the
// deterministic static findings and scores the result.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/gateway"
	"github.com/uxforge/veneer/internal/session"
	"github.com/uxforge/veneer/internal/srcfile"
	"github.com/uxforge/veneer/internal/static"
	"github.com/uxforge/veneer/internal/validate"
)

// minClaimAccuracy discards claims the model itself marks as guesses.
// Claims without a self-reported confidence are kept; absence is not
// evidence of a guess.
const minClaimAccuracy = 0.3

// chunkSize is the number of lines per detection request for large files.
const chunkSize = 100

// Analyzer drives detection for one provider.
type Analyzer struct {
	gw gateway.Gateway

	// Static disables the deterministic checks when false.
	Static bool
}

// New returns an analyzer backed by the given gateway.
func New(gw gateway.Gateway) *Analyzer {
	return &Analyzer{gw: gw, Static: true}
}

// AnalyzeFile loads path and runs the full detection pipeline on it.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (session.FileResult, error) {
	f, err := srcfile.Read(path)
	if err != nil {
		return session.FileResult{}, &gateway.Error{Stage: gateway.StageFileReading, Err: err}
	}
	return a.Analyze(ctx, path, f.Content)
}

// Analyze runs detection over in-memory content. Claims are validated
// against the same content they were claimed about, so the result cannot
// drift from what the model saw.
func (a *Analyzer) Analyze(ctx context.Context, path, content string) (session.FileResult, error) {
	claims, err := a.detect(ctx, path, content)
	if err != nil {
		return session.FileResult{}, err
	}
	stampIssueIDs(claims)

	var accepted []finding.ValidatedFinding
	rejected := 0
	for _, claim := range claims {
		ok, vf := validate.Validate(claim, content)
		if !ok {
			rejected++
			slog.Debug("claim rejected",
				"file", path,
				"principle", claim.PrincipleID,
				"score", vf.ValidationScore)
			continue
		}
		accepted = append(accepted, vf)
	}

	if a.Static {
		ft := srcfile.DetectFileType(path)
		for _, sf := range static.Analyze(content, ft) {
			accepted = append(accepted, acceptStatic(sf.WithFile(path), content))
		}
	}

	slog.Info("analysis complete",
		"file", path,
		"model", a.gw.Model(),
		"claimed", len(claims),
		"rejected", rejected,
		"findings", len(accepted))

	return session.FileResult{
		File:     path,
		Model:    a.gw.Model(),
		Findings: accepted,
		Metrics:  finding.ComputeMetrics(accepted),
	}, nil
}

// detect sends detection prompts and converts the claims. Files longer
// than chunkSize lines are analyzed in chunks so the numbered code stays
// inside the model's attention span; claimed line numbers are rebased to
// the full file.
func (a *Analyzer) detect(ctx context.Context, path, content string) ([]finding.Finding, error) {
	lines := strings.Split(content, "\n")
	if len(lines) <= chunkSize {
		return a.detectChunk(ctx, path, content, 0)
	}

	var out []finding.Finding
	for start := 0; start < len(lines); start += chunkSize {
		end := min(start+chunkSize, len(lines))
		chunk := strings.Join(lines[start:end], "\n")

		claims, err := a.detectChunk(ctx, path, chunk, start)
		if err != nil {
			return nil, fmt.Errorf("analyzing lines %d-%d: %w", start+1, end, err)
		}
		out = append(out, claims...)
	}
	return out, nil
}

func (a *Analyzer) detectChunk(ctx context.Context, path, chunk string, offset int) ([]finding.Finding, error) {
	payload, err := a.gw.Call(ctx, gateway.DetectionPrompt(path, chunk))
	if err != nil {
		return nil, err
	}
	if !payload.Parsed {
		slog.Warn("unstructured detection response treated as zero findings",
			"file", path, "provider", a.gw.Name())
		return nil, nil
	}

	var out []finding.Finding
	for _, issue := range payload.Issues {
		if issue.Accuracy > 0 && issue.Accuracy < minClaimAccuracy {
			continue
		}
		out = append(out, claimToFinding(issue, path, a.gw.Model(), offset))
	}
	return out, nil
}

// claimToFinding converts one wire claim into a Finding, rebasing line
// numbers by the chunk offset. Nothing here is trusted: severity parses
// leniently and locations remain claims until validated.
func claimToFinding(c gateway.ClaimedIssue, path, model string, offset int) finding.Finding {
	lines := make([]int, 0, len(c.LineNumbers))
	for _, ln := range c.LineNumbers {
		lines = append(lines, ln+offset)
	}

	f := finding.Finding{
		IssueID:        c.IssueID,
		PrincipleID:    c.PrincipleID,
		Category:       finding.Category(strings.ToLower(c.Category)),
		Severity:       finding.ParseSeverityLenient(c.Severity),
		LineNumbers:    lines,
		Snippet:        c.Snippet,
		Description:    c.Description,
		Impact:         c.Impact,
		Recommendation: c.Recommendation,
	}
	return f.WithFile(path).WithModel(model)
}

// stampIssueIDs guarantees every claim carries a unique issue id; session
// lookup and the remediation record store both key on it. Model-provided
// ids are kept when distinct; missing or colliding ids are replaced with a
// generated AESTHETIC_<PRINCIPLE>_<NNN>.
func stampIssueIDs(claims []finding.Finding) {
	seen := make(map[string]bool, len(claims))
	for i := range claims {
		id := claims[i].IssueID
		if id == "" || seen[id] {
			for n := i + 1; ; n++ {
				id = fmt.Sprintf("AESTHETIC_%s_%03d", claims[i].PrincipleID, n)
				if !seen[id] {
					break
				}
			}
		}
		claims[i].IssueID = id
		seen[id] = true
	}
}

// acceptStatic wraps a static finding as validated. Static locations are
// exact by construction, so validation would only re-derive what the
// checker already knows.
func acceptStatic(f finding.Finding, content string) finding.ValidatedFinding {
	vf := finding.ValidatedFinding{
		Finding:         f,
		ResolvedLines:   f.LineNumbers,
		ResolvedSnippet: f.Snippet,
		ValidationScore: 1.0,
	}
	vf.Confidence = validate.FixConfidence(f, 1.0)
	vf.DesignContext = validate.AnalyzeDesignContext(f.Snippet)
	if len(f.LineNumbers) > 0 {
		vf.Context = srcfile.ExtractContext(content, f.LineNumbers, 3)
	}
	return vf
}
