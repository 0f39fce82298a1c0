package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/gateway"
)

// stubGateway replays canned payloads and records prompts.
type stubGateway struct {
	payloads []*gateway.Payload
	prompts  []string
	calls    int
	err      error
}

func (s *stubGateway) Call(_ context.Context, prompt string) (*gateway.Payload, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	p := s.payloads[min(s.calls, len(s.payloads)-1)]
	s.calls++
	return p, nil
}

func (s *stubGateway) Name() string  { return "stub" }
func (s *stubGateway) Model() string { return "stub-model" }

func claimed(principle string, line int, snippet string, accuracy float64) gateway.ClaimedIssue {
	return gateway.ClaimedIssue{
		PrincipleID: principle,
		Category:    "spacing",
		Severity:    "high",
		LineNumbers: []int{line},
		Snippet:     snippet,
		Description: "spacing drifts off the grid and breaks rhythm",
		Accuracy:    accuracy,
	}
}

func TestAnalyzeValidatesClaims(t *testing.T) {
	content := ".card {\n  margin: 10px;\n  border-radius: 8px;\n}"
	stub := &stubGateway{payloads: []*gateway.Payload{{
		Parsed: true,
		Issues: []gateway.ClaimedIssue{
			claimed("SPACING_001", 2, "margin: 10px;", 0.9),
			// Fabricated: no color exists anywhere in the file.
			{
				PrincipleID: "COLOR_002",
				Category:    "color",
				Severity:    "high",
				LineNumbers: []int{1},
				Snippet:     "color: #123456;",
				Description: "hardcoded hue that appears nowhere in the palette",
				Accuracy:    0.9,
			},
		},
	}}}

	a := New(stub)
	a.Static = false
	res, err := a.Analyze(context.Background(), "styles.css", content)
	require.NoError(t, err)

	require.Len(t, res.Findings, 1)
	f := res.Findings[0]
	assert.Equal(t, "SPACING_001", f.PrincipleID)
	assert.Equal(t, []int{2}, f.ResolvedLines)
	assert.Equal(t, "stub-model", f.DetectionModel)
	assert.Equal(t, "styles.css", f.File)
	assert.Equal(t, 1, res.Metrics.TotalIssues)
}

func TestAnalyzeStampsIssueIDs(t *testing.T) {
	content := ".card {\n  margin: 10px;\n  padding: 10px;\n}"

	withID := claimed("SPACING_001", 2, "margin: 10px;", 0.9)
	withID.IssueID = "AESTHETIC_SPACING_001_001"
	stub := &stubGateway{payloads: []*gateway.Payload{{
		Parsed: true,
		Issues: []gateway.ClaimedIssue{
			withID,
			// No id and a duplicate of the first: both must come out
			// with distinct generated ids.
			claimed("SPACING_001", 3, "padding: 10px;", 0.9),
			withID,
		},
	}}}

	a := New(stub)
	a.Static = false
	res, err := a.Analyze(context.Background(), "styles.css", content)
	require.NoError(t, err)
	require.Len(t, res.Findings, 3)

	seen := map[string]bool{}
	for i, f := range res.Findings {
		assert.NotEmpty(t, f.IssueID, "finding %d (%s) has no issue id", i, f.PrincipleID)
		assert.False(t, seen[f.IssueID], "duplicate issue id %s", f.IssueID)
		seen[f.IssueID] = true
	}
	assert.Equal(t, "AESTHETIC_SPACING_001_001", res.Findings[0].IssueID)
}

func TestAnalyzeDropsLowAccuracyClaims(t *testing.T) {
	content := ".card {\n  margin: 10px;\n}"
	stub := &stubGateway{payloads: []*gateway.Payload{{
		Parsed: true,
		Issues: []gateway.ClaimedIssue{
			claimed("SPACING_001", 2, "margin: 10px;", 0.2),
		},
	}}}

	a := New(stub)
	a.Static = false
	res, err := a.Analyze(context.Background(), "styles.css", content)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
	assert.Equal(t, 100, res.Metrics.DesignScore)
}

func TestAnalyzeChunksLargeFilesAndRebasesLines(t *testing.T) {
	// 250 lines: chunks start at offsets 0, 100 and 200. Every chunk has
	// its only margin on chunk-local line 2.
	lines := make([]string, 250)
	for i := range lines {
		lines[i] = "/* filler */"
	}
	lines[1] = "  margin: 10px;"
	lines[101] = "  margin: 18px;"
	lines[201] = "  margin: 26px;"
	content := strings.Join(lines, "\n")

	stub := &stubGateway{payloads: []*gateway.Payload{
		{Parsed: true, Issues: []gateway.ClaimedIssue{claimed("SPACING_001", 2, "margin: 10px;", 0.9)}},
		{Parsed: true, Issues: []gateway.ClaimedIssue{claimed("SPACING_001", 2, "margin: 18px;", 0.9)}},
		{Parsed: true, Issues: []gateway.ClaimedIssue{claimed("SPACING_001", 2, "margin: 26px;", 0.9)}},
	}}

	a := New(stub)
	a.Static = false
	res, err := a.Analyze(context.Background(), "big.css", content)
	require.NoError(t, err)

	require.Len(t, stub.prompts, 3)
	require.Len(t, res.Findings, 3)
	assert.Equal(t, []int{2}, res.Findings[0].ResolvedLines)
	assert.Equal(t, []int{102}, res.Findings[1].ResolvedLines)
	assert.Equal(t, []int{202}, res.Findings[2].ResolvedLines)
}

func TestAnalyzeUnstructuredResponseFallsBackToStatic(t *testing.T) {
	stub := &stubGateway{payloads: []*gateway.Payload{{Raw: "no JSON here"}}}

	a := New(stub)
	res, err := a.Analyze(context.Background(), "styles.css", ".card { margin: 7px; }")
	require.NoError(t, err)

	require.NotEmpty(t, res.Findings)
	for _, f := range res.Findings {
		assert.Equal(t, finding.SourceStatic, f.Source)
		assert.Equal(t, 1.0, f.ValidationScore)
	}
}

func TestAnalyzeFileMissing(t *testing.T) {
	a := New(&stubGateway{})
	_, err := a.AnalyzeFile(context.Background(), "does/not/exist.css")
	require.Error(t, err)

	var gwErr *gateway.Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, gateway.StageFileReading, gwErr.Stage)
}
