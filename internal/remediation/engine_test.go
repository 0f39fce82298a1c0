package remediation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uxforge/veneer/internal/backup"
	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/gateway"
	"github.com/uxforge/veneer/internal/session"
)

type stubGateway struct {
	payload *gateway.Payload
	err     error
	prompts []string
}

func (s *stubGateway) Call(_ context.Context, prompt string) (*gateway.Payload, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	return s.payload, nil
}

func (s *stubGateway) Name() string  { return "stub" }
func (s *stubGateway) Model() string { return "stub-model" }

const originalCSS = "h1 { font-size: 11px; }\np { margin: 16px; }\n"

// fixture builds an engine over a real temp file and a session holding one
// validated finding against it.
func fixture(t *testing.T, gw gateway.Gateway) (*Engine, string, string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "styles.css")
	require.NoError(t, os.WriteFile(path, []byte(originalCSS), 0o644))

	backups, err := backup.NewManager(filepath.Join(dir, "backups"))
	require.NoError(t, err)

	sessions := session.NewStore()
	sess := sessions.Create()

	vf := finding.ValidatedFinding{
		Finding: finding.Finding{
			IssueID:     "issue-1",
			PrincipleID: "TYPOGRAPHY_002",
			Category:    finding.CategoryTypography,
			Severity:    finding.SeverityCritical,
			LineNumbers: []int{1},
			Snippet:     "font-size: 11px;",
			Description: "body text below the readable minimum size",
		},
		ResolvedLines:   []int{1},
		ResolvedSnippet: "h1 { font-size: 11px; }",
		ValidationScore: 1.0,
	}
	sess.AddResult(session.FileResult{File: path, Model: "stub-model", Findings: []finding.ValidatedFinding{vf}})

	return NewEngine(sessions, gw, backups), sess.ID, "issue-1", path
}

func goodFixPayload() *gateway.Payload {
	return &gateway.Payload{
		Parsed:  true,
		Summary: "raised the heading size to a readable value",
		Changes: []gateway.Change{{
			LineNumber: 1,
			Original:   "font-size: 11px;",
			Fixed:      "font-size: 16px;",
			Reason:     "minimum readable size",
		}},
	}
}

func TestRemediateAppliesAndRollsBack(t *testing.T) {
	eng, sid, issue, path := fixture(t, &stubGateway{payload: goodFixPayload()})

	res := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	require.Empty(t, res.Error)
	require.True(t, res.Success)
	assert.True(t, res.Applied)
	assert.True(t, res.GatePassed)
	assert.Equal(t, StateApplied, res.State)
	assert.GreaterOrEqual(t, res.Quality, DefaultQualityThreshold)
	assert.True(t, res.SyntaxValid)
	assert.Equal(t, 1, res.ChangesCount)
	assert.Equal(t, 2, res.LinesChanged, "one line out, one line in")
	assert.Contains(t, res.Diff, "+ h1 { font-size: 16px; }")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(got), "font-size: 16px;")

	require.NotNil(t, eng.Records().Live(issue))

	// Roll back: byte-exact restore, record tombstoned.
	rb := eng.Rollback(sid, issue)
	require.True(t, rb.Success)
	assert.Equal(t, StateRolledBack, rb.State)

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, originalCSS, string(got))
	assert.Nil(t, eng.Records().Live(issue))

	// Rolling back again converges instead of erroring.
	rb2 := eng.Rollback(sid, issue)
	assert.True(t, rb2.Success)
	assert.Equal(t, StateRolledBack, rb2.State)
}

func TestRemediateQualityGateRejects(t *testing.T) {
	// The "fix" keeps the unreadable size, so no resolution pattern newly
	// appears and the gate must hold the line.
	payload := &gateway.Payload{
		Parsed: true,
		Changes: []gateway.Change{{
			LineNumber: 1,
			Original:   "font-size: 11px;",
			Fixed:      "font-size: 11px !important;",
		}},
	}
	eng, sid, issue, path := fixture(t, &stubGateway{payload: payload})

	res := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	require.True(t, res.Success)
	assert.False(t, res.Applied)
	assert.False(t, res.GatePassed)
	assert.Equal(t, StateRejected, res.State)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, originalCSS, string(got), "rejected fixes must not touch the file")

	assert.Nil(t, eng.Records().Live(issue))
	require.Len(t, eng.Records().History(issue), 1)
	assert.Equal(t, StateRejected, eng.Records().History(issue)[0].State)
}

func TestRemediateForceOverridesGate(t *testing.T) {
	payload := &gateway.Payload{
		Parsed: true,
		Changes: []gateway.Change{{
			LineNumber: 1,
			Original:   "font-size: 11px;",
			Fixed:      "font-size: 11px !important;",
		}},
	}
	eng, sid, issue, path := fixture(t, &stubGateway{payload: payload})

	res := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue, Force: true})
	require.True(t, res.Success)
	assert.True(t, res.Applied)
	assert.True(t, res.Forced)
	assert.False(t, res.GatePassed)

	got, _ := os.ReadFile(path)
	assert.Contains(t, string(got), "!important")

	// Forced applies are just as reversible.
	rb := eng.Rollback(sid, issue)
	require.True(t, rb.Success)
	got, _ = os.ReadFile(path)
	assert.Equal(t, originalCSS, string(got))
}

func TestRemediatePreviewDoesNotWrite(t *testing.T) {
	eng, sid, issue, path := fixture(t, &stubGateway{payload: goodFixPayload()})

	res := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue, Preview: true})
	require.True(t, res.Success)
	assert.True(t, res.Preview)
	assert.False(t, res.Applied)
	assert.Contains(t, res.FixedCode, "font-size: 16px;")
	assert.NotEmpty(t, res.Diff)

	got, _ := os.ReadFile(path)
	assert.Equal(t, originalCSS, string(got))
	assert.Empty(t, eng.Records().History(issue))
}

func TestRemediateAtMostOneLive(t *testing.T) {
	eng, sid, issue, _ := fixture(t, &stubGateway{payload: goodFixPayload()})

	first := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	require.True(t, first.Applied)

	second := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	assert.False(t, second.Success)
	assert.Equal(t, gateway.StageIssueLookup, second.Stage)
	assert.Contains(t, second.Error, "roll it back first")

	// After rollback the issue is remediable again.
	require.True(t, eng.Rollback(sid, issue).Success)
	third := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	assert.True(t, third.Applied)
}

func TestRemediateStageTaggedFailures(t *testing.T) {
	eng, sid, issue, path := fixture(t, &stubGateway{payload: goodFixPayload()})

	res := eng.Remediate(context.Background(), Request{SessionID: "nope", IssueID: issue})
	assert.False(t, res.Success)
	assert.Equal(t, gateway.StageSessionLookup, res.Stage)

	res = eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: "unknown"})
	assert.False(t, res.Success)
	assert.Equal(t, gateway.StageIssueLookup, res.Stage)
	assert.Contains(t, res.Error, issue, "miss should enumerate known ids")

	require.NoError(t, os.Remove(path))
	res = eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	assert.False(t, res.Success)
	assert.Equal(t, gateway.StageFileReading, res.Stage)
}

func TestRemediateUnusableModelResponse(t *testing.T) {
	eng, sid, issue, _ := fixture(t, &stubGateway{payload: &gateway.Payload{Raw: "I cannot help with that."}})

	res := eng.Remediate(context.Background(), Request{SessionID: sid, IssueID: issue})
	assert.False(t, res.Success)
	assert.Equal(t, gateway.StageLLMProcessing, res.Stage)
	assert.Contains(t, res.Error, "no usable fix")
}
