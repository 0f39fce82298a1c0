// Package remediation drives the bounded lifecycle that turns a validated
// finding into an applied (and reversible) fix.
//
// Every attempt moves through an explicit state machine and ends in
// Applied or Rejected; applied changes always have a verified backup
// first, so rollback is possible at any later point. Failures are tagged
// with the pipeline stage they surfaced in.
package remediation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uxforge/veneer/internal/backup"
	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/gateway"
	"github.com/uxforge/veneer/internal/session"
	"github.com/uxforge/veneer/internal/srcfile"
	"github.com/uxforge/veneer/internal/static"
	"github.com/uxforge/veneer/internal/validate"
)

// DefaultQualityThreshold gates auto-apply.
const DefaultQualityThreshold = 0.7

// Engine executes remediation requests against one session store.
type Engine struct {
	sessions *session.Store
	gw       gateway.Gateway
	backups  *backup.Manager
	records  *Store

	// Threshold is the minimum quality score for applying a fix without
	// force.
	Threshold float64
}

// NewEngine wires the engine's collaborators.
func NewEngine(sessions *session.Store, gw gateway.Gateway, backups *backup.Manager) *Engine {
	return &Engine{
		sessions:  sessions,
		gw:        gw,
		backups:   backups,
		records:   NewStore(),
		Threshold: DefaultQualityThreshold,
	}
}

// Records exposes the record store for reporting.
func (e *Engine) Records() *Store { return e.records }

// Request identifies one remediation to perform.
type Request struct {
	SessionID string
	IssueID   string

	// Force applies the fix even when the quality gate fails.
	Force bool

	// Preview computes the fix, score and diff without touching disk.
	Preview bool
}

// Result is the outcome of one remediation attempt. Success means the
// pipeline ran to a decision; a gate rejection is a successful run whose
// Applied field is false.
type Result struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Stage   gateway.Stage `json:"stage,omitempty"`

	IssueID string `json:"issue_id"`
	File    string `json:"file,omitempty"`
	State   State  `json:"state,omitempty"`

	Applied    bool `json:"applied"`
	Preview    bool `json:"preview,omitempty"`
	GatePassed bool `json:"quality_gate_passed"`
	Forced     bool `json:"forced,omitempty"`

	Quality      float64 `json:"quality_score"`
	Improvement  float64 `json:"improvement_score"`
	SyntaxValid  bool    `json:"syntax_valid"`
	ChangesCount int     `json:"changes_applied"`
	LinesChanged int     `json:"lines_changed"`

	Resolution validate.ResolutionOutcome `json:"resolution,omitempty"`
	Summary    string                     `json:"summary,omitempty"`
	Diff       string                     `json:"diff,omitempty"`
	FixedCode  string                     `json:"fixed_code,omitempty"`

	Record *Record `json:"record,omitempty"`
}

func fail(issueID string, stage gateway.Stage, err error) Result {
	return Result{IssueID: issueID, Stage: stage, Error: err.Error()}
}

// Remediate runs the full lifecycle for one issue. Concurrent requests
// for the same issue are serialized.
func (e *Engine) Remediate(ctx context.Context, req Request) Result {
	sess, err := e.sessions.Get(req.SessionID)
	if err != nil {
		return fail(req.IssueID, gateway.StageSessionLookup, err)
	}

	lock := sess.IssueLock(req.IssueID)
	lock.Lock()
	defer lock.Unlock()

	vf, file, err := sess.FindIssue(req.IssueID)
	if err != nil {
		return fail(req.IssueID, gateway.StageIssueLookup, err)
	}

	if live := e.records.Live(req.IssueID); live != nil {
		return fail(req.IssueID, gateway.StageIssueLookup,
			fmt.Errorf("issue already has an applied remediation (%s); roll it back first", live.ID))
	}

	src, err := srcfile.Read(file)
	if err != nil {
		return fail(req.IssueID, gateway.StageFileReading, err)
	}

	rec := newRecord(sess.ID, req.IssueID, file)
	// The finding arrived validated from the analysis pass.
	_ = rec.advance(StateValidated)
	_ = rec.advance(StateFixRequested)

	prompt := gateway.RemediationPrompt(vf, markedContext(src.Content, vf.ResolvedLines))
	payload, err := e.gw.Call(ctx, prompt)
	if err != nil {
		return fail(req.IssueID, gateway.StageLLMProcessing, err)
	}
	_ = rec.advance(StateFixReceived)

	fixed, changesApplied, err := buildFixedContent(src.Content, payload)
	if err != nil {
		return fail(req.IssueID, gateway.StageLLMProcessing, err)
	}

	syntax := srcfile.ValidateSyntax(fixed, src.Type)
	resolution := validate.CheckResolution(src.Content, fixed, vf.Finding)
	improvement := e.improvementScore(fixed, src.Type, vf)
	quality := validate.RemediationQuality(syntax.Valid, resolution.Confidence, improvement)
	_ = rec.advance(StateFixScored)

	rec.Quality = quality
	rec.Summary = payload.Summary
	rec.Diff = srcfile.Diff(src.Content, fixed)
	removed, added := srcfile.ChangedLineCount(src.Content, fixed)

	res := Result{
		Success:      true,
		IssueID:      req.IssueID,
		File:         file,
		Quality:      quality,
		Improvement:  improvement,
		SyntaxValid:  syntax.Valid,
		ChangesCount: changesApplied,
		LinesChanged: removed + added,
		Resolution:   resolution,
		Summary:      payload.Summary,
		Diff:         rec.Diff,
		GatePassed:   syntax.Valid && resolution.LikelyResolved && quality >= e.Threshold,
	}

	if req.Preview {
		res.Preview = true
		res.FixedCode = fixed
		res.State = StateFixScored
		return res
	}

	if !res.GatePassed && !req.Force {
		_ = rec.advance(StateRejected)
		res.State = StateRejected
		res.Record = rec
		_ = e.records.Append(rec)
		slog.Info("remediation rejected by quality gate",
			"issue", req.IssueID,
			"quality", quality,
			"syntax_valid", syntax.Valid,
			"likely_resolved", resolution.LikelyResolved)
		return res
	}
	res.Forced = !res.GatePassed

	// Snapshot before writing. A failed snapshot aborts the write: a
	// change without a rollback path must never reach disk.
	h, err := e.backups.Snapshot(file)
	if err != nil {
		return fail(req.IssueID, gateway.StageFileWriting, fmt.Errorf("backup failed, write aborted: %w", err))
	}
	if err := srcfile.Write(file, fixed); err != nil {
		return fail(req.IssueID, gateway.StageFileWriting, err)
	}

	_ = rec.advance(StateApplied)
	rec.Backup = h
	rec.AppliedAt = h.CreatedAt
	if err := e.records.Append(rec); err != nil {
		// The invariant was checked under the issue lock, so this means
		// the backup must win: restore and report.
		_ = e.backups.Restore(h)
		return fail(req.IssueID, gateway.StageFileWriting, err)
	}

	res.Applied = true
	res.State = StateApplied
	res.Record = rec
	slog.Info("remediation applied",
		"issue", req.IssueID,
		"file", file,
		"quality", quality,
		"forced", res.Forced)
	return res
}

// buildFixedContent derives the fixed file from the model payload. A
// whole-file fixed_code response wins; otherwise line-scoped changes are
// applied. A payload with neither is a model failure.
func buildFixedContent(original string, payload *gateway.Payload) (string, int, error) {
	if payload.FixedCode != "" {
		return payload.FixedCode, 1, nil
	}
	if !payload.Parsed || len(payload.Changes) == 0 {
		return "", 0, fmt.Errorf("model returned no usable fix")
	}
	fixed, applied := applyChanges(original, payload.Changes)
	if applied == 0 {
		return "", 0, fmt.Errorf("no change could be applied (all line numbers out of range)")
	}
	return fixed, applied, nil
}

// improvementScore rechecks the fixed content with the static analyzers:
// full credit when no similar issue remains, partial when one does.
func (e *Engine) improvementScore(fixed string, ft srcfile.FileType, original finding.ValidatedFinding) float64 {
	remaining := 0
	for _, f := range static.Analyze(fixed, ft) {
		if validate.SimilarIssue(f, original) {
			remaining++
		}
	}
	if remaining == 0 {
		return 1.0
	}
	return 0.3
}

// Rollback restores the file owned by an issue's live remediation and
// tombstones the record. Rolling back an issue with no live remediation
// is a no-op success, so retries converge.
func (e *Engine) Rollback(sessionID, issueID string) Result {
	sess, err := e.sessions.Get(sessionID)
	if err != nil {
		return fail(issueID, gateway.StageSessionLookup, err)
	}

	lock := sess.IssueLock(issueID)
	lock.Lock()
	defer lock.Unlock()

	live := e.records.Live(issueID)
	if live == nil {
		for _, r := range e.records.History(issueID) {
			if r.RolledBack {
				return Result{Success: true, IssueID: issueID, File: r.File, State: StateRolledBack}
			}
		}
		return fail(issueID, gateway.StageIssueLookup, fmt.Errorf("no applied remediation for issue %s", issueID))
	}

	if !e.backups.Exists(live.Backup) {
		return fail(issueID, gateway.StageFileWriting,
			fmt.Errorf("backup missing for remediation %s, cannot roll back", live.ID))
	}
	if err := e.backups.Restore(live.Backup); err != nil {
		return fail(issueID, gateway.StageFileWriting, err)
	}
	if err := e.records.tombstone(live); err != nil {
		return fail(issueID, gateway.StageFileWriting, err)
	}

	slog.Info("remediation rolled back", "issue", issueID, "file", live.File)
	return Result{
		Success: true,
		IssueID: issueID,
		File:    live.File,
		State:   StateRolledBack,
		Record:  live,
	}
}
