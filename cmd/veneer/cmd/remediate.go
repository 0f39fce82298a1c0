package cmd

import (
	stdcontext "context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/uxforge/veneer/internal/backup"
	"github.com/uxforge/veneer/internal/finding"
	"github.com/uxforge/veneer/internal/remediation"
	"github.com/uxforge/veneer/internal/session"
)

// defaultMinConfidence is the fix confidence a finding needs before it is
// auto-selected for remediation when no explicit issue ids are given.
const defaultMinConfidence = 0.8

func remediateCommand() *cli.Command {
	return &cli.Command{
		Name:      "remediate",
		Usage:     "Request, score and apply model fixes for accepted findings",
		ArgsUsage: "[FILE|DIR|GLOB...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringSliceFlag{
				Name:  "issue",
				Usage: "Issue id to remediate (can be repeated; default: all findings above --min-confidence)",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Compute fixes, scores and diffs without writing any file",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Apply fixes even when the quality gate fails",
			},
			&cli.FloatFlag{
				Name:  "min-confidence",
				Usage: "Minimum fix confidence for auto-selected findings",
				Value: defaultMinConfidence,
			},
			&cli.FloatFlag{
				Name:    "quality-threshold",
				Usage:   "Minimum remediation quality for auto-apply",
				Sources: cli.EnvVars("VENEER_REMEDIATION_QUALITY_THRESHOLD"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output remediation results as JSON",
			},
			&cli.BoolFlag{
				Name:  "show-diff",
				Usage: "Show the diff for each remediation (default: true)",
				Value: true,
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Usage:   "Glob pattern to exclude files (can be repeated)",
				Sources: cli.EnvVars("VENEER_EXCLUDE"),
			},
			&cli.BoolFlag{
				Name:  "no-static",
				Usage: "Disable the deterministic static checks",
			},
			&cli.StringFlag{
				Name:    "model",
				Usage:   "Override the remediation model identifier",
				Sources: cli.EnvVars("VENEER_REMEDIATION_PROVIDER_MODEL"),
			},
		},
		Action: runRemediate,
	}
}

// runRemediate analyzes the inputs, selects target findings, and drives
// the remediation lifecycle for each.
func runRemediate(ctx stdcontext.Context, cmd *cli.Command) error {
	run, err := analyzeInputs(ctx, cmd, "")
	if err != nil {
		return err
	}

	issues := selectIssues(cmd.StringSlice("issue"), cmd.Float("min-confidence"), run.results)
	if len(issues) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to remediate: no findings above the confidence bar")
		return nil
	}

	gw, err := buildGateway(run.cfg, run.cfg.Remediation.Provider, cmd.String("model"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	backups, err := backup.NewManager(run.cfg.Backup.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to prepare backup dir: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	engine := remediation.NewEngine(run.store, gw, backups)
	if cmd.IsSet("quality-threshold") {
		engine.Threshold = cmd.Float("quality-threshold")
	} else if run.cfg.Remediation.QualityThreshold > 0 {
		engine.Threshold = run.cfg.Remediation.QualityThreshold
	}

	results := make([]remediation.Result, 0, len(issues))
	failed := false
	for _, issueID := range issues {
		res := engine.Remediate(ctx, remediation.Request{
			SessionID: run.sess.ID,
			IssueID:   issueID,
			Force:     cmd.Bool("force"),
			Preview:   cmd.Bool("preview"),
		})
		results = append(results, res)
		if !res.Success {
			failed = true
		}
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
			return cli.Exit("", ExitConfigError)
		}
	} else {
		for _, res := range results {
			printResult(os.Stdout, res, cmd.Bool("show-diff"))
		}
	}

	if failed {
		return cli.Exit("", ExitFindings)
	}
	return nil
}

// selectIssues picks the issue ids to remediate: explicit --issue values,
// or every finding whose fix confidence clears the bar, most severe first.
func selectIssues(explicit []string, minConfidence float64, results []session.FileResult) []string {
	if len(explicit) > 0 {
		return explicit
	}

	var selected []finding.ValidatedFinding
	for _, res := range results {
		for _, f := range res.Findings {
			if f.Confidence >= minConfidence {
				selected = append(selected, f)
			}
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Severity.IsMoreSevereThan(selected[j].Severity)
	})

	issues := make([]string, len(selected))
	for i, f := range selected {
		issues[i] = f.IssueID
	}
	return issues
}

// printResult writes a human-readable summary of one remediation attempt.
func printResult(w io.Writer, res remediation.Result, showDiff bool) {
	switch {
	case !res.Success:
		fmt.Fprintf(w, "\n%s: FAILED at %s: %s\n", res.IssueID, res.Stage, res.Error)
		return
	case res.Preview:
		fmt.Fprintf(w, "\n%s: PREVIEW (quality %.2f, gate %v)\n", res.IssueID, res.Quality, res.GatePassed)
	case res.Applied:
		verdict := "APPLIED"
		if res.Forced {
			verdict = "APPLIED (forced)"
		}
		fmt.Fprintf(w, "\n%s: %s (quality %.2f)\n", res.IssueID, verdict, res.Quality)
	default:
		fmt.Fprintf(w, "\n%s: REJECTED (quality %.2f below gate)\n", res.IssueID, res.Quality)
	}

	fmt.Fprintf(w, "  file: %s, state: %s, changes: %d, lines changed: %d, syntax valid: %v\n",
		res.File, res.State, res.ChangesCount, res.LinesChanged, res.SyntaxValid)
	if res.Resolution.Description != "" {
		fmt.Fprintf(w, "  resolution: %s (confidence %.2f)\n", res.Resolution.Description, res.Resolution.Confidence)
	}
	if res.Summary != "" {
		fmt.Fprintf(w, "  summary: %s\n", res.Summary)
	}
	if showDiff && res.Diff != "" {
		fmt.Fprintf(w, "%s\n", res.Diff)
	}
	if res.Record != nil && res.Record.Backup.Path != "" {
		fmt.Fprintf(w, "  backup: %s\n", res.Record.Backup.Path)
	}
}
