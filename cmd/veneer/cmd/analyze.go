package cmd

import (
	stdcontext "context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/uxforge/veneer/internal/analyzer"
	"github.com/uxforge/veneer/internal/config"
	"github.com/uxforge/veneer/internal/discovery"
	"github.com/uxforge/veneer/internal/gateway"
	"github.com/uxforge/veneer/internal/reporter"
	"github.com/uxforge/veneer/internal/session"
	"github.com/uxforge/veneer/internal/srcfile"
	"github.com/uxforge/veneer/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // No findings
	ExitFindings    = 1 // Accepted findings exist
	ExitConfigError = 2 // Config or provider error
	ExitNoFiles     = 3 // No UI source files found
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Audit UI source file(s) for aesthetic defects",
		ArgsUsage: "[FILE|DIR|GLOB...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif",
				Sources: cli.EnvVars("VENEER_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("VENEER_OUTPUT_PATH"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:    "show-source",
				Usage:   "Show source code snippets (default: true)",
				Value:   true,
				Sources: cli.EnvVars("VENEER_OUTPUT_SHOW_SOURCE"),
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets",
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
				Usage:   "Override the detection model identifier",
				Sources: cli.EnvVars("VENEER_DETECTION_PROVIDER_MODEL"),
			},
		},
		Action: runAnalyze,
	}
}

// analysisRun holds everything one detection pass produced.
type analysisRun struct {
	cfg     *config.Config
	store   *session.Store
	sess    *session.Session
	results []session.FileResult
	sources map[string][]byte
}

// runAnalyze is the action handler for the analyze command.
func runAnalyze(ctx stdcontext.Context, cmd *cli.Command) error {
	run, err := analyzeInputs(ctx, cmd, cmd.String("model"))
	if err != nil {
		return err
	}

	if err := writeReport(cmd, run); err != nil {
		return err
	}

	total := 0
	for _, res := range run.results {
		total += res.Metrics.TotalIssues
	}
	if total > 0 {
		return cli.Exit("", ExitFindings)
	}
	return nil
}

// analyzeInputs runs discovery and the detection pass over the command's
// arguments, recording every file result in a fresh session.
func analyzeInputs(ctx stdcontext.Context, cmd *cli.Command, detectionModel string) (*analysisRun, error) {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	cfg, err := loadConfig(cmd, inputs[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, cli.Exit("", ExitConfigError)
	}

	discovered, err := discovery.Discover(inputs, discovery.Options{
		Patterns:        cfg.Discovery.Include,
		ExcludePatterns: append(cfg.Discovery.Exclude, cmd.StringSlice("exclude")...),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to discover files: %v\n", err)
		return nil, cli.Exit("", ExitConfigError)
	}
	if len(discovered) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no UI source files found in %v\n", inputs)
		return nil, cli.Exit("", ExitNoFiles)
	}

	gw, err := buildGateway(cfg, cfg.Detection.Provider, detectionModel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, cli.Exit("", ExitConfigError)
	}

	a := analyzer.New(gw)
	a.Static = cfg.Detection.Static && !cmd.Bool("no-static")

	store := session.NewStore()
	run := &analysisRun{
		cfg:     cfg,
		store:   store,
		sess:    store.Create(),
		sources: make(map[string][]byte, len(discovered)),
	}

	for _, df := range discovered {
		result, err := a.AnalyzeFile(ctx, df.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to analyze %s: %v\n", df.Path, err)
			return nil, cli.Exit("", ExitConfigError)
		}
		run.sess.AddResult(result)
		run.results = append(run.results, result)

		f, err := srcfile.Read(df.Path)
		if err == nil {
			run.sources[result.File] = []byte(f.Content)
		}
	}

	return run, nil
}

// writeReport formats and writes the audit report.
func writeReport(cmd *cli.Command, run *analysisRun) error {
	format := run.cfg.Output.Format
	if cmd.IsSet("format") {
		format = cmd.String("format")
	}
	formatType, err := reporter.ParseFormat(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	path := run.cfg.Output.Path
	if cmd.IsSet("output") {
		path = cmd.String("output")
	}
	writer, closeWriter, err := reporter.GetWriter(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	defer func() {
		if err := closeWriter(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output: %v\n", err)
		}
	}()

	opts := reporter.DefaultOptions()
	opts.Format = formatType
	opts.Writer = writer
	opts.ShowSource = run.cfg.Output.ShowSource && cmd.Bool("show-source") && !cmd.Bool("hide-source")
	opts.ToolVersion = version.Version()

	if cmd.IsSet("no-color") && cmd.Bool("no-color") {
		noColor := false
		opts.Color = &noColor
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create reporter: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	metadata := reporter.ReportMetadata{
		FilesScanned: len(run.results),
		SessionID:    run.sess.ID,
	}
	if err := rep.Report(run.results, run.sources, metadata); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write output: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	return nil
}

// loadConfig loads configuration, honoring an explicit --config path.
func loadConfig(cmd *cli.Command, targetPath string) (*config.Config, error) {
	if configPath := cmd.String("config"); configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load(targetPath)
}

// buildGateway constructs a provider gateway from config. An empty
// provider kind falls back to the detection provider; modelOverride, when
// non-empty, replaces the configured model identifier.
func buildGateway(cfg *config.Config, provider config.ProviderConfig, modelOverride string) (gateway.Gateway, error) {
	if provider.Kind == "" {
		provider = cfg.Detection.Provider
	}
	if modelOverride != "" {
		provider.Model = modelOverride
	}

	timeout, err := time.ParseDuration(cfg.Gateway.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gateway timeout %q: %w", cfg.Gateway.Timeout, err)
	}

	return gateway.New(provider.Kind, gateway.ProviderConfig{
		BaseURL: provider.BaseURL,
		APIKey:  provider.APIKey(),
		Model:   provider.Model,
		Timeout: timeout,
	})
}
