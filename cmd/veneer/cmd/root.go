package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/uxforge/veneer/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "veneer",
		Usage:   "An aesthetics auditor and fixer for UI source files",
		Version: version.Version(),
		Description: `veneer audits UI source files (HTML, CSS, JSX, XML) for aesthetic
defects, validating every model-reported claim against the real source
text before trusting it.

Accepted findings can be remediated: veneer asks a model for a fix,
scores it, and applies it behind a quality gate with a backup taken
first, so every applied change can be rolled back.

Examples:
  veneer analyze styles.css
  veneer analyze --format json src/
  veneer remediate --preview src/
  veneer remediate --issue AESTHETIC_COLOR_001_002 src/
  veneer rollback .veneer/backups/styles.css.<id>.bak`,
		Commands: []*cli.Command{
			analyzeCommand(),
			remediateCommand(),
			rollbackCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
