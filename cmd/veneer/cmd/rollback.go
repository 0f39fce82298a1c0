package cmd

import (
	stdcontext "context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/uxforge/veneer/internal/backup"
)

func rollbackCommand() *cli.Command {
	return &cli.Command{
		Name:      "rollback",
		Usage:     "Restore files from remediation backups",
		ArgsUsage: "BACKUP...",
		Description: `Restores each source file from the snapshot veneer took before
applying a remediation. BACKUP is the snapshot path printed by
remediate (a *.bak file under the backup directory).`,
		Action: runRollback,
	}
}

func runRollback(_ stdcontext.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no backup path given")
		return cli.Exit("", ExitConfigError)
	}

	failed := false
	for _, path := range paths {
		if err := rollbackOne(os.Stdout, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}
	if failed {
		return cli.Exit("", ExitFindings)
	}
	return nil
}

// rollbackOne restores one snapshot and reports what was restored.
func rollbackOne(w io.Writer, path string) error {
	h, err := backup.Lookup(path)
	if err != nil {
		return err
	}
	if err := backup.Restore(h); err != nil {
		return err
	}
	fmt.Fprintf(w, "restored %s from %s\n", h.Source, h.Path)
	return nil
}
