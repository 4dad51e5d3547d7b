// Package run imports whole directories of statements in one go
package run

import (
	"fmt"

	"fjacquet/ledger-import/cmd/root"
	"fjacquet/ledger-import/internal/batch"
	"fjacquet/ledger-import/internal/fileutils"
	"fjacquet/ledger-import/internal/logging"

	"github.com/spf13/cobra"
)

var opts batch.RunOptions

// Cmd represents the run command
var Cmd = &cobra.Command{
	Use:   "run <file-or-directory>...",
	Short: "Upload, preview and optionally commit many statements",
	Long: `Upload and preview every CSV and XLSX statement given, descending into
directories. Files are grouped by the account number in their names, which is
also the account they are committed into unless --account is set.

A file that fails does not stop the others; the command exits with an error
when any file failed.

Example:
  ledger-import run statements/ --commit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.Profile, "profile", "p", "", "Mapping profile for every file (default: auto-detect)")
	Cmd.Flags().StringVarP(&opts.Account, "account", "a", "", "Account for every file (default: from file names)")
	Cmd.Flags().BoolVar(&opts.Commit, "commit", false, "Commit each batch after preview")
}

func runFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	files, err := fileutils.ExpandInputs(args, fileutils.UploadExtensions...)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no statements found in %v", args)
	}

	results, err := batch.NewRunner(c.GetImporter(), root.GetLogger()).Run(cmd.Context(), files, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	root.GetLogger().Info("Run finished",
		logging.Field{Key: "files", Value: len(results)},
		logging.Field{Key: "failed", Value: failed})

	if err := c.GetReporter().Value(cmd.OutOrStdout(), batch.RunSummary(results)); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}
